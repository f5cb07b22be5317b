package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"qabot/internal/dataset"
	"qabot/internal/domain"
)

const datasetWarning = "WARNING: dataset not loaded; answering with the QA model only."

// loadDataset loads the dataset and prints the startup diagnostic to out.
// A missing or malformed file degrades to the empty dataset; only
// embedding failures and cancellation are returned.
func loadDataset(ctx context.Context, loader *dataset.Loader, path string, out io.Writer, logger *zap.Logger) (*dataset.Dataset, error) {
	ds, err := loader.Load(ctx, path)
	var loadErr *domain.DatasetLoadError
	switch {
	case errors.As(err, &loadErr):
		logger.Warn("dataset unavailable", zap.String("path", loadErr.Path), zap.Error(loadErr.Err))
		fmt.Fprintln(out, datasetWarning)
		return dataset.Empty(), nil
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	case ds.Len() == 0:
		logger.Warn("dataset has no questions", zap.String("path", path))
		fmt.Fprintln(out, datasetWarning)
	default:
		fmt.Fprintf(out, "Dataset loaded with %d question/answer examples.\n", ds.Len())
	}
	return ds, nil
}

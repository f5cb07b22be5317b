// Package qacount counts the question entries of a SQuAD-style dataset dump.
package qacount

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Count decodes a JSON list and sums the lengths of each object's "qas"
// list. Objects without "qas", and items that are not objects, count zero.
func Count(r io.Reader) (int, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return 0, fmt.Errorf("decode dataset json: %w", err)
	}
	total := 0
	for i, raw := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			continue
		}
		qas, ok := obj["qas"]
		if !ok {
			continue
		}
		var entries []json.RawMessage
		if err := json.Unmarshal(qas, &entries); err != nil {
			return 0, fmt.Errorf("item %d: \"qas\" is not a list: %w", i, err)
		}
		total += len(entries)
	}
	return total, nil
}

// CountFile counts the entries of the dataset stored at path.
func CountFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Count(f)
}

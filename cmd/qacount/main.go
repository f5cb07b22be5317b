package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"qabot/internal/logging"
	"qabot/internal/qacount"
)

func main() {
	_ = godotenv.Load()

	var path string
	var debug bool
	flag.StringVar(&path, "file", "dataset_tunado.json", "Path to the dataset file to count")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	logger, err := logging.NewLogger(debug, "stderr")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	n, err := qacount.CountFile(path)
	if err != nil {
		logger.Fatal("count failed", zap.String("file", path), zap.Error(err))
	}
	logger.Debug("counted", zap.String("file", path), zap.Int("questions", n))
	fmt.Printf("Total questions in dataset: %d\n", n)
}

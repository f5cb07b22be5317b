package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"qabot/internal/config"
	"qabot/internal/console"
	"qabot/internal/dataset"
	"qabot/internal/domain"
	"qabot/internal/logging"
	"qabot/internal/qa"
	"qabot/internal/service"
	"qabot/internal/summarizer"
	"qabot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, datasetPath, ui string
	var debug bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/qabot/config.yaml if not provided)")
	flag.StringVar(&datasetPath, "dataset", "", "Path to the question/answer dataset (overrides dataset.path)")
	flag.StringVar(&ui, "ui", "", "Front end: console or tui (overrides chat.ui)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if datasetPath != "" {
		cfg.Dataset.Path = datasetPath
	}
	if ui != "" {
		cfg.Chat.UI = ui
	}
	if debug {
		cfg.Log.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log.Debug, cfg.Log.Output)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Chat.UI == "console" {
		fmt.Println("Alzheimer's QA Chatbot")
		fmt.Printf("Ask a question about Alzheimer's disease. Type '%s' to quit.\n", cfg.Chat.ExitKeyword)
	}

	// Assemble components
	emb, closeCache, err := buildEmbedder(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("embedder init failed", zap.Error(err))
	}
	defer closeCache()

	ds, err := loadDataset(ctx, dataset.NewLoader(emb, logger), cfg.Dataset.Path, os.Stdout, logger)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nShutting down...")
			return
		}
		logger.Fatal("dataset embedding failed", zap.Error(err))
	}

	m, closeStore, err := buildMatcher(ctx, cfg, ds, emb, logger)
	if err != nil {
		logger.Fatal("matcher init failed", zap.Error(err))
	}
	defer closeStore()

	answerer, err := buildAnswerer(cfg)
	if err != nil {
		logger.Fatal("qa model init failed", zap.Error(err))
	}

	svc := service.NewChatService(m, qa.NewFallback(answerer, logger), ds, logger)
	logger.Info("chatbot ready",
		zap.String("embedder", emb.Name()),
		zap.String("matcher", m.Name()),
		zap.String("qa", cfg.QA.Type),
		zap.Int("examples", ds.Len()),
	)

	switch cfg.Chat.UI {
	case "tui":
		summary := summarize(ds, cfg.Summarizer.MaxSentences, logger)
		p := tea.NewProgram(tui.New(ctx, svc, summary, cfg.Chat.ExitKeyword), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			logger.Fatal("tui stopped", zap.Error(err))
		}
	default:
		loop := console.NewLoop(svc, os.Stdin, os.Stdout, console.Options{
			Prompt:      cfg.Chat.Prompt,
			ExitKeyword: cfg.Chat.ExitKeyword,
		}, logger)
		if err := loop.Run(ctx); err != nil {
			logger.Error("console stopped", zap.Error(err))
		}
	}
}

// summarize condenses the dataset contexts into the TUI header line.
func summarize(ds *dataset.Dataset, maxSentences int, logger *zap.Logger) string {
	if ds.Len() == 0 {
		return "No dataset loaded; answers come from the QA model only."
	}
	var sum domain.Summarizer = summarizer.NewFrequencySummarizer()
	text, err := sum.Summarize(strings.Join(ds.Contexts(), " "), maxSentences)
	if err != nil {
		logger.Warn("summary failed", zap.Error(err))
		return fmt.Sprintf("%d question/answer examples loaded.", ds.Len())
	}
	logger.Debug("dataset summary", zap.String("summary", text))
	return text
}

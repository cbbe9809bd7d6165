// Command-line driver: scrape the ad count for every URL in a CSV and write
// the augmented copy.
package main

import (
	"adscount/adscount/config"
	"adscount/adscount/services/batch"
	"adscount/adscount/utils/logging"
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	args := os.Args[1:]
	if len(args) != 2 {
		fmt.Println("adscount usage:")
		fmt.Println("  adscount <input.csv> <output.csv>")
		os.Exit(1)
	}
	inputPath, outputPath := args[0], args[1]

	runID := fmt.Sprintf("cli-%s", uuid.New().String()[:8])
	logging.AppLogger.Info("cli batch starting",
		zap.String("run_id", runID),
		zap.String("input", inputPath),
		zap.String("output", outputPath),
	)

	consoleProgress := func(current, total int, message string) {
		fmt.Println(message)
	}

	if err := batch.RunFile(context.Background(), cfg, inputPath, outputPath, consoleProgress); err != nil {
		logging.ErrorLogger.Error("cli batch failed", zap.String("run_id", runID), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.AppLogger.Info("cli batch finished", zap.String("run_id", runID))
}

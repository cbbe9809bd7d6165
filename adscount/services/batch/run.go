package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"adscount/adscount/config"
	"adscount/adscount/services/extractor"
	"adscount/adscount/sources/browser"
	"adscount/adscount/sources/table"
	"adscount/adscount/utils/logging"
	"adscount/adscount/utils/types"
)

// RunFile is the whole pipeline: read the input CSV, scrape every row, write
// the input back out with the results column. Errors returned here are
// batch-fatal (bad input table, browser startup, output write); per-row
// failures end up in the output column instead.
func RunFile(ctx context.Context, cfg config.Config, inputPath, outputPath string, progress types.ProgressFunc) error {
	defer logging.LogDuration(ctx, "batch.RunFile")()

	tbl, err := table.Load(inputPath)
	if err != nil {
		return err
	}
	col, err := tbl.DetectURLColumn()
	if err != nil {
		return err
	}
	rows := tbl.Rows(col)
	logging.AppLogger.Info("batch starting",
		zap.String("input", inputPath),
		zap.String("url_column", tbl.Header[col]),
		zap.Int("rows", len(rows)),
	)

	session, err := browser.NewSession(cfg.Browser)
	if err != nil {
		return fmt.Errorf("start browser session: %w", err)
	}
	defer session.Close()

	runner := &Runner{
		NewPage: func() (Page, error) { return session.NewPage() },
		Opts: extractor.Options{
			NavigationTimeout: cfg.Scrape.RetryNavTimeout,
			ElementTimeout:    cfg.Scrape.RetryElementTimeout,
		},
		MaxAttempts: cfg.Scrape.MaxAttempts,
		RetryDelay:  cfg.Scrape.RetryDelay,
		RowDelay:    cfg.Scrape.RowDelay,
		Logger:      logging.AppLogger,
	}

	report, err := runner.Run(ctx, rows, progress)
	if err != nil {
		return err
	}

	tbl.SetColumn(cfg.Output.Column, report.Cells())
	if err := tbl.Write(outputPath); err != nil {
		return err
	}
	logging.AppLogger.Info("batch finished", zap.String("output", outputPath), zap.Int("rows", len(report)))
	if progress != nil {
		progress(len(rows), len(rows), fmt.Sprintf("Done! Saved to %s", outputPath))
	}
	return nil
}

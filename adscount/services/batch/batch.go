package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"adscount/adscount/services/extractor"
	"adscount/adscount/utils/types"
)

// Page is one disposable browsing context used for a single attempt.
type Page interface {
	extractor.Page
	Close() error
}

// Runner drives the extractor once per row under the bounded-retry policy.
// Rows are processed strictly in order, one page open at a time.
type Runner struct {
	// NewPage opens a fresh page in the shared browser session.
	NewPage func() (Page, error)

	Opts        extractor.Options
	MaxAttempts int
	RetryDelay  time.Duration // between attempts of one row
	RowDelay    time.Duration // polite pause between rows

	// Sleep is swappable so tests do not pass real time; nil means time.Sleep.
	Sleep  func(time.Duration)
	Logger *zap.Logger
}

// Run produces exactly one outcome per input row, in input order. A failed
// row never aborts the batch; Run only returns an error when ctx is canceled,
// and then the report holds the rows finished so far.
func (r *Runner) Run(ctx context.Context, rows []types.Row, progress types.ProgressFunc) (types.BatchReport, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	total := len(rows)
	report := make(types.BatchReport, 0, total)
	if progress != nil {
		progress(0, total, fmt.Sprintf("Found %d rows", total))
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome := r.processRow(ctx, row)
		report = append(report, outcome)
		logger.Info("row finished",
			zap.Int("row", row.Index),
			zap.String("url", row.URL),
			zap.String("result", outcome.Cell()),
		)
		if progress != nil {
			progress(i+1, total, fmt.Sprintf("Processed %d/%d: %s", i+1, total, shortURL(row.URL)))
		}
		if i < total-1 {
			r.sleep(r.RowDelay)
		}
	}
	return report, nil
}

// processRow resolves one row: immediate rejection for a bad URL, otherwise
// up to MaxAttempts extraction attempts, keeping only the last result.
func (r *Runner) processRow(ctx context.Context, row types.Row) types.ExtractionResult {
	if !strings.HasPrefix(row.URL, "http") {
		return types.Failure(types.ErrInvalidURL, "missing or non-http url")
	}

	last := types.Failure(types.ErrNavigationFailed, "batch canceled before first attempt")
	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			break
		}
		last = r.attempt(row.URL)
		if last.Success() {
			break
		}
		if attempt < r.MaxAttempts {
			r.sleep(r.RetryDelay)
		}
	}
	return last
}

// attempt runs one navigation + classification cycle on a fresh page. The
// page is closed whatever happens so attempts cannot leak state.
func (r *Runner) attempt(url string) types.ExtractionResult {
	page, err := r.NewPage()
	if err != nil {
		return types.Failure(types.ErrNavigationFailed, "open page: "+err.Error())
	}
	defer page.Close()
	return extractor.Extract(page, url, r.Opts)
}

func (r *Runner) sleep(d time.Duration) {
	if r.Sleep != nil {
		r.Sleep(d)
		return
	}
	time.Sleep(d)
}

func shortURL(url string) string {
	if len(url) > 50 {
		return url[:50] + "..."
	}
	return url
}

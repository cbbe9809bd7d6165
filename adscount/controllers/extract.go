package controllers

import (
	"fmt"
	"strings"

	"adscount/adscount/config"
	"adscount/adscount/services/extractor"
	"adscount/adscount/sources/browser"
	"adscount/adscount/utils/types"
)

// ExtractController answers one-off ad-count checks. Unlike a batch job it
// uses the strict timeout profile and never retries, so a broken URL comes
// back quickly.
type ExtractController struct {
	cfg config.Config
}

func NewExtractController(cfg config.Config) *ExtractController {
	return &ExtractController{cfg: cfg}
}

// ExtractOne classifies a single advertiser page. Row-level failures land in
// the result; the returned error is reserved for browser startup.
func (c *ExtractController) ExtractOne(url string) (types.ExtractionResult, error) {
	if !strings.HasPrefix(url, "http") {
		return types.Failure(types.ErrInvalidURL, "missing or non-http url"), nil
	}

	session, err := browser.NewSession(c.cfg.Browser)
	if err != nil {
		return types.ExtractionResult{}, fmt.Errorf("start browser session: %w", err)
	}
	defer session.Close()

	page, err := session.NewPage()
	if err != nil {
		return types.ExtractionResult{}, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	return extractor.Extract(page, url, extractor.Options{
		NavigationTimeout: c.cfg.Scrape.NavTimeout,
		ElementTimeout:    c.cfg.Scrape.ElementTimeout,
	}), nil
}

package controllers

import (
	"testing"

	"adscount/adscount/config"
	"adscount/adscount/utils/types"
)

func TestExtractOneRejectsBadURL(t *testing.T) {
	c := NewExtractController(config.Default())

	for _, url := range []string{"", "ftp://example.com", "advertiser/AR1"} {
		result, err := c.ExtractOne(url)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", url, err)
		}
		if result.ErrKind != types.ErrInvalidURL {
			t.Errorf("%q: expected invalid-url result, got %+v", url, result)
		}
		if result.Cell() != "Invalid URL" {
			t.Errorf("%q: expected cell %q, got %q", url, "Invalid URL", result.Cell())
		}
	}
}

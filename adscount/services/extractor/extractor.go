package extractor

import (
	"strings"
	"time"

	"adscount/adscount/utils/types"
)

const (
	// CountSelector matches the ads-count element on a Transparency Center
	// advertiser page.
	CountSelector = ".ads-count-searchable"

	// ZeroCountText is the exact element text for an advertiser with no ads.
	ZeroCountText = "0 ads"

	// NoAdsMarker is the body text shown when the count element is absent
	// but the advertiser genuinely has no ads.
	NoAdsMarker = "No ads found"

	// TitleMarker identifies a loaded Transparency Center page shell.
	TitleMarker = "Google Ads"
)

// Probe is the read-only view of a rendered page the classifier needs. Both
// live playwright pages and static HTML snapshots satisfy it.
type Probe interface {
	// CountText waits up to timeout for the ads-count element to become
	// visible and returns its inner text. An error means the element never
	// showed up.
	CountText(timeout time.Duration) (string, error)
	// HasText reports whether the page's visible text contains s.
	HasText(s string) (bool, error)
	Title() (string, error)
}

// Page is a navigable Probe.
type Page interface {
	Navigate(url string, timeout time.Duration) error
	Probe
}

// Options bounds the waits of one extraction attempt.
type Options struct {
	NavigationTimeout time.Duration
	ElementTimeout    time.Duration
}

// DefaultOptions is the strict single-shot profile. The batch runner passes
// larger timeouts because retried attempts are the tolerant path.
func DefaultOptions() Options {
	return Options{
		NavigationTimeout: 60 * time.Second,
		ElementTimeout:    30 * time.Second,
	}
}

// Rule is one step of the detection order. Apply returns the result and
// whether the rule fired.
type Rule struct {
	Name  string
	Apply func(p Probe) (types.ExtractionResult, bool)
}

// Rules returns the detection order. First match wins; the last rule always
// fires.
func Rules(elementTimeout time.Duration) []Rule {
	return []Rule{
		{
			Name: "count-element",
			Apply: func(p Probe) (types.ExtractionResult, bool) {
				text, err := p.CountText(elementTimeout)
				if err != nil {
					return types.ExtractionResult{}, false
				}
				text = strings.TrimSpace(text)
				if text == ZeroCountText {
					return types.NoAds(), true
				}
				return types.Count(text), true
			},
		},
		{
			Name: "no-ads-text",
			Apply: func(p Probe) (types.ExtractionResult, bool) {
				ok, err := p.HasText(NoAdsMarker)
				if err != nil || !ok {
					return types.ExtractionResult{}, false
				}
				return types.NoAds(), true
			},
		},
		{
			// A matching title only proves the page shell rendered. It is
			// deliberately not treated as evidence of zero ads.
			Name: "title-marker",
			Apply: func(p Probe) (types.ExtractionResult, bool) {
				title, err := p.Title()
				if err != nil || !strings.Contains(title, TitleMarker) {
					return types.ExtractionResult{}, false
				}
				return types.Failure(types.ErrElementNotFound, "page loaded but target element missing"), true
			},
		},
		{
			Name: "unloaded",
			Apply: func(p Probe) (types.ExtractionResult, bool) {
				return types.Failure(types.ErrElementTimeout, "page did not render the ads count"), true
			},
		},
	}
}

// Classify runs the detection order against one rendered page. Given the same
// page state it always returns the same result.
func Classify(p Probe, elementTimeout time.Duration) types.ExtractionResult {
	for _, r := range Rules(elementTimeout) {
		if res, ok := r.Apply(p); ok {
			return res
		}
	}
	// unreachable: the last rule always fires
	return types.Failure(types.ErrElementTimeout, "no classification rule fired")
}

// Extract navigates p to url and classifies the rendered page. It never
// retries; retrying is the batch runner's job.
func Extract(p Page, url string, opts Options) types.ExtractionResult {
	if err := p.Navigate(url, opts.NavigationTimeout); err != nil {
		return types.Failure(types.ErrNavigationFailed, "load "+url+": "+err.Error())
	}
	return Classify(p, opts.ElementTimeout)
}

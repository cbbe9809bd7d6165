package extractor

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"adscount/adscount/utils/types"
)

func mustSnapshot(t *testing.T, content string) *Snapshot {
	t.Helper()
	s, err := ParseSnapshot(content)
	if err != nil {
		t.Fatalf("parse snapshot: %v", err)
	}
	return s
}

func page(title, body string) string {
	return fmt.Sprintf(`<html><head><title>%s</title></head><body>%s</body></html>`, title, body)
}

func TestClassifyCountElement(t *testing.T) {
	s := mustSnapshot(t, page("Ad safety", `<div class="ads-count-searchable">  Approximately 1,200 ads  </div>`))
	got := Classify(s, time.Second)
	if got.Kind != types.KindCount {
		t.Fatalf("expected count result, got %+v", got)
	}
	if got.Text != "Approximately 1,200 ads" {
		t.Errorf("expected trimmed element text, got %q", got.Text)
	}
}

func TestClassifyZeroCountIsNoAds(t *testing.T) {
	s := mustSnapshot(t, page("Ad safety", `<div class="ads-count-searchable">0 ads</div>`))
	got := Classify(s, time.Second)
	if got.Kind != types.KindNoAds {
		t.Fatalf("expected no-ads result, got %+v", got)
	}
}

func TestClassifyNoAdsMarker(t *testing.T) {
	s := mustSnapshot(t, page("something else", `<p>No ads found for this advertiser.</p>`))
	got := Classify(s, time.Second)
	if got.Kind != types.KindNoAds {
		t.Fatalf("expected no-ads result, got %+v", got)
	}
}

func TestClassifyMarkerInsideScriptIgnored(t *testing.T) {
	body := `<script>var msg = "No ads found";</script>`
	s := mustSnapshot(t, page("Google Ads Transparency Center", body))
	got := Classify(s, time.Second)
	if got.Kind != types.KindError || got.ErrKind != types.ErrElementNotFound {
		t.Fatalf("expected element-not-found error, got %+v", got)
	}
}

func TestClassifyTitleOnly(t *testing.T) {
	s := mustSnapshot(t, page("Google Ads Transparency Center", `<div>loading...</div>`))
	got := Classify(s, time.Second)
	if got.Kind != types.KindError {
		t.Fatalf("expected an error result, got %+v", got)
	}
	if got.ErrKind != types.ErrElementNotFound {
		t.Errorf("expected %s, got %s", types.ErrElementNotFound, got.ErrKind)
	}
}

func TestClassifyUnloadedPage(t *testing.T) {
	s := mustSnapshot(t, page("", ""))
	got := Classify(s, time.Second)
	if got.Kind != types.KindError || got.ErrKind != types.ErrElementTimeout {
		t.Fatalf("expected element-timeout error, got %+v", got)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	s := mustSnapshot(t, page("Ad safety", `<div class="ads-count-searchable">Approximately 33 ads</div>`))
	first := Classify(s, time.Second)
	second := Classify(s, time.Second)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification changed between runs: %+v vs %+v", first, second)
	}
}

func TestRulesOrder(t *testing.T) {
	names := []string{"count-element", "no-ads-text", "title-marker", "unloaded"}
	rules := Rules(time.Second)
	if len(rules) != len(names) {
		t.Fatalf("expected %d rules, got %d", len(names), len(rules))
	}
	for i, want := range names {
		if rules[i].Name != want {
			t.Errorf("rule %d: expected %q, got %q", i, want, rules[i].Name)
		}
	}
}

// stubPage makes a Snapshot navigable so Extract can be exercised.
type stubPage struct {
	*Snapshot
	navErr error
	visits []string
}

func (p *stubPage) Navigate(url string, timeout time.Duration) error {
	p.visits = append(p.visits, url)
	return p.navErr
}

func TestExtractNavigationFailure(t *testing.T) {
	p := &stubPage{
		Snapshot: mustSnapshot(t, page("", "")),
		navErr:   errors.New("net::ERR_NAME_NOT_RESOLVED"),
	}
	got := Extract(p, "https://adstransparency.google.com/advertiser/AR123", DefaultOptions())
	if got.Kind != types.KindError || got.ErrKind != types.ErrNavigationFailed {
		t.Fatalf("expected navigation-failed error, got %+v", got)
	}
	if len(p.visits) != 1 {
		t.Errorf("expected exactly one navigation, got %d", len(p.visits))
	}
}

func TestExtractClassifiesAfterNavigation(t *testing.T) {
	p := &stubPage{
		Snapshot: mustSnapshot(t, page("Ad safety", `<div class="ads-count-searchable">Approximately 1,200 ads</div>`)),
	}
	got := Extract(p, "https://adstransparency.google.com/advertiser/AR123", DefaultOptions())
	if got.Kind != types.KindCount || got.Text != "Approximately 1,200 ads" {
		t.Fatalf("expected count result, got %+v", got)
	}
}

func TestSnapshotCountTextMissingElement(t *testing.T) {
	s := mustSnapshot(t, page("Ad safety", `<div class="something-else">text</div>`))
	if _, err := s.CountText(time.Second); !errors.Is(err, ErrNoCountElement) {
		t.Errorf("expected ErrNoCountElement, got %v", err)
	}
}

func TestSnapshotTitle(t *testing.T) {
	s := mustSnapshot(t, page("  Google Ads Transparency Center ", ""))
	title, err := s.Title()
	if err != nil {
		t.Fatalf("title: %v", err)
	}
	if title != "Google Ads Transparency Center" {
		t.Errorf("expected trimmed title, got %q", title)
	}
}

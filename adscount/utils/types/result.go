// adscount/types/result.go
package types

// ErrorKind classifies why an extraction attempt failed.
type ErrorKind string

const (
	ErrInvalidURL       ErrorKind = "invalid_url"
	ErrNavigationFailed ErrorKind = "navigation_failed"
	ErrElementNotFound  ErrorKind = "element_not_found"
	ErrElementTimeout   ErrorKind = "element_timeout"
)

// ResultKind is the tag of an ExtractionResult.
type ResultKind int

const (
	KindCount ResultKind = iota
	KindNoAds
	KindError
)

// ExtractionResult is the outcome of one extraction attempt: the raw text of
// the ads-count element, the no-ads sentinel, or a classified error.
type ExtractionResult struct {
	Kind    ResultKind `json:"kind"`
	Text    string     `json:"text,omitempty"`   // count text, only for KindCount
	ErrKind ErrorKind  `json:"error,omitempty"`  // only for KindError
	Detail  string     `json:"detail,omitempty"` // diagnostic, only for KindError
}

func Count(text string) ExtractionResult {
	return ExtractionResult{Kind: KindCount, Text: text}
}

func NoAds() ExtractionResult {
	return ExtractionResult{Kind: KindNoAds}
}

func Failure(kind ErrorKind, detail string) ExtractionResult {
	return ExtractionResult{Kind: KindError, ErrKind: kind, Detail: detail}
}

// Success reports whether the attempt produced a usable value. A successful
// attempt ends the retry loop for its row.
func (r ExtractionResult) Success() bool {
	return r.Kind != KindError
}

// Cell renders the result as an output table cell.
func (r ExtractionResult) Cell() string {
	switch r.Kind {
	case KindCount:
		return r.Text
	case KindNoAds:
		return "no ads"
	}
	if r.ErrKind == ErrInvalidURL {
		return "Invalid URL"
	}
	return "Error: " + r.Detail
}

// Row is one unit of work: the URL found at a stable 0-based input position.
type Row struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
}

// BatchReport holds one retry-resolved result per input row, index-aligned
// with the rows it was built from.
type BatchReport []ExtractionResult

// Cells renders the report as an output column.
func (b BatchReport) Cells() []string {
	cells := make([]string, len(b))
	for i, r := range b {
		cells[i] = r.Cell()
	}
	return cells
}

// ProgressFunc receives one synchronous notification per processed row, plus
// one with current == 0 before the first row. It must return quickly.
type ProgressFunc func(current, total int, message string)

// ProgressEvent is the wire shape of one progress notification.
type ProgressEvent struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

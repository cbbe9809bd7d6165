package extractor

import (
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNoCountElement is returned by Snapshot.CountText when the document has
// no ads-count element.
var ErrNoCountElement = errors.New("ads count element not present")

// Snapshot is a Probe over a static HTML document. It backs the live page's
// text-marker fallback (the content is pulled once and inspected offline) and
// lets the rule table run against fixtures.
type Snapshot struct {
	doc  *goquery.Document
	root *html.Node
}

func ParseSnapshot(content string) (*Snapshot, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	return &Snapshot{doc: goquery.NewDocumentFromNode(root), root: root}, nil
}

// CountText returns the trimmed text of the ads-count element. The timeout
// is meaningless for a static document and is ignored.
func (s *Snapshot) CountText(time.Duration) (string, error) {
	sel := s.doc.Find(CountSelector)
	if sel.Length() == 0 {
		return "", ErrNoCountElement
	}
	return strings.TrimSpace(sel.First().Text()), nil
}

func (s *Snapshot) HasText(text string) (bool, error) {
	return containsVisibleText(s.root, text), nil
}

func (s *Snapshot) Title() (string, error) {
	return strings.TrimSpace(s.doc.Find("title").First().Text()), nil
}

// containsVisibleText walks text nodes, skipping script/style/noscript so
// markers inside embedded code do not count as page text.
func containsVisibleText(n *html.Node, text string) bool {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
		return false
	}
	if n.Type == html.TextNode && strings.Contains(n.Data, text) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if containsVisibleText(c, text) {
			return true
		}
	}
	return false
}

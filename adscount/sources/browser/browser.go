package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"adscount/adscount/config"
	"adscount/adscount/services/extractor"
)

// Session owns the playwright driver, browser, and context shared by every
// row of a batch. Acquire once, reuse across rows, Close at the end.
type Session struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	ctx      playwright.BrowserContext
	selector string
}

func NewSession(cfg config.BrowserConfig) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright driver: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--disable-gpu",
			"--no-sandbox",
			"--disable-dev-shm-usage",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	ctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(cfg.UserAgent),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	return &Session{pw: pw, browser: browser, ctx: ctx, selector: cfg.CountSelector}, nil
}

// NewPage opens a fresh page; one per extraction attempt so state from a
// failed attempt cannot leak into the next.
func (s *Session) NewPage() (*Page, error) {
	page, err := s.ctx.NewPage()
	if err != nil {
		return nil, err
	}
	return &Page{page: page, selector: s.selector}, nil
}

func (s *Session) Close() {
	if s.ctx != nil {
		s.ctx.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
	if s.pw != nil {
		s.pw.Stop()
	}
}

// Page adapts one playwright page to the extractor's Page interface.
type Page struct {
	page     playwright.Page
	selector string
}

// Navigate waits only for domcontentloaded; the ads count renders from
// scripts after that and is waited for separately.
func (p *Page) Navigate(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (p *Page) CountText(timeout time.Duration) (string, error) {
	locator := p.page.Locator(p.selector)
	if err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		return "", err
	}
	return locator.InnerText()
}

// HasText pulls the document content once and inspects it offline, so a page
// that stopped responding cannot stall the fallback checks.
func (p *Page) HasText(text string) (bool, error) {
	content, err := p.page.Content()
	if err != nil {
		return false, err
	}
	snap, err := extractor.ParseSnapshot(content)
	if err != nil {
		return false, err
	}
	return snap.HasText(text)
}

func (p *Page) Title() (string, error) {
	return p.page.Title()
}

func (p *Page) Close() error {
	return p.page.Close()
}

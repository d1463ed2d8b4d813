// Package browser owns the single headless Chrome session the crawl runs
// through: navigation with bounded retry, rendered-HTML capture, and
// synthetic interaction randomization.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Chrome user agents rotated per session.
var userAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
}

// Options configures a browser session.
type Options struct {
	Headless          bool
	UserAgent         string // empty selects a random one
	Locale            string
	NavigationTimeout time.Duration
	Retry             RetryPolicy
	Humanize          HumanizeProfile
	DelayMin          time.Duration
	DelayMax          time.Duration
	Seed              int64 // 0 seeds from the clock
	Logger            *slog.Logger
}

// Session is one Chrome browser context. All navigation goes through it,
// strictly sequentially.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        Options
	rng         *rand.Rand
	logger      *slog.Logger
	sleep       func(context.Context, time.Duration)

	viewportW int
	viewportH int
	mouseX    float64
	mouseY    float64
}

// NewSession launches the browser and applies the session-level disguise:
// randomized user agent and viewport, ru-RU accept-language.
func NewSession(parent context.Context, opts Options) (*Session, error) {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 45 * time.Second
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.Locale == "" {
		opts.Locale = "ru-RU"
	}
	if opts.DelayMin <= 0 {
		opts.DelayMin = 300 * time.Millisecond
	}
	if opts.DelayMax < opts.DelayMin {
		opts.DelayMax = opts.DelayMin
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ua := opts.UserAgent
	if ua == "" {
		ua = userAgents[rng.Intn(len(userAgents))]
	}

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(ua),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, execOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		opts:        opts,
		rng:         rng,
		logger:      logger,
		sleep:       sleepWithContext,
		viewportW:   1280 + rng.Intn(321),
		viewportH:   800 + rng.Intn(201),
	}

	headers := network.Headers{"Accept-Language": opts.Locale + ",ru;q=0.9,en;q=0.5"}
	if err := chromedp.Run(ctx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.EmulateViewport(int64(s.viewportW), int64(s.viewportH)),
	); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	logger.Debug("browser session started",
		"user_agent", ua,
		"viewport_w", s.viewportW,
		"viewport_h", s.viewportH,
	)
	return s, nil
}

// Navigate loads url, retrying driver-level failures per the session's
// retry policy. A non-200 response triggers a single same-URL reload
// instead of the backoff loop.
func (s *Session) Navigate(ctx context.Context, url string) error {
	attempt := 0
	err := s.opts.Retry.Do(ctx, func() error {
		attempt++
		if err := s.navigateOnce(url); err != nil {
			s.logger.Warn("navigation attempt failed", "url", url, "attempt", attempt, "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return &NavigationError{URL: url, Attempts: attempt, Err: err}
	}
	return nil
}

func (s *Session) navigateOnce(url string) error {
	runCtx, cancel := context.WithTimeout(s.ctx, s.opts.NavigationTimeout)
	defer cancel()

	var status int64
	if err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`window.performance?.getEntriesByType?.('navigation')?.[0]?.responseStatus || 200`, &status),
	); err != nil {
		return err
	}

	if status != 0 && status != 200 {
		s.logger.Debug("non-200 response, reloading once", "url", url, "status", status)
		if err := chromedp.Run(runCtx, chromedp.Reload(), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
			s.logger.Debug("reload after non-200 failed", "url", url, "error", err)
		}
	}
	return nil
}

// HTML returns the rendered outer HTML of the current page.
func (s *Session) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	runCtx, cancel := context.WithTimeout(s.ctx, s.opts.NavigationTimeout)
	defer cancel()

	var out string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &out, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capture html: %w", err)
	}
	return out, nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

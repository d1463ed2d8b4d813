// Package crawler drives the two sequential crawls of the portal: the
// nested codes taxonomy and the flat, paginated laws index. One browser
// session, one page at a time, randomized pacing between every step.
package crawler

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mrkutin/legalacts-parser/internal/config"
)

// Paths of the two crawl entry points, relative to the portal base URL.
const (
	codesHomePath = "/kodeksy/"
	lawsIndexPath = "/docs/5/"
)

// Browser is the navigation surface the run loops drive. The chromedp
// session implements it; tests substitute a scripted fake.
type Browser interface {
	// Navigate loads the page, retrying transport failures internally.
	Navigate(ctx context.Context, url string) error
	// HTML captures the rendered outer HTML of the current page.
	HTML(ctx context.Context) (string, error)
	// Humanize performs best-effort interaction noise; it never fails.
	Humanize(ctx context.Context)
}

// Engine owns the crawl state for one run. It is not safe for concurrent
// use: that is the point, the whole crawl is a single logical flow.
type Engine struct {
	cfg     config.Config
	browser Browser
	logger  *slog.Logger
	rng     *rand.Rand
	sleep   func(context.Context, time.Duration)
}

// New builds an engine over an already-launched browser.
func New(cfg config.Config, b Browser, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:     cfg,
		browser: b,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:   sleepWithContext,
	}
}

// humanDelay pauses a uniformly random duration between the configured
// bounds. Inserted between every index entry and page transition.
func (e *Engine) humanDelay(ctx context.Context) {
	min := e.cfg.Delays.Min.Duration
	max := e.cfg.Delays.Max.Duration
	if min < 0 {
		min = 0
	}
	d := min
	if max > min {
		d = min + time.Duration(e.rng.Int63n(int64(max-min)))
	}
	if d > 0 {
		e.sleep(ctx, d)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// capturePage navigates, stirs the page, and returns its rendered HTML.
func (e *Engine) capturePage(ctx context.Context, url string) (string, error) {
	if err := e.browser.Navigate(ctx, url); err != nil {
		return "", err
	}
	e.browser.Humanize(ctx)
	return e.browser.HTML(ctx)
}

package browser

import (
	"context"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
)

// HumanizeProfile bounds the synthetic interaction performed per page
// visit. The codes and laws crawls use slightly different intensities.
type HumanizeProfile struct {
	MinMoves       int
	MaxMoves       int
	MinMoveSteps   int
	MaxMoveSteps   int
	MinScrolls     int
	MaxScrolls     int
	MinScrollDelta int
	MaxScrollDelta int
}

// CodesProfile is the interaction profile of the codes crawl.
func CodesProfile() HumanizeProfile {
	return HumanizeProfile{
		MinMoves: 2, MaxMoves: 4,
		MinMoveSteps: 10, MaxMoveSteps: 30,
		MinScrolls: 2, MaxScrolls: 4,
		MinScrollDelta: 200, MaxScrollDelta: 600,
	}
}

// LawsProfile is the lighter profile of the flat-index crawl.
func LawsProfile() HumanizeProfile {
	return HumanizeProfile{
		MinMoves: 1, MaxMoves: 3,
		MinMoveSteps: 8, MaxMoveSteps: 20,
		MinScrolls: 1, MaxScrolls: 3,
		MinScrollDelta: 150, MaxScrollDelta: 500,
	}
}

// interaction is one planned synthetic input event.
type interaction struct {
	kind  string // "move" or "scroll"
	x, y  int
	steps int
	delta int
}

// planInteractions draws the interaction sequence for one page visit from
// the profile. All randomness comes from rng.
func planInteractions(rng *rand.Rand, p HumanizeProfile, width, height int) []interaction {
	var plan []interaction
	for i, n := 0, randBetween(rng, p.MinMoves, p.MaxMoves); i < n; i++ {
		plan = append(plan, interaction{
			kind:  "move",
			x:     randBetween(rng, 50, width-50),
			y:     randBetween(rng, 100, height-100),
			steps: randBetween(rng, p.MinMoveSteps, p.MaxMoveSteps),
		})
	}
	for i, n := 0, randBetween(rng, p.MinScrolls, p.MaxScrolls); i < n; i++ {
		plan = append(plan, interaction{
			kind:  "scroll",
			delta: randBetween(rng, p.MinScrollDelta, p.MaxScrollDelta),
		})
	}
	return plan
}

// Humanize randomizes the viewport and performs pointer moves and wheel
// scrolls with jittered pacing. Best-effort: every failure is swallowed,
// extracted data never depends on it.
func (s *Session) Humanize(ctx context.Context) {
	width := 1200 + s.rng.Intn(401)
	height := 800 + s.rng.Intn(201)
	if err := chromedp.Run(s.ctx, chromedp.EmulateViewport(int64(width), int64(height))); err == nil {
		s.viewportW, s.viewportH = width, height
	}

	for _, step := range planInteractions(s.rng, s.opts.Humanize, s.viewportW, s.viewportH) {
		switch step.kind {
		case "move":
			_ = chromedp.Run(s.ctx, s.mouseMove(float64(step.x), float64(step.y), step.steps))
		case "scroll":
			_ = chromedp.Run(s.ctx,
				input.DispatchMouseEvent(input.MouseWheel, s.mouseX, s.mouseY).
					WithDeltaX(0).
					WithDeltaY(float64(step.delta)),
			)
		}
		s.HumanDelay(ctx)
	}
}

// mouseMove dispatches intermediate pointer events from the last known
// position toward the target, like a dragged cursor.
func (s *Session) mouseMove(x, y float64, steps int) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		fromX, fromY := s.mouseX, s.mouseY
		if steps < 1 {
			steps = 1
		}
		for i := 1; i <= steps; i++ {
			t := float64(i) / float64(steps)
			px := fromX + (x-fromX)*t
			py := fromY + (y-fromY)*t
			if err := input.DispatchMouseEvent(input.MouseMoved, px, py).Do(ctx); err != nil {
				return err
			}
		}
		s.mouseX, s.mouseY = x, y
		return nil
	})
}

// HumanDelay sleeps a uniformly random duration between the configured
// delay bounds, honoring cancellation.
func (s *Session) HumanDelay(ctx context.Context) {
	min, max := s.opts.DelayMin, s.opts.DelayMax
	d := min
	if max > min {
		d = min + time.Duration(s.rng.Int63n(int64(max-min)))
	}
	s.sleep(ctx, d)
}

func randBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

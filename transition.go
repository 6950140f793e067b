package tetracam

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TransitionStyle selects how a camera blends from one configuration to another over time.
type TransitionStyle int

const (
	// TransitionStyleLinear blends at a constant rate.
	TransitionStyleLinear TransitionStyle = iota
	// TransitionStyleSmooth blends along a smoothstep curve (3p² - 2p³), starting and ending at rest.
	TransitionStyleSmooth
)

func (ts TransitionStyle) String() string {
	switch ts {
	case TransitionStyleLinear:
		return "linear"
	case TransitionStyleSmooth:
		return "smooth"
	}
	return fmt.Sprintf("TransitionStyle(%d)", int(ts))
}

// ParseTransitionStyle returns the TransitionStyle with the given name ("linear" or "smooth").
func ParseTransitionStyle(name string) (TransitionStyle, error) {
	switch strings.ToLower(name) {
	case "linear":
		return TransitionStyleLinear, nil
	case "smooth":
		return TransitionStyleSmooth, nil
	}
	return 0, fmt.Errorf("unknown transition style %q", name)
}

// Easing returns the easing function of the style, in gween's signature.
func (ts TransitionStyle) Easing() ease.TweenFunc {
	switch ts {
	case TransitionStyleLinear:
		return ease.Linear
	case TransitionStyleSmooth:
		return smoothstep
	}
	panic("Error: unknown transition style " + ts.String())
}

// smoothstep eases t over d from b to b+c.
func smoothstep(t, b, c, d float32) float32 {
	p := t / d
	return b + c*p*p*(3-2*p)
}

// transitionProgress tracks how far along a blend a camera is, from 0 to 1.
type transitionProgress struct {
	tween    *gween.Tween
	duration time.Duration
	elapsed  time.Duration
}

func newTransitionProgress(duration time.Duration, style TransitionStyle) *transitionProgress {
	return &transitionProgress{
		tween:    gween.New(0, 1, float32(duration.Seconds()), style.Easing()),
		duration: duration,
	}
}

// advance moves the progress forward by dt and returns whether the blend is over.
func (tp *transitionProgress) advance(dt time.Duration) bool {
	tp.elapsed += dt
	return tp.finished()
}

func (tp *transitionProgress) finished() bool {
	return tp.elapsed >= tp.duration
}

// value returns the eased progress.
func (tp *transitionProgress) value() float32 {
	if tp.finished() {
		return 1
	}
	v, _ := tp.tween.Set(float32(tp.elapsed.Seconds()))
	return v
}

// Package easing provides the time-remapping curves used to shape cinematic
// camera movements. Every curve maps normalized time t in [0,1] to an eased
// value with f(0)=0 and f(1)=1. Bounce and elastic may leave [0,1] briefly.
package easing

import (
	"errors"
	"fmt"
	"math"
)

// Type names an easing curve.
type Type string

// Supported easing curves.
const (
	Linear    Type = "linear"
	EaseIn    Type = "ease_in"
	EaseOut   Type = "ease_out"
	EaseInOut Type = "ease_in_out"
	Bounce    Type = "bounce"
	Elastic   Type = "elastic"
)

// Default is used when a movement does not name a curve.
const Default = EaseInOut

// ErrUnknown is returned for an unrecognised easing name.
var ErrUnknown = errors.New("easing: unknown easing type")

// Func maps normalized time to eased time.
type Func func(t float64) float64

var funcs = map[Type]Func{
	Linear:    linear,
	EaseIn:    easeIn,
	EaseOut:   easeOut,
	EaseInOut: easeInOut,
	Bounce:    bounce,
	Elastic:   elastic,
}

// Types returns all supported curves in a stable order.
func Types() []Type {
	return []Type{Linear, EaseIn, EaseOut, EaseInOut, Bounce, Elastic}
}

// Lookup returns the curve for t.
func Lookup(t Type) (Func, error) {
	f, ok := funcs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, string(t))
	}
	return f, nil
}

// Parse converts a name into a Type. The empty string yields Default.
func Parse(name string) (Type, error) {
	if name == "" {
		return Default, nil
	}
	t := Type(name)
	if _, ok := funcs[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return t, nil
}

// Ease applies curve t to x clamped to [0,1]. Unknown curves fall back to
// Default.
func Ease(t Type, x float64) float64 {
	f, ok := funcs[t]
	if !ok {
		f = funcs[Default]
	}
	return f(min(max(x, 0), 1))
}

func linear(t float64) float64 {
	return t
}

func easeIn(t float64) float64 {
	return t * t
}

func easeOut(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// bounce is the classic out-bounce: four parabolic segments of decreasing height.
func bounce(t float64) float64 {
	const (
		n = 7.5625
		d = 2.75
	)
	switch {
	case t < 1/d:
		return n * t * t
	case t < 2/d:
		t -= 1.5 / d
		return n*t*t + 0.75
	case t < 2.5/d:
		t -= 2.25 / d
		return n*t*t + 0.9375
	default:
		t -= 2.625 / d
		return n*t*t + 0.984375
	}
}

func elastic(t float64) float64 {
	if t == 0 || t == 1 {
		return t
	}
	return -math.Pow(2, -10*t)*math.Sin((t-0.1)*(2*math.Pi)/0.4) + 1
}

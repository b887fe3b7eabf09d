// Package wizard holds the step navigation state machine. It knows nothing
// about rendering; the wizard screen turns keys into actions and applies
// them here.
package wizard

import "slices"

// Action is a navigation intent decided from a key.
type Action int

const (
	ActionNone Action = iota
	ActionPassThrough
	ActionNext
	ActionPrevious
	ActionDone
)

// Outcome reports what applying an action did.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePassThrough
	OutcomeAdvanced
	OutcomeRetreated
	OutcomeSubmitted
	OutcomeJumped
)

// Step is what the engine needs to know about a step.
type Step struct {
	SuppressEnterAdvance bool
	Multiline            bool
}

var newlineKeys = []string{"shift+enter", "alt+enter", "ctrl+j"}

// Engine tracks the current step in [1, N].
type Engine struct {
	steps      []Step
	current    int
	reviewMode bool
	onSubmit   func()
}

// New returns an engine at step 1. onSubmit runs when Next is called on the
// last step and may be nil.
func New(steps []Step, onSubmit func()) *Engine {
	if len(steps) == 0 {
		steps = []Step{{}}
	}
	return &Engine{steps: steps, current: 1, onSubmit: onSubmit}
}

// Current returns the 1-based current step.
func (e *Engine) Current() int { return e.current }

// Len returns the number of steps.
func (e *Engine) Len() int { return len(e.steps) }

// ReviewMode reports whether the last step has been reached at least once.
func (e *Engine) ReviewMode() bool { return e.reviewMode }

// AtLast reports whether the current step is the last one.
func (e *Engine) AtLast() bool { return e.current == len(e.steps) }

// Next advances one step, or submits on the last step.
func (e *Engine) Next() Outcome {
	if e.AtLast() {
		if e.onSubmit != nil {
			e.onSubmit()
		}
		return OutcomeSubmitted
	}
	e.current++
	e.markReview()
	return OutcomeAdvanced
}

// Previous goes back one step. It does nothing on step 1.
func (e *Engine) Previous() Outcome {
	if e.current <= 1 {
		return OutcomeNone
	}
	e.current--
	return OutcomeRetreated
}

// JumpTo moves to step, clamped into range.
func (e *Engine) JumpTo(step int) Outcome {
	step = min(max(step, 1), len(e.steps))
	if step == e.current {
		return OutcomeNone
	}
	e.current = step
	e.markReview()
	return OutcomeJumped
}

// Done jumps to the last step once review mode is on.
func (e *Engine) Done() Outcome {
	if !e.reviewMode || e.AtLast() {
		return OutcomeNone
	}
	e.current = len(e.steps)
	return OutcomeJumped
}

func (e *Engine) markReview() {
	if e.AtLast() {
		e.reviewMode = true
	}
}

// Decide maps a key to an action for the current step without changing
// any state.
func (e *Engine) Decide(key string) Action {
	step := e.steps[e.current-1]
	switch {
	case key == "enter":
		if step.SuppressEnterAdvance {
			return ActionPassThrough
		}
		return ActionNext
	case slices.Contains(newlineKeys, key):
		if step.Multiline {
			return ActionPassThrough
		}
		return ActionNone
	case key == "esc" || key == "ctrl+p":
		if e.current > 1 {
			return ActionPrevious
		}
		return ActionNone
	case key == "ctrl+n":
		return ActionNext
	case key == "ctrl+d":
		if e.reviewMode && !e.AtLast() {
			return ActionDone
		}
		return ActionNone
	}
	return ActionPassThrough
}

// Apply performs an action.
func (e *Engine) Apply(a Action) Outcome {
	switch a {
	case ActionNext:
		return e.Next()
	case ActionPrevious:
		return e.Previous()
	case ActionDone:
		return e.Done()
	case ActionPassThrough:
		return OutcomePassThrough
	}
	return OutcomeNone
}

// HandleKey decides and applies in one go.
func (e *Engine) HandleKey(key string) Outcome {
	return e.Apply(e.Decide(key))
}

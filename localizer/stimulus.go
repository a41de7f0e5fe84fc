package localizer

import "slices"

// A Stimulus decides when a router raises a suspicion on its own. It is
// consulted once per router in every gather phase. Suspected tells if the
// predictor flags the ejection port of the router.
type Stimulus interface {
	Trigger(cycle uint64, router int, suspected bool) bool
}

// StimulusFunc adapts a function to a Stimulus.
type StimulusFunc func(cycle uint64, router int, suspected bool) bool

// Trigger calls f.
func (f StimulusFunc) Trigger(cycle uint64, router int, suspected bool) bool {
	return f(cycle, router, suspected)
}

// WindowStimulus arms a set of routers from StartCycle on. At StartCycle the
// routers trigger unconditionally. Afterwards they trigger only when the
// predictor agrees.
type WindowStimulus struct {
	StartCycle uint64
	Nodes      []int
}

// Trigger implements Stimulus.
func (s WindowStimulus) Trigger(cycle uint64, router int, suspected bool) bool {
	if cycle < s.StartCycle || !slices.Contains(s.Nodes, router) {
		return false
	}

	if cycle > s.StartCycle {
		return suspected
	}

	return true
}

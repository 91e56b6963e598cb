package analyzer

import (
	"math"
	"sort"

	"github.com/Uriopass/stars/pin"
)

// RankByDelay sorts endpoints by descending arrival time, so a top-K
// selection picks the largest. Endpoints with no arrival (unreachable)
// sort last.
func (r Result) RankByDelay(endpoints []pin.TransitionPin) []pin.TransitionPin {
	ranked := append([]pin.TransitionPin(nil), endpoints...)
	delay := func(tp pin.TransitionPin) float64 {
		if a, ok := r.Arrival[tp]; ok {
			return a
		}
		return math.Inf(-1)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return delay(ranked[i]) > delay(ranked[j])
	})
	return ranked
}

// RankBySlack sorts endpoints by ascending slack relative to cycleTarget,
// so the most critical (least positive, or most negative) endpoint comes
// first. Endpoints missing from Arrival or Required (no complete
// launch-to-capture path) sort last.
func (r Result) RankBySlack(endpoints []pin.TransitionPin, cycleTarget float64) []pin.TransitionPin {
	ranked := append([]pin.TransitionPin(nil), endpoints...)
	slack := func(tp pin.TransitionPin) float64 {
		if s, ok := r.Slack(tp, cycleTarget); ok {
			return s
		}
		return math.Inf(1)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return slack(ranked[i]) < slack(ranked[j])
	})
	return ranked
}

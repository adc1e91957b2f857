package rules

import (
	"github.com/mkraus/polyquest/engine/world"
)

// ActionResult is the outcome of a dispatched action rule.
type ActionResult struct {
	Message  string // success message of the winning rule, may be empty
	Duration int    // per-action duration, 0 meaning the default
}

// Dispatch scans the actions in declaration order and applies the first
// one whose trigger, item, target fields and precondition all match. Order
// in the source data is semantically significant: this is a deterministic
// first-match rule system, not a production-rule engine. It reports false
// when no rule fired; in that case Message carries the failure text of the
// first rule whose fields matched but whose precondition did not hold, so
// the caller can say something more specific than its generic failure.
func Dispatch(w *world.World, trigger, itemID, targetID string) (ActionResult, bool) {
	failure := ""
	for _, action := range w.Actions {
		if action.Trigger != trigger {
			continue
		}
		if action.Item != "" && action.Item != itemID {
			continue
		}
		if action.TargetItem != "" && action.TargetItem != targetID {
			continue
		}
		if action.TargetNPC != "" && action.TargetNPC != targetID {
			continue
		}
		if !Check(w, action.Pre) {
			if failure == "" {
				failure = action.Failure
			}
			continue
		}
		Apply(w, action.Effect)
		return ActionResult{Message: action.Success, Duration: action.Duration}, true
	}
	return ActionResult{Message: failure}, false
}

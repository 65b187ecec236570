package action

import (
	"time"

	"github.com/flowgrid/flowgrid/store"
)

// ActionMoment pairs an Action with the wall-clock time it was applied.
type ActionMoment struct {
	Action Action
	Time   time.Time
}

// Gesture is an ordered sequence of savable ActionMoments produced in close
// temporal proximity, committed as an atomic undo unit.
type Gesture []ActionMoment

// mergeGesture coalesces consecutive ActionMoments on the same logical
// target, per the rules in spec.md §4.1 "Gesture merging". It processes the
// gesture strictly in order: each incoming moment is compared only against
// the most recently kept moment, never against earlier ones, matching the
// "consecutive" wording in the spec.
func mergeGesture(g Gesture) Gesture {
	if len(g) == 0 {
		return nil
	}

	out := make(Gesture, 0, len(g))
	out = append(out, g[0])

	for _, next := range g[1:] {
		last := out[len(out)-1]

		merged, keep, merges := tryMerge(last, next)
		if !merges {
			out = append(out, next)
			continue
		}
		if !keep {
			// both moments cancel; drop the one we'd kept and do not
			// append the new one either.
			out = out[:len(out)-1]
			continue
		}
		out[len(out)-1] = merged
	}

	return out
}

// tryMerge attempts to coalesce b into a. merges reports whether the pair
// is even a merge candidate (same kind/target, or both SetValues); when
// merges is true, keep reports whether anything survives (false means both
// cancel) and merged is the replacement moment when keep is true.
func tryMerge(a, b ActionMoment) (merged ActionMoment, keep bool, merges bool) {
	// SetValues merge regardless of path: they merge by concatenating
	// payload lists.
	if a.Action.Kind == KindSetValues && b.Action.Kind == KindSetValues {
		combined := make([]ValueEntry, 0, len(a.Action.Values)+len(b.Action.Values))
		combined = append(combined, a.Action.Values...)
		combined = append(combined, b.Action.Values...)
		next := b.Action
		next.Values = combined
		return ActionMoment{Action: next, Time: b.Time}, true, true
	}

	// ApplyPatch merges with another ApplyPatch only when both share a
	// BasePath.
	if a.Action.Kind == KindApplyPatch && b.Action.Kind == KindApplyPatch {
		if !a.Action.Patch.HasBasePath || !b.Action.Patch.HasBasePath {
			return ActionMoment{}, false, false
		}
		if a.Action.Patch.BasePath.ID() != b.Action.Patch.BasePath.ID() {
			return ActionMoment{}, false, false
		}
		composed := store.Compose(a.Action.Patch, b.Action.Patch)
		if composed.Empty() {
			return ActionMoment{}, false, true
		}
		next := b.Action
		next.Patch = composed
		return ActionMoment{Action: next, Time: b.Time}, true, true
	}

	if a.Action.target() != b.Action.target() {
		return ActionMoment{}, false, false
	}

	switch a.Action.Kind {
	case KindToggleValue:
		// two consecutive toggles of the same path cancel out.
		return ActionMoment{}, false, true
	case KindConnect, KindDisconnect:
		// a connect immediately followed by a disconnect of the same
		// pair (or vice versa) is a link toggle; it cancels. Two of the
		// same kind in a row is redundant and collapses to the later one.
		if a.Action.Kind != b.Action.Kind {
			return ActionMoment{}, false, true
		}
		return b, true, true
	default:
		// same kind, same path: the later action supersedes the earlier.
		return b, true, true
	}
}

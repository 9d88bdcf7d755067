package model

import "strings"

// Action is the kind of interaction a user had with an opportunity.
type Action string

// Known actions.
const (
	ActionView  Action = "view"
	ActionLike  Action = "like"
	ActionApply Action = "apply"
	ActionSave  Action = "save"
	ActionShare Action = "share"
)

// UnknownActionWeight is the weight given to actions outside the known set.
const UnknownActionWeight = 0.1

var actionWeights = map[Action]float64{
	ActionApply: 0.9,
	ActionLike:  0.7,
	ActionSave:  0.6,
	ActionShare: 0.5,
	ActionView:  0.3,
}

// ParseAction normalizes s into an Action. The result may still be unknown;
// check Valid.
func ParseAction(s string) Action {
	return Action(strings.ToLower(strings.TrimSpace(s)))
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	_, ok := actionWeights[a]
	return ok
}

// Weight returns the preference weight derived from a. Unknown actions fall
// into the lowest bucket.
func (a Action) Weight() float64 {
	if w, ok := actionWeights[a]; ok {
		return w
	}
	return UnknownActionWeight
}

func (a Action) String() string { return string(a) }

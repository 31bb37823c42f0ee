package lowpan

import "fmt"

// State is the lifecycle state of a managed link.
type State int

const (
	StateAbsent State = iota
	StateCreateRequested
	StateEnabled
	StateDeleteRequested
	StateGone
)

var stateNames = [...]string{
	StateAbsent:          "absent",
	StateCreateRequested: "create-requested",
	StateEnabled:         "enabled",
	StateDeleteRequested: "delete-requested",
	StateGone:            "gone",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

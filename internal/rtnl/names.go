package rtnl

import (
	"fmt"

	"golang.org/x/sys/unix"
)

var typeNames = map[uint16]string{
	unix.RTM_NEWLINK: "RTM_NEWLINK",
	unix.RTM_DELLINK: "RTM_DELLINK",
	unix.RTM_GETLINK: "RTM_GETLINK",
	unix.RTM_NEWADDR: "RTM_NEWADDR",
	unix.RTM_DELADDR: "RTM_DELADDR",
	unix.RTM_GETADDR: "RTM_GETADDR",
}

// TypeName returns the symbolic name of an RTM_* message type.
func TypeName(t uint16) string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("RTM(%d)", t)
}

package network

import (
	"errors"
	"fmt"

	"grimm.is/wpand/internal/logging"
)

// Parent is the 802.15.4 link the 6LoWPAN interface is stacked on.
type Parent struct {
	Name      string
	Index     uint32
	EncapType string
}

// ResolveParent looks the parent up by name or, if name is empty, by index.
// A parent that is not an 802.15.4 link is returned with a warning; the
// kernel has the final word when the create request is sent.
func ResolveParent(nl Netlinker, name string, index int, log *logging.Logger) (Parent, error) {
	if log == nil {
		log = logging.WithComponent("network")
	}

	var p Parent
	switch {
	case name != "":
		link, err := nl.LinkByName(name)
		if err != nil {
			return p, fmt.Errorf("parent %s: %w", name, err)
		}
		attrs := link.Attrs()
		p = Parent{Name: attrs.Name, Index: uint32(attrs.Index), EncapType: attrs.EncapType}
	case index > 0:
		link, err := nl.LinkByIndex(index)
		if err != nil {
			return p, fmt.Errorf("parent index %d: %w", index, err)
		}
		attrs := link.Attrs()
		p = Parent{Name: attrs.Name, Index: uint32(attrs.Index), EncapType: attrs.EncapType}
	default:
		return p, errors.New("no parent link given")
	}

	if p.EncapType != EncapIEEE802154 {
		log.Warn("parent is not an IEEE 802.15.4 link", "parent", p.Name, "index", p.Index, "encap", p.EncapType)
	}
	return p, nil
}

package network

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// LinkStatus is a snapshot of one link.
type LinkStatus struct {
	Name        string   `json:"name"`
	Index       int      `json:"index"`
	ParentIndex int      `json:"parent_index,omitempty"`
	Type        string   `json:"type"`
	EncapType   string   `json:"encap"`
	Flags       string   `json:"flags"`
	OperState   string   `json:"oper_state"`
	MTU         int      `json:"mtu"`
	Addresses   []string `json:"addresses"`
}

// Status reports the link called name with its IPv6 addresses.
func Status(nl Netlinker, name string) (*LinkStatus, error) {
	link, err := nl.LinkByName(name)
	if err != nil {
		return nil, fmt.Errorf("link %s: %w", name, err)
	}
	attrs := link.Attrs()

	st := &LinkStatus{
		Name:        attrs.Name,
		Index:       attrs.Index,
		ParentIndex: attrs.ParentIndex,
		Type:        link.Type(),
		EncapType:   attrs.EncapType,
		Flags:       attrs.Flags.String(),
		OperState:   attrs.OperState.String(),
		MTU:         attrs.MTU,
	}

	addrs, err := nl.AddrList(link, netlink.FAMILY_V6)
	if err != nil {
		return nil, fmt.Errorf("addresses of %s: %w", name, err)
	}
	for _, a := range addrs {
		if a.IPNet == nil {
			continue
		}
		st.Addresses = append(st.Addresses, a.IPNet.String())
	}

	return st, nil
}

package network

import (
	"errors"

	"github.com/vishvananda/netlink"
)

// EncapIEEE802154 is the encapsulation netlink reports for 802.15.4 links.
const EncapIEEE802154 = "ieee802.15.4"

// ErrLinkNotFound is returned when a link name or index does not exist.
var ErrLinkNotFound = errors.New("link not found")

// Netlinker is an interface that abstracts netlink interactions.
type Netlinker interface {
	LinkByName(name string) (netlink.Link, error)
	LinkByIndex(index int) (netlink.Link, error)
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
}

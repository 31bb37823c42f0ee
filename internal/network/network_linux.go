package network

import (
	"errors"
	"fmt"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
)

// RealNetlinker implements Netlinker on a netlink handle, optionally bound
// to another network namespace.
type RealNetlinker struct {
	h *netlink.Handle
}

var _ Netlinker = (*RealNetlinker)(nil)

// NewNetlinker opens a netlink handle in ns. A closed handle (netns.None)
// means the current namespace.
func NewNetlinker(ns netns.NsHandle) (*RealNetlinker, error) {
	var (
		h   *netlink.Handle
		err error
	)
	if ns.IsOpen() {
		h, err = netlink.NewHandleAt(ns)
	} else {
		h, err = netlink.NewHandle()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open netlink handle: %w", err)
	}
	return &RealNetlinker{h: h}, nil
}

// LinkByName retrieves a link by name.
func (r *RealNetlinker) LinkByName(name string) (netlink.Link, error) {
	link, err := r.h.LinkByName(name)
	return link, notFound(err)
}

// LinkByIndex retrieves a link by interface index.
func (r *RealNetlinker) LinkByIndex(index int) (netlink.Link, error) {
	link, err := r.h.LinkByIndex(index)
	return link, notFound(err)
}

// AddrList retrieves a list of addresses for a link.
func (r *RealNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return r.h.AddrList(link, family)
}

// Close releases the handle.
func (r *RealNetlinker) Close() {
	r.h.Close()
}

func notFound(err error) error {
	var lnf netlink.LinkNotFoundError
	if errors.As(err, &lnf) {
		return fmt.Errorf("%w: %w", ErrLinkNotFound, err)
	}
	return err
}

// OpenNamespace returns a handle to the named network namespace, or
// netns.None() for an empty name. The caller closes the handle.
func OpenNamespace(name string) (netns.NsHandle, error) {
	if name == "" {
		return netns.None(), nil
	}
	ns, err := netns.GetFromName(name)
	if err != nil {
		return netns.None(), fmt.Errorf("failed to open netns %s: %w", name, err)
	}
	return ns, nil
}

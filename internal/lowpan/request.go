package lowpan

import (
	"fmt"
	"net/netip"

	"github.com/vishvananda/netlink/nl"
	"golang.org/x/sys/unix"

	"grimm.is/wpand/internal/rtattr"
	"grimm.is/wpand/internal/rtnl"
)

const (
	// Kind is the rtnl_link_ops kind of the kernel 6LoWPAN driver.
	Kind = "lowpan"

	// DefaultName is the name given to the virtual interface.
	DefaultName = "lowpan0"

	// enableFlags bring the interface up as part of creation.
	enableFlags = unix.IFF_UP | unix.IFF_ALLMULTI | unix.IFF_NOARP

	// placeholderType is the hardware type we request. The kernel replaces
	// it with ARPHRD_6LOWPAN when the link registers.
	placeholderType = unix.ARPHRD_NETROM
)

// DefaultAddress is the link-local address assigned to the interface.
var DefaultAddress = netip.MustParsePrefix("fe80::1/64")

// linkMessage encodes the ifinfomsg and attributes shared by the create and
// delete requests.
func linkMessage(flags uint32, parent uint32, name string) *rtattr.Builder {
	ifi := nl.NewIfInfomsg(unix.AF_UNSPEC)
	ifi.Type = placeholderType
	ifi.Index = 0
	ifi.Flags = flags
	ifi.Change = ^uint32(0)

	b := rtattr.NewBuilder(ifi.Serialize())
	b.AddUint32(unix.IFLA_LINK, parent)
	b.AddString(unix.IFLA_IFNAME, name)
	b.Nest(unix.IFLA_LINKINFO, func(b *rtattr.Builder) {
		b.AddBytes(unix.IFLA_INFO_KIND, []byte(Kind))
	})
	return b
}

// BuildCreateRequest returns the RTM_NEWLINK request that creates the
// 6LoWPAN interface on top of parent and brings it up. It fails if the
// interface already exists.
func BuildCreateRequest(parent uint32, name string) rtnl.Request {
	b := linkMessage(enableFlags, parent, name)
	return rtnl.Request{
		Type:  unix.RTM_NEWLINK,
		Flags: unix.NLM_F_CREATE | unix.NLM_F_EXCL,
		Data:  b.Bytes(),
	}
}

// BuildDeleteRequest returns the RTM_DELLINK request for the interface.
//
// The virtual interface's own index is never learned by the requester, so
// the target is named by a second IFLA_IFNAME after the link info.
func BuildDeleteRequest(parent uint32, name string) rtnl.Request {
	b := linkMessage(0, parent, name)
	b.AddString(unix.IFLA_IFNAME, name)
	return rtnl.Request{
		Type: unix.RTM_DELLINK,
		Data: b.Bytes(),
	}
}

// BuildAddressRequest returns the RTM_NEWADDR request assigning addr as a
// permanent link-scope address of interface index.
func BuildAddressRequest(index uint32, addr netip.Prefix) (rtnl.Request, error) {
	ip := addr.Addr()
	if !addr.IsValid() || !ip.Is6() || ip.Is4In6() {
		return rtnl.Request{}, fmt.Errorf("address %s is not an IPv6 prefix", addr)
	}

	ifa := nl.NewIfAddrmsg(unix.AF_INET6)
	ifa.Prefixlen = uint8(addr.Bits())
	ifa.Flags = unix.IFA_F_PERMANENT
	ifa.Scope = unix.RT_SCOPE_LINK
	ifa.Index = index

	raw := ip.As16()
	b := rtattr.NewBuilder(ifa.Serialize())
	b.AddBytes(unix.IFA_LOCAL, raw[:])

	return rtnl.Request{
		Type:  unix.RTM_NEWADDR,
		Flags: unix.NLM_F_CREATE | unix.NLM_F_EXCL | unix.NLM_F_REPLACE,
		Data:  b.Bytes(),
	}, nil
}

// Package network looks up links and addresses via netlink.
//
// # Overview
//
// The lowpan package speaks raw RTNL to create the 6LoWPAN interface; this
// package covers the surrounding read-only queries: turning the configured
// parent name into an interface index, checking that the parent really is
// an IEEE 802.15.4 link, and reporting the state of the managed interface.
//
// # Key Components
//
//   - [Netlinker]: the subset of netlink used, mockable in tests
//   - [ResolveParent]: parent name or index to a [Parent]
//   - [Status]: a [LinkStatus] snapshot of a link and its addresses
//
// # Namespaces
//
// [OpenNamespace] returns a handle to a named network namespace.
// [NewNetlinker] binds its queries to that namespace, and the same handle
// is passed to the RTNL transport so both see the same links.
//
// # Dependencies
//
// Uses github.com/vishvananda/netlink and github.com/vishvananda/netns.
package network

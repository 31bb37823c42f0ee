package lowpan

import (
	"github.com/mdlayher/netlink"
	"github.com/vishvananda/netlink/nl"
	"golang.org/x/sys/unix"

	"grimm.is/wpand/internal/rtnl"
)

// handleNotification runs for every message on RTNLGRP_LINK.
//
// Only links whose kernel-reported hardware type is ARPHRD_6LOWPAN are
// considered. The type in our own create request is a placeholder, so the
// filter has to look at what the kernel reports. The interface index is
// taken as reported; zero is a valid value here.
func (l *Link) handleNotification(msg rtnl.Message) {
	var event string
	switch msg.Type {
	case unix.RTM_NEWLINK:
		event = "newlink"
	case unix.RTM_DELLINK:
		event = "dellink"
	default:
		return
	}

	if len(msg.Data) < unix.SizeofIfInfomsg {
		l.cfg.Metrics.RecordNotification(event, "malformed")
		return
	}

	ifi := nl.DeserializeIfInfomsg(msg.Data)
	if ifi.Type != unix.ARPHRD_6LOWPAN {
		l.cfg.Metrics.RecordNotification(event, "discarded")
		return
	}

	index := uint32(ifi.Index)
	name := linkName(msg.Data[unix.SizeofIfInfomsg:])

	switch msg.Type {
	case unix.RTM_NEWLINK:
		l.log.Info("RTM_NEWLINK", "ifi_index", index, "ifname", name)
		l.linkCreated(index)
	case unix.RTM_DELLINK:
		l.log.Info("RTM_DELLINK", "ifi_index", index, "ifname", name)
		l.linkDeleted(index)
	}

	l.cfg.Metrics.RecordNotification(event, "handled")
}

// linkCreated moves the link to StateEnabled and assigns the address the
// first time a given index is reported. The kernel repeats RTM_NEWLINK for
// flag changes of the same interface; those are not new creations.
func (l *Link) linkCreated(index uint32) {
	l.mu.Lock()
	switch l.state {
	case StateCreateRequested:
		l.setStateLocked(StateEnabled)
	case StateEnabled:
	default:
		// Deleting or gone: nothing to configure.
		l.mu.Unlock()
		return
	}

	if l.hasIndex && l.index == index {
		l.mu.Unlock()
		return
	}
	l.index = index
	l.hasIndex = true
	tr := l.tr
	l.mu.Unlock()

	l.assignAddress(tr, index)
}

func (l *Link) linkDeleted(index uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hasIndex && l.index == index {
		l.hasIndex = false
	}
}

func (l *Link) assignAddress(tr rtnl.Transport, index uint32) {
	req, err := BuildAddressRequest(index, l.cfg.Address)
	if err != nil {
		l.log.Error("cannot build address request", "error", err)
		return
	}

	addr := l.cfg.Address.String()
	tr.Send(req).OnDone(func(err error) {
		l.cfg.Metrics.RecordRequest("address", err)
		if err != nil {
			l.log.Error("set IP error", "ifi_index", index, "address", addr, "error", err)
			return
		}
		l.log.Info("link-local address assigned", "ifi_index", index, "address", addr)
	})
}

// linkName extracts IFLA_IFNAME from the attributes following an ifinfomsg.
func linkName(attrs []byte) string {
	ad, err := netlink.NewAttributeDecoder(attrs)
	if err != nil {
		return ""
	}
	for ad.Next() {
		if ad.Type() == unix.IFLA_IFNAME {
			return ad.String()
		}
	}
	return ""
}

// Package lowpan manages a 6LoWPAN interface on top of an IEEE 802.15.4
// link through routing netlink.
//
// Init opens the transport, subscribes to link notifications and asks the
// kernel to create and enable the interface. The kernel announces the new
// interface with RTM_NEWLINK; only then is the link-local address
// assigned. Exit deletes the interface, waits for the kernel to
// acknowledge, and closes the transport.
//
//	link, err := lowpan.Init(ctx, dial, lowpan.Config{Parent: 3})
//	if err != nil {
//	    return err
//	}
//	defer link.Exit(ctx)
package lowpan

import (
	"context"
	"fmt"
	"net/netip"
	"sync"

	"golang.org/x/sys/unix"

	"grimm.is/wpand/internal/logging"
	"grimm.is/wpand/internal/metrics"
	"grimm.is/wpand/internal/rtnl"
)

// Dialer opens the netlink transport.
type Dialer func() (rtnl.Transport, error)

// Config describes the managed link.
type Config struct {
	// Parent is the interface index of the 802.15.4 link.
	Parent uint32
	// Name of the virtual interface. Defaults to DefaultName.
	Name string
	// Address assigned once the interface exists. Defaults to DefaultAddress.
	Address netip.Prefix

	Logger  *logging.Logger
	Metrics *metrics.Registry
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if !c.Address.IsValid() {
		c.Address = DefaultAddress
	}
	if c.Logger == nil {
		c.Logger = logging.WithComponent("lowpan")
	}
	return c
}

// Link is one managed 6LoWPAN interface.
type Link struct {
	cfg Config
	log *logging.Logger

	mu       sync.Mutex
	state    State
	tr       rtnl.Transport
	sub      rtnl.SubscriptionID
	index    uint32
	hasIndex bool
}

// New returns a Link in StateAbsent. Nothing is sent until Init.
func New(cfg Config) *Link {
	cfg = cfg.withDefaults()
	return &Link{
		cfg: cfg,
		log: cfg.Logger.WithFields(map[string]any{"parent": cfg.Parent, "link": cfg.Name}),
	}
}

// Init creates a Link and starts it.
func Init(ctx context.Context, dial Dialer, cfg Config) (*Link, error) {
	l := New(cfg)
	if err := l.Init(ctx, dial); err != nil {
		return nil, err
	}
	return l, nil
}

// Init opens the transport, registers for link notifications and sends the
// create request. It returns once the kernel has acknowledged the request.
// On failure nothing is left registered and the transport is closed.
func (l *Link) Init(ctx context.Context, dial Dialer) error {
	l.mu.Lock()
	if l.state != StateAbsent {
		st := l.state
		l.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrAlreadyStarted, st)
	}
	l.setStateLocked(StateCreateRequested)
	l.mu.Unlock()

	l.log.Info("6LoWPAN init")

	tr, err := dial()
	if err != nil {
		l.log.Error("failed to open netlink route socket", "error", err)
		l.setState(StateGone)
		return fmt.Errorf("%w: %w", ErrTransportUnavailable, err)
	}

	// The handler reads l.tr, so it is set before notifications can arrive.
	l.mu.Lock()
	l.tr = tr
	l.mu.Unlock()

	sub, err := tr.Subscribe(unix.RTNLGRP_LINK, l.handleNotification)
	if err != nil {
		l.log.Error("failed to register RTNL link notifications", "error", err)
		tr.Close()
		l.setState(StateGone)
		return fmt.Errorf("%w: %w", ErrSubscribe, err)
	}

	l.mu.Lock()
	l.sub = sub
	l.mu.Unlock()

	ack := tr.Send(BuildCreateRequest(l.cfg.Parent, l.cfg.Name))
	err = ack.Wait(ctx)
	l.cfg.Metrics.RecordRequest("create", err)
	if err != nil {
		l.log.Error("failed to create link", "error", err)
		tr.Unsubscribe(sub)
		tr.Close()
		l.setState(StateGone)
		return fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	l.log.Debug("create request acknowledged")
	return nil
}

// Exit deletes the interface. It sends the delete request, stops listening
// for notifications, waits for the acknowledgment (bounded by ctx) and
// then closes the transport. A failed deletion is logged, not returned:
// teardown always completes.
func (l *Link) Exit(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case StateCreateRequested, StateEnabled:
	default:
		st := l.state
		l.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrNotStarted, st)
	}
	l.setStateLocked(StateDeleteRequested)
	tr, sub := l.tr, l.sub
	l.mu.Unlock()

	l.log.Info("6LoWPAN exit")

	// TODO: delete by the kernel-reported index once RTM_NEWLINK has been
	// seen, so two links sharing a name cannot be confused.
	ack := tr.Send(BuildDeleteRequest(l.cfg.Parent, l.cfg.Name))
	tr.Unsubscribe(sub)

	err := ack.Wait(ctx)
	l.cfg.Metrics.RecordRequest("delete", err)
	if err != nil {
		l.log.Warn("failed to delete link", "error", err)
	}

	closeErr := tr.Close()
	l.setState(StateGone)
	if closeErr != nil {
		return fmt.Errorf("close netlink transport: %w", closeErr)
	}
	return nil
}

// State returns the current lifecycle state.
func (l *Link) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Index returns the kernel index of the virtual interface, once a
// creation notification has been observed.
func (l *Link) Index() (uint32, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index, l.hasIndex
}

// Name returns the interface name.
func (l *Link) Name() string {
	return l.cfg.Name
}

// Parent returns the index of the underlying 802.15.4 link.
func (l *Link) Parent() uint32 {
	return l.cfg.Parent
}

func (l *Link) setState(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setStateLocked(s)
}

func (l *Link) setStateLocked(s State) {
	if l.state == s {
		return
	}
	l.log.Debug("state change", "from", l.state.String(), "to", s.String())
	l.state = s
	l.cfg.Metrics.SetLinkState(l.cfg.Name, int(s))
}

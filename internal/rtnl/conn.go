package rtnl

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"

	"grimm.is/wpand/internal/logging"
)

// netlinkConn is the subset of *netlink.Conn the transport relies on.
type netlinkConn interface {
	Execute(m netlink.Message) ([]netlink.Message, error)
	Receive() ([]netlink.Message, error)
	JoinGroup(group uint32) error
	LeaveGroup(group uint32) error
	Close() error
}

// Options configure Dial.
type Options struct {
	// NetNS is a network namespace file descriptor. Zero means the
	// namespace of the calling thread.
	NetNS  int
	Logger *logging.Logger
}

type pending struct {
	req Request
	ack *Ack
}

type subscription struct {
	id    SubscriptionID
	group uint32
	fn    Handler
}

// Conn is a Transport backed by two NETLINK_ROUTE sockets: one executes
// requests in submission order, the other carries multicast notifications.
// Keeping them apart means an error acknowledgment can never be confused
// with a notification.
type Conn struct {
	ctrl   netlinkConn
	events netlinkConn
	log    *logging.Logger

	mu       sync.Mutex
	isClosed bool
	queue    []pending
	subs     []subscription
	groups   map[uint32]int
	nextID   SubscriptionID

	wake      chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

var _ Transport = (*Conn)(nil)

// Dial opens the routing netlink transport.
func Dial(opts Options) (*Conn, error) {
	cfg := &netlink.Config{NetNS: opts.NetNS}

	ctrl, err := netlink.Dial(unix.NETLINK_ROUTE, cfg)
	if err != nil {
		return nil, fmt.Errorf("open netlink route socket: %w", err)
	}

	events, err := netlink.Dial(unix.NETLINK_ROUTE, cfg)
	if err != nil {
		ctrl.Close()
		return nil, fmt.Errorf("open netlink route event socket: %w", err)
	}

	return newConn(ctrl, events, opts.Logger), nil
}

func newConn(ctrl, events netlinkConn, log *logging.Logger) *Conn {
	if log == nil {
		log = logging.WithComponent("rtnl")
	}

	c := &Conn{
		ctrl:   ctrl,
		events: events,
		log:    log,
		groups: make(map[uint32]int),
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}

	c.wg.Add(2)
	go c.sendLoop()
	go c.receiveLoop()

	return c
}

// Send queues req and returns its pending acknowledgment.
func (c *Conn) Send(req Request) *Ack {
	ack := NewAck()

	c.mu.Lock()
	if c.isClosed {
		c.mu.Unlock()
		ack.Complete(ErrClosed)
		return ack
	}
	c.queue = append(c.queue, pending{req: req, ack: ack})
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}

	return ack
}

func (c *Conn) dequeue() (pending, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.queue) == 0 {
		return pending{}, false
	}
	p := c.queue[0]
	c.queue = c.queue[1:]
	return p, true
}

func (c *Conn) sendLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.closed:
			return
		case <-c.wake:
		}

		for {
			p, ok := c.dequeue()
			if !ok {
				break
			}
			p.ack.Complete(c.execute(p.req))
		}
	}
}

func (c *Conn) execute(req Request) error {
	c.log.Debug("sending request", "request", req.String())

	msg := netlink.Message{
		Header: netlink.Header{
			Type:  netlink.HeaderType(req.Type),
			Flags: netlink.Request | netlink.Acknowledge | netlink.HeaderFlags(req.Flags),
		},
		Data: req.Data,
	}

	if _, err := c.ctrl.Execute(msg); err != nil {
		return fmt.Errorf("%s: %w", TypeName(req.Type), err)
	}
	return nil
}

// Subscribe joins group on the event socket and registers fn. Every
// handler sees every notification arriving on the event socket; handlers
// filter by message type.
func (c *Conn) Subscribe(group uint32, fn Handler) (SubscriptionID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed {
		return 0, ErrClosed
	}

	if c.groups[group] == 0 {
		if err := c.events.JoinGroup(group); err != nil {
			return 0, fmt.Errorf("join multicast group %d: %w", group, err)
		}
	}
	c.groups[group]++

	c.nextID++
	c.subs = append(c.subs, subscription{id: c.nextID, group: group, fn: fn})

	return c.nextID, nil
}

// Unsubscribe removes a handler and leaves its group once unused.
func (c *Conn) Unsubscribe(id SubscriptionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.subs {
		if s.id != id {
			continue
		}
		c.subs = append(c.subs[:i:i], c.subs[i+1:]...)

		c.groups[s.group]--
		if c.groups[s.group] == 0 {
			delete(c.groups, s.group)
			if !c.isClosed {
				if err := c.events.LeaveGroup(s.group); err != nil {
					c.log.Warn("failed to leave multicast group", "group", s.group, "error", err)
				}
			}
		}
		return
	}
}

func (c *Conn) handlers() []Handler {
	c.mu.Lock()
	defer c.mu.Unlock()

	fns := make([]Handler, 0, len(c.subs))
	for _, s := range c.subs {
		fns = append(fns, s.fn)
	}
	return fns
}

func (c *Conn) isShutdown() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *Conn) receiveLoop() {
	defer c.wg.Done()

	for {
		msgs, err := c.events.Receive()
		if c.isShutdown() {
			return
		}
		if err != nil {
			// The kernel drops notifications when our buffer overruns;
			// keep listening, later events are still valid.
			if errors.Is(err, unix.ENOBUFS) {
				c.log.Warn("netlink notification buffer overrun, events were lost")
				continue
			}
			c.log.Error("stopped receiving netlink notifications", "error", err)
			return
		}

		for _, m := range msgs {
			switch m.Header.Type {
			case netlink.Error, netlink.Done, netlink.Noop, netlink.Overrun:
				continue
			}

			msg := Message{Type: uint16(m.Header.Type), Data: m.Data}
			for _, fn := range c.handlers() {
				fn(msg)
			}
		}
	}
}

// Close stops both loops, fails queued requests with ErrClosed and closes
// the sockets. Calling Close more than once returns the first result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.isClosed = true
		queued := c.queue
		c.queue = nil
		c.mu.Unlock()

		close(c.closed)
		for _, p := range queued {
			p.ack.Complete(ErrClosed)
		}

		c.closeErr = errors.Join(c.events.Close(), c.ctrl.Close())
		c.wg.Wait()
	})
	return c.closeErr
}

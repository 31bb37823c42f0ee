package rtnl

import (
	"encoding/hex"
	"sync"

	"grimm.is/wpand/internal/logging"
)

// DryRun is an in-memory Transport. It records and logs requests instead
// of sending them and acknowledges them with success unless told otherwise.
// Notifications are injected with Emit.
type DryRun struct {
	log *logging.Logger

	mu       sync.Mutex
	Requests []Request
	Closes   int

	// SubscribeErr, when set, is returned by Subscribe.
	SubscribeErr error

	results map[uint16]error
	held    map[uint16][]*Ack
	hold    map[uint16]bool
	subs    []subscription
	nextID  SubscriptionID
	closed  bool
}

var _ Transport = (*DryRun)(nil)

// NewDryRun returns an empty DryRun transport.
func NewDryRun(log *logging.Logger) *DryRun {
	if log == nil {
		log = logging.WithComponent("rtnl")
	}
	return &DryRun{
		log:     log,
		results: make(map[uint16]error),
		held:    make(map[uint16][]*Ack),
		hold:    make(map[uint16]bool),
	}
}

// FailType makes every later request of msgType acknowledge with err.
func (d *DryRun) FailType(msgType uint16, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results[msgType] = err
}

// Hold leaves acknowledgments of msgType pending until Release.
func (d *DryRun) Hold(msgType uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hold[msgType] = true
}

// Release resolves every held acknowledgment of msgType with err and stops
// holding that type.
func (d *DryRun) Release(msgType uint16, err error) {
	d.mu.Lock()
	acks := d.held[msgType]
	delete(d.held, msgType)
	delete(d.hold, msgType)
	d.mu.Unlock()

	for _, a := range acks {
		a.Complete(err)
	}
}

// Send records req.
func (d *DryRun) Send(req Request) *Ack {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Resolved(ErrClosed)
	}

	d.Requests = append(d.Requests, req)
	d.log.Info("dry run: request not sent", "request", req.String(), "data", hex.EncodeToString(req.Data))

	if d.hold[req.Type] {
		ack := NewAck()
		d.held[req.Type] = append(d.held[req.Type], ack)
		return ack
	}
	return Resolved(d.results[req.Type])
}

// Subscribe registers fn for messages passed to Emit.
func (d *DryRun) Subscribe(group uint32, fn Handler) (SubscriptionID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrClosed
	}
	if d.SubscribeErr != nil {
		return 0, d.SubscribeErr
	}

	d.nextID++
	d.subs = append(d.subs, subscription{id: d.nextID, group: group, fn: fn})
	return d.nextID, nil
}

// Unsubscribe removes a handler.
func (d *DryRun) Unsubscribe(id SubscriptionID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
			return
		}
	}
}

// Subscribed reports how many handlers are registered.
func (d *DryRun) Subscribed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

// Emit delivers msg to every handler, serially, on the calling goroutine.
func (d *DryRun) Emit(msg Message) {
	d.mu.Lock()
	fns := make([]Handler, 0, len(d.subs))
	for _, s := range d.subs {
		fns = append(fns, s.fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(msg)
	}
}

// Sent returns a copy of the recorded requests of msgType.
func (d *DryRun) Sent(msgType uint16) []Request {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []Request
	for _, r := range d.Requests {
		if r.Type == msgType {
			out = append(out, r)
		}
	}
	return out
}

// CloseCount reports how many times Close was called.
func (d *DryRun) CloseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Closes
}

// Close marks the transport closed. Held acknowledgments fail with ErrClosed.
func (d *DryRun) Close() error {
	d.mu.Lock()
	d.Closes++
	d.closed = true
	var acks []*Ack
	for t, held := range d.held {
		acks = append(acks, held...)
		delete(d.held, t)
	}
	d.mu.Unlock()

	for _, a := range acks {
		a.Complete(ErrClosed)
	}
	return nil
}

// Package rtnl provides the routing netlink transport used to manage links.
//
// A Transport sends fully encoded requests and delivers multicast
// notifications to subscribers. Requests are acknowledged asynchronously
// through an Ack, so callers decide when (and whether) to wait.
package rtnl

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is reported for requests and subscriptions made after Close.
var ErrClosed = errors.New("rtnl: transport closed")

// Request is an encoded RTNL request.
type Request struct {
	// Type is the RTM_* message type.
	Type uint16
	// Flags holds NLM_F_CREATE, NLM_F_EXCL and similar. The transport adds
	// the request and acknowledge flags itself.
	Flags uint16
	// Data is the family header followed by the attribute chain.
	Data []byte
}

func (r Request) String() string {
	return fmt.Sprintf("%s flags=%#x len=%d", TypeName(r.Type), r.Flags, len(r.Data))
}

// Message is a notification received on a multicast group.
type Message struct {
	Type uint16
	Data []byte
}

// Handler receives notifications. Handlers of one transport are never
// called concurrently with each other.
type Handler func(Message)

// SubscriptionID identifies a registered Handler.
type SubscriptionID uint64

// Transport is a routing netlink channel.
type Transport interface {
	// Send queues req for transmission and returns immediately.
	Send(req Request) *Ack
	// Subscribe joins a multicast group and registers fn for its messages.
	Subscribe(group uint32, fn Handler) (SubscriptionID, error)
	// Unsubscribe removes a handler. Unknown IDs are ignored.
	Unsubscribe(id SubscriptionID)
	// Close releases the channel. It must not be called from a Handler.
	Close() error
}

// Ack is the pending kernel answer to a Request.
type Ack struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewAck returns an unresolved Ack.
func NewAck() *Ack {
	return &Ack{done: make(chan struct{})}
}

// Resolved returns an Ack that already carries err.
func Resolved(err error) *Ack {
	a := NewAck()
	a.Complete(err)
	return a
}

// Complete resolves the Ack. Only the first call has an effect.
func (a *Ack) Complete(err error) {
	a.once.Do(func() {
		a.err = err
		close(a.done)
	})
}

// Done is closed once the Ack is resolved.
func (a *Ack) Done() <-chan struct{} {
	return a.done
}

// Err returns the kernel-reported error. It is only meaningful after Done
// is closed.
func (a *Ack) Err() error {
	select {
	case <-a.done:
		return a.err
	default:
		return nil
	}
}

// OnDone calls fn with the result once the Ack resolves. fn runs on its
// own goroutine.
func (a *Ack) OnDone(fn func(err error)) {
	go func() {
		<-a.done
		fn(a.err)
	}()
}

// Wait blocks until the Ack resolves or ctx ends. A resolved Ack wins over
// an expired ctx.
func (a *Ack) Wait(ctx context.Context) error {
	select {
	case <-a.done:
		return a.err
	default:
	}
	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

package lowpan

import "errors"

var (
	// ErrTransportUnavailable means the netlink route socket could not be opened.
	ErrTransportUnavailable = errors.New("netlink transport unavailable")
	// ErrSubscribe means link notifications could not be registered.
	ErrSubscribe = errors.New("failed to register link notifications")
	// ErrCreateFailed means the kernel rejected (or never answered) the
	// create request.
	ErrCreateFailed = errors.New("failed to create 6LoWPAN link")
	// ErrAlreadyStarted is returned by Init on a link that was started before.
	ErrAlreadyStarted = errors.New("link already started")
	// ErrNotStarted is returned by Exit on a link that is not running.
	ErrNotStarted = errors.New("link not started")
)

package arp

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument wraps malformed input: bad address text, empty IP
// lists, batch/retry sizes below 1, no route to a destination, or a target
// outside the resolving interface's subnet.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrRuntime wraps failures from the link-layer socket or the underlying
// kernel facilities it depends on: socket creation/binding, send/receive,
// or a resolve that timed out with no reply.
var ErrRuntime = errors.New("arp runtime error")

// ErrTimeout is a more specific ErrRuntime: the reply never arrived within
// the requested timeout.
var ErrTimeout = fmt.Errorf("%w: arp resolve timed out", ErrRuntime)

package inventory

import "errors"

// ErrInvalidArgument wraps invalid caller input such as empty interface
// names. Unknown interfaces are reported with ErrUnknownInterface instead.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrRuntime wraps failures from the netlink control channel itself: socket
// creation, dump requests, and malformed kernel responses.
var ErrRuntime = errors.New("inventory runtime error")

// ErrNoRoute is returned when a lookup (best route, default route, gateway)
// finds nothing matching.
var ErrNoRoute = errors.New("no matching route")

// ErrUnknownInterface is returned when a name or index has no corresponding
// interface in the loaded inventory.
var ErrUnknownInterface = errors.New("unknown interface")

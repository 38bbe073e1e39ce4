// Package inventory reads the kernel's routing table over a netlink control
// channel and exposes it as a queryable, lazily-loaded, concurrency-safe
// snapshot: the interfaces present on the host and the routes each one
// carries.
package inventory

import "github.com/pol4bear/pnet/addr"

// NetInfo describes the addressing of a single network interface: its
// hardware address, its IPv4 address, and the subnet mask that address was
// assigned with.
type NetInfo struct {
	MAC  addr.MAC
	IP   addr.IPv4
	Mask addr.SubnetMask
}

// RouteInfo describes a single routing table entry as returned by the
// kernel: the destination network and mask it covers, the gateway to reach
// it through (zero if directly connected), the preferred source address to
// originate packets from, and the route's metric (lower is preferred).
type RouteInfo struct {
	Destination addr.IPv4
	Mask        addr.SubnetMask
	Gateway     addr.IPv4
	Prefsrc     addr.IPv4
	Metric      uint32
}

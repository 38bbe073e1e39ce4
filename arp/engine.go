package arp

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/pol4bear/pnet/addr"
	"github.com/pol4bear/pnet/inventory"
)

// Engine resolves and crafts ARP traffic against a host's routing context,
// supplied by an Inventory. The zero value is not usable; build one with
// NewEngine.
type Engine struct {
	inv    *inventory.Inventory
	logger *slog.Logger
}

// NewEngine builds an Engine backed by inv, logging through logger
// (defaulting to slog.Default() if nil).
func NewEngine(inv *inventory.Inventory, logger *slog.Logger) *Engine {
	if inv == nil {
		inv = inventory.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{inv: inv, logger: logger}
}

// defaultEngine is the process-wide Engine used by package-level
// convenience wrappers, backed by the Inventory singleton.
var defaultEngine = NewEngine(inventory.Default(), slog.Default())

// Default returns the process-wide Engine singleton.
func Default() *Engine {
	return defaultEngine
}

// routeContext bundles everything resolve/sweep need about the egress path
// to a destination: the interface to send on, its own addressing, and the
// preferred source to originate requests from.
type routeContext struct {
	ifi     *net.Interface
	netinfo inventory.NetInfo
	source  addr.IPv4
}

// resolveRouteContext selects the best route to destination and loads the
// NetInfo and system interface for its egress interface, falling back to
// the interface's own IP when the route carries no preferred source.
func (e *Engine) resolveRouteContext(destination addr.IPv4) (routeContext, error) {
	ifname, route, err := e.inv.GetBestRouteinfo(destination)
	if err != nil {
		return routeContext{}, fmt.Errorf("%w: no route to %s: %v", ErrInvalidArgument, destination, err)
	}

	netinfo, err := e.inv.GetNetinfo(ifname)
	if err != nil {
		return routeContext{}, fmt.Errorf("%w: resolving NetInfo for %s: %v", ErrRuntime, ifname, err)
	}

	ifi, err := net.InterfaceByName(ifname)
	if err != nil {
		return routeContext{}, fmt.Errorf("%w: resolving system interface %s: %v", ErrRuntime, ifname, err)
	}

	source := route.Prefsrc
	if source.Uint32() == 0 {
		source = netinfo.IP
	}

	return routeContext{ifi: ifi, netinfo: netinfo, source: source}, nil
}

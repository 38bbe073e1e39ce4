package inventory

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pol4bear/pnet/addr"
)

// Inventory is a lazily-loaded, concurrency-safe snapshot of the host's
// network interfaces and routing table, backed by the kernel's netlink
// control channel. The zero value is ready to use; callers normally reach
// it through Default.
type Inventory struct {
	logger *slog.Logger

	ifaceMu    sync.RWMutex
	ifaceNames map[int]string
	ifaceIndex map[string]int
	netinfo    map[string]NetInfo

	routeMu sync.RWMutex
	routes  map[string][]RouteInfo
}

var defaultInventory = &Inventory{logger: slog.Default()}

// Default returns the process-wide Inventory singleton, matching
// NetInfoManager::instance's single shared instance.
func Default() *Inventory {
	return defaultInventory
}

// New builds an independent Inventory with its own cache, useful for tests
// that want isolation from the process-wide singleton.
func New(logger *slog.Logger) *Inventory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inventory{logger: logger}
}

func (inv *Inventory) log() *slog.Logger {
	if inv.logger == nil {
		return slog.Default()
	}
	return inv.logger
}

// loadNetinfoLocked loads interfaces without holding ifaceMu, then swaps the
// result in under the write lock. Keeping the netlink round trip off the
// lock avoids blocking readers for the duration of the dump.
func (inv *Inventory) loadNetinfoLocked() error {
	names, indices, infos, err := loadNetinfo()
	if err != nil {
		inv.log().Warn("failed to load interface inventory", "error", err)
		return err
	}
	inv.ifaceMu.Lock()
	inv.ifaceNames = names
	inv.ifaceIndex = indices
	inv.netinfo = infos
	inv.ifaceMu.Unlock()
	inv.log().Debug("loaded interface inventory", "interfaces", len(infos))
	return nil
}

func (inv *Inventory) loadRouteinfoLocked() error {
	inv.ifaceMu.RLock()
	haveNames := len(inv.ifaceNames) > 0
	names := inv.ifaceNames
	inv.ifaceMu.RUnlock()
	if !haveNames {
		if err := inv.loadNetinfoLocked(); err != nil {
			return err
		}
		inv.ifaceMu.RLock()
		names = inv.ifaceNames
		inv.ifaceMu.RUnlock()
	}

	routes, err := loadRouteinfo(names)
	if err != nil {
		inv.log().Warn("failed to load route inventory", "error", err)
		return err
	}
	inv.routeMu.Lock()
	inv.routes = routes
	inv.routeMu.Unlock()
	count := 0
	for _, rs := range routes {
		count += len(rs)
	}
	inv.log().Debug("loaded route inventory", "routes", count)
	return nil
}

// GetAllNetinfo returns every interface's NetInfo keyed by name, loading (or
// reloading, if reload is true) from netlink first as needed.
func (inv *Inventory) GetAllNetinfo(reload bool) (map[string]NetInfo, error) {
	inv.ifaceMu.RLock()
	empty := len(inv.netinfo) == 0
	inv.ifaceMu.RUnlock()
	if reload || empty {
		if err := inv.loadNetinfoLocked(); err != nil {
			return nil, err
		}
	}
	inv.ifaceMu.RLock()
	defer inv.ifaceMu.RUnlock()
	out := make(map[string]NetInfo, len(inv.netinfo))
	for k, v := range inv.netinfo {
		out[k] = v
	}
	return out, nil
}

// GetAllRouteinfo returns every interface's routes keyed by name, loading
// (or reloading) from netlink first as needed.
func (inv *Inventory) GetAllRouteinfo(reload bool) (map[string][]RouteInfo, error) {
	inv.routeMu.RLock()
	empty := len(inv.routes) == 0
	inv.routeMu.RUnlock()
	if reload || empty {
		if err := inv.loadRouteinfoLocked(); err != nil {
			return nil, err
		}
	}
	inv.routeMu.RLock()
	defer inv.routeMu.RUnlock()
	out := make(map[string][]RouteInfo, len(inv.routes))
	for k, v := range inv.routes {
		cp := make([]RouteInfo, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out, nil
}

// GetNetinfo returns the NetInfo for a single named interface.
func (inv *Inventory) GetNetinfo(name string) (NetInfo, error) {
	if name == "" {
		return NetInfo{}, fmt.Errorf("%w: empty interface name", ErrInvalidArgument)
	}
	inv.ifaceMu.RLock()
	empty := len(inv.netinfo) == 0
	inv.ifaceMu.RUnlock()
	if empty {
		if err := inv.loadNetinfoLocked(); err != nil {
			return NetInfo{}, err
		}
	}
	inv.ifaceMu.RLock()
	defer inv.ifaceMu.RUnlock()
	info, ok := inv.netinfo[name]
	if !ok {
		return NetInfo{}, fmt.Errorf("%w: %q", ErrUnknownInterface, name)
	}
	return info, nil
}

// GetGatewayIP returns the first non-zero gateway address among name's
// routes, matching get_gateway_ip.
func (inv *Inventory) GetGatewayIP(name string) (addr.IPv4, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty interface name", ErrInvalidArgument)
	}
	inv.routeMu.RLock()
	empty := len(inv.routes) == 0
	inv.routeMu.RUnlock()
	if empty {
		if err := inv.loadRouteinfoLocked(); err != nil {
			return 0, err
		}
	}
	inv.routeMu.RLock()
	defer inv.routeMu.RUnlock()
	for _, route := range inv.routes[name] {
		if route.Gateway.Uint32() != 0 {
			return route.Gateway, nil
		}
	}
	return 0, fmt.Errorf("%w: no gateway on %q", ErrNoRoute, name)
}

// GetIPRange returns the first and last usable host addresses within the
// network ip/mask describes, excluding the network and broadcast addresses
// — matching get_ip_range(ip, mask).
func GetIPRange(ip addr.IPv4, mask addr.SubnetMask) (first, last addr.IPv4) {
	network := ip.And(mask.IPv4)
	broadcast := ip.Or(notMask(mask.IPv4))
	return network.Inc(), broadcast.Add(-1)
}

func notMask(m addr.IPv4) addr.IPv4 {
	return addr.IPv4(^m.Uint32())
}

// GetIPRangeForInterface returns the usable host range of the interface's
// own address, using maximumMask in place of the interface's mask if it is
// a longer (more specific) prefix — matching get_ip_range(name,
// maximum_mask).
func (inv *Inventory) GetIPRangeForInterface(name string, maximumMask addr.SubnetMask) (first, last addr.IPv4, err error) {
	if name == "" {
		return 0, 0, fmt.Errorf("%w: empty interface name", ErrInvalidArgument)
	}
	info, err := inv.GetNetinfo(name)
	if err != nil {
		return 0, 0, err
	}
	mask := info.Mask
	if maximumMask.CIDR() > mask.CIDR() {
		mask = maximumMask
	}
	first, last = GetIPRange(info.IP, mask)
	return first, last, nil
}

// GetBestRouteinfo returns the route with the longest matching prefix for
// destination, breaking ties in favor of the lowest metric, along with the
// name of the interface carrying it — matching get_best_routeinfo.
func (inv *Inventory) GetBestRouteinfo(destination addr.IPv4) (string, RouteInfo, error) {
	inv.routeMu.RLock()
	empty := len(inv.routes) == 0
	inv.routeMu.RUnlock()
	if empty {
		if err := inv.loadRouteinfoLocked(); err != nil {
			return "", RouteInfo{}, err
		}
	}
	inv.routeMu.RLock()
	defer inv.routeMu.RUnlock()

	var best *RouteInfo
	var bestName string
	longestPrefix := -1
	for ifname, routeList := range inv.routes {
		for i := range routeList {
			route := routeList[i]
			if destination.And(route.Mask.IPv4) != route.Destination {
				continue
			}
			prefix := route.Mask.CIDR()
			if prefix > longestPrefix || (prefix == longestPrefix && best != nil && route.Metric < best.Metric) {
				longestPrefix = prefix
				bestName = ifname
				best = &routeList[i]
			}
		}
	}
	if best == nil {
		return "", RouteInfo{}, fmt.Errorf("%w: for %s", ErrNoRoute, destination)
	}
	return bestName, *best, nil
}

// GetDefaultRouteinfo returns the default route (destination and mask both
// 0.0.0.0) with the lowest metric, along with the name of the interface
// carrying it.
//
// This deliberately differs from get_default_routeinfo, which returns
// whichever default route was scanned last: with multiple default routes
// present, "last scanned" depends on map iteration order and is not a
// meaningful preference. Preferring the lowest metric matches how the
// kernel itself picks among multiple default routes of the same scope.
func (inv *Inventory) GetDefaultRouteinfo() (string, RouteInfo, error) {
	inv.routeMu.RLock()
	empty := len(inv.routes) == 0
	inv.routeMu.RUnlock()
	if empty {
		if err := inv.loadRouteinfoLocked(); err != nil {
			return "", RouteInfo{}, err
		}
	}
	inv.routeMu.RLock()
	defer inv.routeMu.RUnlock()

	var best *RouteInfo
	var bestName string
	for ifname, routeList := range inv.routes {
		for i := range routeList {
			route := routeList[i]
			if route.Destination.Uint32() != 0 || route.Mask.Uint32() != 0 {
				continue
			}
			if best == nil || route.Metric < best.Metric {
				bestName = ifname
				best = &routeList[i]
			}
		}
	}
	if best == nil {
		return "", RouteInfo{}, fmt.Errorf("%w: no default route", ErrNoRoute)
	}
	return bestName, *best, nil
}

// InterfaceName returns the name of the interface with the given kernel
// index, matching get_interface_name.
func (inv *Inventory) InterfaceName(index int) (string, error) {
	inv.ifaceMu.RLock()
	empty := len(inv.ifaceNames) == 0
	inv.ifaceMu.RUnlock()
	if empty {
		if err := inv.loadNetinfoLocked(); err != nil {
			return "", err
		}
	}
	inv.ifaceMu.RLock()
	defer inv.ifaceMu.RUnlock()
	name, ok := inv.ifaceNames[index]
	if !ok {
		return "", fmt.Errorf("%w: index %d", ErrUnknownInterface, index)
	}
	return name, nil
}

// InterfaceIndex returns the kernel index of the named interface, matching
// get_interface_index.
func (inv *Inventory) InterfaceIndex(name string) (int, error) {
	inv.ifaceMu.RLock()
	empty := len(inv.ifaceIndex) == 0
	inv.ifaceMu.RUnlock()
	if empty {
		if err := inv.loadNetinfoLocked(); err != nil {
			return 0, err
		}
	}
	inv.ifaceMu.RLock()
	defer inv.ifaceMu.RUnlock()
	index, ok := inv.ifaceIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownInterface, name)
	}
	return index, nil
}

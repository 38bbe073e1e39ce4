package inventory

import (
	"encoding/binary"
	"fmt"

	"github.com/jsimonetti/rtnetlink"

	"github.com/pol4bear/pnet/addr"
)

// loadNetinfo dumps RTM_GETLINK then RTM_GETADDR, merges them by interface
// index, and returns the interface name/index maps and the per-name NetInfo
// built from them. It mirrors NetInfoManager::load_netinfo: a link pass for
// name and MAC, an address pass for IP and prefix length, merged by index.
func loadNetinfo() (names map[int]string, indices map[string]int, infos map[string]NetInfo, err error) {
	conn, err := rtnetlink.Dial(nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: opening netlink control channel: %v", ErrRuntime, err)
	}
	defer conn.Close()

	links, err := conn.Link.List()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: RTM_GETLINK dump: %v", ErrRuntime, err)
	}

	names = make(map[int]string, len(links))
	indices = make(map[string]int, len(links))
	byIndex := make(map[int]NetInfo, len(links))

	for _, link := range links {
		index := int(link.Index)
		if link.Attributes == nil || link.Attributes.Name == "" {
			continue
		}
		names[index] = link.Attributes.Name
		indices[link.Attributes.Name] = index

		info := byIndex[index]
		if len(link.Attributes.Address) == addr.MACLen {
			mac, macErr := addr.NewMAC(link.Attributes.Address, true)
			if macErr == nil {
				info.MAC = mac
			}
		}
		byIndex[index] = info
	}

	addrs, err := conn.Address.List()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: RTM_GETADDR dump: %v", ErrRuntime, err)
	}

	for _, a := range addrs {
		if a.Family != unixAFInet {
			continue
		}
		index := int(a.Index)
		info := byIndex[index]
		if a.Attributes != nil && a.Attributes.Local != nil {
			if ipv4 := a.Attributes.Local.To4(); ipv4 != nil {
				info.IP = addr.NewIPv4(binary.NativeEndian.Uint32(ipv4), true)
			}
		}
		info.Mask = addr.SubnetMaskFromCIDR(int(a.PrefixLength))
		byIndex[index] = info
	}

	infos = make(map[string]NetInfo, len(byIndex))
	for index, info := range byIndex {
		name, ok := names[index]
		if !ok {
			continue
		}
		infos[name] = info
	}
	return names, indices, infos, nil
}

// loadRouteinfo dumps RTM_GETROUTE and groups entries by the name of the
// outgoing interface, admitting only routes that carry a preferred source
// or a gateway, mirroring load_routeinfo's `prefsrc != 0 || gateway != 0`
// filter (routes with neither are table-internal entries we have no use
// for, e.g. broadcast/local routes installed by the kernel).
func loadRouteinfo(names map[int]string) (map[string][]RouteInfo, error) {
	conn, err := rtnetlink.Dial(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: opening netlink control channel: %v", ErrRuntime, err)
	}
	defer conn.Close()

	rows, err := conn.Route.List()
	if err != nil {
		return nil, fmt.Errorf("%w: RTM_GETROUTE dump: %v", ErrRuntime, err)
	}

	routes := make(map[string][]RouteInfo)
	for _, row := range rows {
		if row.Family != unixAFInet {
			continue
		}
		var ri RouteInfo
		ri.Mask = addr.SubnetMaskFromCIDR(int(row.DstLength))
		if ipv4 := row.Attributes.Dst.To4(); ipv4 != nil {
			ri.Destination = addr.NewIPv4(binary.NativeEndian.Uint32(ipv4), true)
		}
		if ipv4 := row.Attributes.Gateway.To4(); ipv4 != nil {
			ri.Gateway = addr.NewIPv4(binary.NativeEndian.Uint32(ipv4), true)
		}
		if ipv4 := row.Attributes.Src.To4(); ipv4 != nil {
			ri.Prefsrc = addr.NewIPv4(binary.NativeEndian.Uint32(ipv4), true)
		}
		ri.Metric = row.Attributes.Priority

		ifname := names[int(row.Attributes.OutIface)]
		if ri.Prefsrc.Uint32() == 0 && ri.Gateway.Uint32() == 0 {
			continue
		}
		routes[ifname] = append(routes[ifname], ri)
	}
	return routes, nil
}

// unixAFInet is unix.AF_INET, duplicated here to avoid importing
// golang.org/x/sys/unix solely for one constant already re-exported
// indirectly through rtnetlink's dependency on it.
const unixAFInet = 2

package inventory

import (
	"testing"

	"github.com/pol4bear/pnet/addr"
)

func mustIP(t *testing.T, s string) addr.IPv4 {
	t.Helper()
	ip, err := addr.ParseIPv4(s)
	if err != nil {
		t.Fatalf("ParseIPv4(%q): %v", s, err)
	}
	return ip
}

func TestGetIPRange(t *testing.T) {
	ip := mustIP(t, "192.168.1.50")
	mask := addr.SubnetMaskFromCIDR(24)
	first, last := GetIPRange(ip, mask)
	if got := first.String(); got != "192.168.1.1" {
		t.Fatalf("first = %s, want 192.168.1.1", got)
	}
	if got := last.String(); got != "192.168.1.254" {
		t.Fatalf("last = %s, want 192.168.1.254", got)
	}
}

// preloaded builds an Inventory with routes injected directly, bypassing
// the netlink loaders, so route-selection logic can be tested in isolation.
func preloaded(routes map[string][]RouteInfo) *Inventory {
	inv := New(nil)
	inv.routes = routes
	inv.ifaceNames = map[int]string{}
	inv.ifaceIndex = map[string]int{}
	return inv
}

func TestGetBestRouteinfoLongestPrefix(t *testing.T) {
	inv := preloaded(map[string][]RouteInfo{
		"eth0": {
			{Destination: mustIP(t, "0.0.0.0"), Mask: addr.SubnetMaskFromCIDR(0), Gateway: mustIP(t, "192.168.1.1"), Metric: 100},
			{Destination: mustIP(t, "192.168.1.0"), Mask: addr.SubnetMaskFromCIDR(24), Prefsrc: mustIP(t, "192.168.1.50"), Metric: 0},
		},
	})

	ifname, route, err := inv.GetBestRouteinfo(mustIP(t, "192.168.1.200"))
	if err != nil {
		t.Fatal(err)
	}
	if ifname != "eth0" {
		t.Fatalf("ifname = %q, want eth0", ifname)
	}
	if route.Mask.CIDR() != 24 {
		t.Fatalf("expected the /24 route to win over the default route, got CIDR %d", route.Mask.CIDR())
	}
}

func TestGetBestRouteinfoMetricTiebreak(t *testing.T) {
	inv := preloaded(map[string][]RouteInfo{
		"eth0": {
			{Destination: mustIP(t, "10.0.0.0"), Mask: addr.SubnetMaskFromCIDR(24), Prefsrc: mustIP(t, "10.0.0.5"), Metric: 50},
		},
		"eth1": {
			{Destination: mustIP(t, "10.0.0.0"), Mask: addr.SubnetMaskFromCIDR(24), Prefsrc: mustIP(t, "10.0.0.6"), Metric: 10},
		},
	})

	ifname, route, err := inv.GetBestRouteinfo(mustIP(t, "10.0.0.100"))
	if err != nil {
		t.Fatal(err)
	}
	if ifname != "eth1" || route.Metric != 10 {
		t.Fatalf("expected eth1's lower-metric route to win, got ifname=%q metric=%d", ifname, route.Metric)
	}
}

func TestGetBestRouteinfoNoMatch(t *testing.T) {
	inv := preloaded(map[string][]RouteInfo{
		"eth0": {
			{Destination: mustIP(t, "10.0.0.0"), Mask: addr.SubnetMaskFromCIDR(24), Prefsrc: mustIP(t, "10.0.0.5")},
		},
	})
	if _, _, err := inv.GetBestRouteinfo(mustIP(t, "192.168.1.1")); err == nil {
		t.Fatal("expected no-route error")
	}
}

func TestGetDefaultRouteinfoPrefersLowestMetric(t *testing.T) {
	inv := preloaded(map[string][]RouteInfo{
		"eth0": {
			{Destination: mustIP(t, "0.0.0.0"), Mask: addr.SubnetMaskFromCIDR(0), Gateway: mustIP(t, "192.168.1.1"), Metric: 600},
		},
		"wlan0": {
			{Destination: mustIP(t, "0.0.0.0"), Mask: addr.SubnetMaskFromCIDR(0), Gateway: mustIP(t, "192.168.2.1"), Metric: 50},
		},
	})

	ifname, route, err := inv.GetDefaultRouteinfo()
	if err != nil {
		t.Fatal(err)
	}
	if ifname != "wlan0" || route.Metric != 50 {
		t.Fatalf("expected the lowest-metric default route (wlan0), got ifname=%q metric=%d", ifname, route.Metric)
	}
}

func TestGetGatewayIP(t *testing.T) {
	inv := preloaded(map[string][]RouteInfo{
		"eth0": {
			{Destination: mustIP(t, "192.168.1.0"), Mask: addr.SubnetMaskFromCIDR(24), Prefsrc: mustIP(t, "192.168.1.50")},
			{Destination: mustIP(t, "0.0.0.0"), Mask: addr.SubnetMaskFromCIDR(0), Gateway: mustIP(t, "192.168.1.1")},
		},
	})
	gw, err := inv.GetGatewayIP("eth0")
	if err != nil {
		t.Fatal(err)
	}
	if gw.String() != "192.168.1.1" {
		t.Fatalf("GetGatewayIP = %s, want 192.168.1.1", gw)
	}
}

func TestGetGatewayIPEmptyName(t *testing.T) {
	inv := preloaded(nil)
	if _, err := inv.GetGatewayIP(""); err == nil {
		t.Fatal("expected error for empty interface name")
	}
}

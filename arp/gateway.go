package arp

import (
	"fmt"

	"github.com/pol4bear/pnet/inventory"
)

// gatewayInfo composes inventory.GetGatewayIP with Resolve to produce the
// gateway's full NetInfo. This intentionally lives here rather than on
// Inventory: resolving a MAC address is an ARP concern, and the Inventory
// is kept free of it so that poisoning's "gateway MAC depends on resolve,
// which depends on the Inventory" cycle never reaches into the Inventory
// itself.
func (e *Engine) gatewayInfo(ifaceName string, timeoutSeconds int) (inventory.NetInfo, error) {
	gatewayIP, err := e.inv.GetGatewayIP(ifaceName)
	if err != nil {
		return inventory.NetInfo{}, fmt.Errorf("%w: no gateway for %s: %v", ErrInvalidArgument, ifaceName, err)
	}

	gatewayMAC, err := e.Resolve(gatewayIP, timeoutSeconds)
	if err != nil {
		return inventory.NetInfo{}, fmt.Errorf("%w: resolving gateway MAC: %v", ErrRuntime, err)
	}

	return inventory.NetInfo{MAC: gatewayMAC, IP: gatewayIP}, nil
}

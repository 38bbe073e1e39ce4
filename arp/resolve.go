package arp

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pol4bear/pnet/addr"
)

// retransmitInterval is how often resolve retransmits its request while
// waiting for a reply.
const retransmitInterval = 100 * time.Millisecond

// Resolve returns the MAC address that answers for ip, retransmitting a
// broadcast ARP request every 100ms until timeoutSeconds elapses with no
// reply. It fails with ErrInvalidArgument if there is no route to ip or ip
// is outside the resolving interface's subnet, and with ErrTimeout if no
// reply arrives in time.
func (e *Engine) Resolve(ip addr.IPv4, timeoutSeconds int) (addr.MAC, error) {
	rc, err := e.resolveRouteContext(ip)
	if err != nil {
		return addr.MAC{}, err
	}

	if rc.netinfo.IP == ip {
		return rc.netinfo.MAC, nil
	}

	if rc.netinfo.IP.And(rc.netinfo.Mask.IPv4) != ip.And(rc.netinfo.Mask.IPv4) {
		return addr.MAC{}, fmt.Errorf("%w: %s is not in %s's subnet", ErrInvalidArgument, ip, rc.ifi.Name)
	}

	conn, err := openSocket(rc.ifi)
	if err != nil {
		return addr.MAC{}, err
	}

	var zeroMAC addr.MAC
	req := MakeFrame(rc.netinfo.MAC, addr.MAC{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, OperationRequest, rc.netinfo.MAC, rc.source, zeroMAC, ip)

	var stop atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(retransmitInterval)
		defer ticker.Stop()
		for {
			if stop.Load() {
				return
			}
			if err := sendBroadcast(conn, req); err != nil {
				e.logger.Debug("resolve: retransmit failed", "target", ip, "error", err)
			}
			<-ticker.C
		}
	}()

	cleanup := func() {
		stop.Store(true)
		wg.Wait()
		conn.Close()
	}

	if timeoutSeconds <= 0 {
		timeoutSeconds = 1
	}
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	if err := conn.SetReadDeadline(deadline); err != nil {
		cleanup()
		return addr.MAC{}, fmt.Errorf("%w: setting read deadline: %v", ErrRuntime, err)
	}

	buf := make([]byte, FrameLen)
	for {
		reply, err := readFrame(conn, buf)
		if err != nil {
			if isTimeout(err) {
				cleanup()
				return addr.MAC{}, fmt.Errorf("%w: no reply from %s within %ds", ErrTimeout, ip, timeoutSeconds)
			}
			// Malformed or non-ARP frames (including our own outgoing
			// broadcast, which the socket also observes) are skipped;
			// any other read failure is a genuine runtime error.
			if err == errShortFrame || err == errNotARP {
				continue
			}
			cleanup()
			return addr.MAC{}, fmt.Errorf("%w: reading ARP frame: %v", ErrRuntime, err)
		}

		if reply.Operation != OperationReply {
			continue
		}
		if reply.SenderIP != ip || reply.TargetIP != rc.source {
			continue
		}

		mac := reply.SenderMAC
		cleanup()
		return mac, nil
	}
}

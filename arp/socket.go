package arp

import (
	"fmt"
	"net"
	"syscall"

	"github.com/caser789/ethernet"
	"github.com/caser789/raw"

	"github.com/pol4bear/pnet/addr"
)

// openSocket binds a raw link-layer socket to ifi, filtered to the ARP
// Ethertype, the way NewClient does in the teacher's client.go.
func openSocket(ifi *net.Interface) (*raw.Conn, error) {
	conn, err := raw.ListenPacket(ifi, syscall.ETH_P_ARP)
	if err != nil {
		return nil, fmt.Errorf("%w: opening raw socket on %s: %v", ErrRuntime, ifi.Name, err)
	}
	return conn, nil
}

// sendFrame marshals f and writes it to conn addressed to dst at the
// Ethernet layer.
func sendFrame(conn *raw.Conn, f *Frame, dst net.HardwareAddr) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := conn.WriteTo(b, &raw.Addr{HardwareAddr: dst}); err != nil {
		return fmt.Errorf("%w: writing ARP frame: %v", ErrRuntime, err)
	}
	return nil
}

// sendBroadcast is sendFrame addressed to the Ethernet broadcast address.
func sendBroadcast(conn *raw.Conn, f *Frame) error {
	return sendFrame(conn, f, ethernet.Broadcast)
}

// hardwareAddr renders m as a net.HardwareAddr for use with raw.Addr.
func hardwareAddr(m addr.MAC) net.HardwareAddr {
	hw := make(net.HardwareAddr, addr.MACLen)
	m.Copy(hw, true)
	return hw
}

// readFrame reads one frame from conn into buf and unmarshals it. Errors
// from conn.ReadFrom (including deadline timeouts, which callers detect via
// the net.Error interface) are returned unwrapped so callers can distinguish
// timeout from other I/O failures; decode failures (non-ARP Ethertype,
// short read) are returned as-is from Frame.UnmarshalBinary.
func readFrame(conn *raw.Conn, buf []byte) (*Frame, error) {
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		return nil, err
	}
	f := new(Frame)
	if err := f.UnmarshalBinary(buf[:n]); err != nil {
		return nil, err
	}
	return f, nil
}

// isTimeout reports whether err is a deadline-exceeded error from the raw
// socket, as opposed to a genuine I/O failure.
func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

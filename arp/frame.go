package arp

import (
	"encoding/binary"
	"fmt"

	"github.com/caser789/ethernet"

	"github.com/pol4bear/pnet/addr"
)

// FrameLen is the size in bytes of a wire-format Ethernet+ARP frame: a
// 14-byte Ethernet header followed by a 28-byte ARP header for IPv4 over
// Ethernet, packed with no padding.
const FrameLen = 14 + 28

// Operation is an ARP operation code.
type Operation uint16

// Operation constants as defined by RFC 826.
const (
	OperationRequest Operation = 1
	OperationReply   Operation = 2
)

const (
	hardwareTypeEthernet uint16 = 1
	protocolTypeIPv4     uint16 = 0x0800
)

// errShortFrame is returned when a buffer is too small or too large to
// be a wire-format ARP frame.
var errShortFrame = fmt.Errorf("%w: frame must be exactly %d bytes", ErrInvalidArgument, FrameLen)

// errNotARP is returned when a frame's Ethertype is not ARP.
var errNotARP = fmt.Errorf("%w: not an ARP frame", ErrInvalidArgument)

// Frame is a complete wire-format Ethernet+ARP frame: destination and
// source hardware addresses at the Ethernet layer, and the ARP operation,
// sender, and target fields at the ARP layer. MarshalBinary always
// produces exactly FrameLen bytes, matching the packed 42-byte layout
// specified for the wire — unlike the general-purpose ethernet.Frame,
// which pads short payloads up to the Ethernet minimum.
type Frame struct {
	DestMAC   addr.MAC
	SrcMAC    addr.MAC
	Operation Operation
	SenderMAC addr.MAC
	SenderIP  addr.IPv4
	TargetMAC addr.MAC
	TargetIP  addr.IPv4
}

// MakeFrame builds an ARP frame with Ethertype 0x0806, hardware type 1
// (Ethernet), protocol type 0x0800 (IPv4), hlen 6, plen 4, and the given
// operation and addresses. It performs no I/O and has no failure mode; the
// hlen/plen/htype/ptype fields are fixed by the wire format this package
// supports and are not exposed as parameters.
func MakeFrame(srcMAC, dstMAC addr.MAC, op Operation, senderMAC addr.MAC, senderIP addr.IPv4, targetMAC addr.MAC, targetIP addr.IPv4) *Frame {
	return &Frame{
		DestMAC:   dstMAC,
		SrcMAC:    srcMAC,
		Operation: op,
		SenderMAC: senderMAC,
		SenderIP:  senderIP,
		TargetMAC: targetMAC,
		TargetIP:  targetIP,
	}
}

// MarshalBinary encodes the frame into its exact 42-byte wire form.
func (f *Frame) MarshalBinary() ([]byte, error) {
	b := make([]byte, FrameLen)

	f.DestMAC.Copy(b[0:6], true)
	f.SrcMAC.Copy(b[6:12], true)
	binary.BigEndian.PutUint16(b[12:14], uint16(ethernet.EtherTypeARP))

	binary.BigEndian.PutUint16(b[14:16], hardwareTypeEthernet)
	binary.BigEndian.PutUint16(b[16:18], protocolTypeIPv4)
	b[18] = addr.MACLen
	b[19] = addr.IPv4Len
	binary.BigEndian.PutUint16(b[20:22], uint16(f.Operation))
	f.SenderMAC.Copy(b[22:28], true)
	f.SenderIP.Copy(b[28:32], true)
	f.TargetMAC.Copy(b[32:38], true)
	f.TargetIP.Copy(b[38:42], true)

	return b, nil
}

// UnmarshalBinary decodes a wire-format frame, rejecting anything that is
// not exactly FrameLen bytes or does not carry the ARP Ethertype.
func (f *Frame) UnmarshalBinary(b []byte) error {
	if len(b) != FrameLen {
		return errShortFrame
	}
	if binary.BigEndian.Uint16(b[12:14]) != uint16(ethernet.EtherTypeARP) {
		return errNotARP
	}

	var err error
	if f.DestMAC, err = addr.NewMAC(b[0:6], true); err != nil {
		return err
	}
	if f.SrcMAC, err = addr.NewMAC(b[6:12], true); err != nil {
		return err
	}
	f.Operation = Operation(binary.BigEndian.Uint16(b[20:22]))
	if f.SenderMAC, err = addr.NewMAC(b[22:28], true); err != nil {
		return err
	}
	f.SenderIP = addr.NewIPv4(binary.NativeEndian.Uint32(b[28:32]), true)
	if f.TargetMAC, err = addr.NewMAC(b[32:38], true); err != nil {
		return err
	}
	f.TargetIP = addr.NewIPv4(binary.NativeEndian.Uint32(b[38:42]), true)
	return nil
}

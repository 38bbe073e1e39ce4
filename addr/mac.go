// Package addr provides the host/network-order address primitives shared by
// the inventory and ARP engine: 48-bit MAC addresses, 32-bit IPv4 addresses,
// and subnet masks.
package addr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidMAC is returned when a MAC address cannot be constructed from
// the given input.
var ErrInvalidMAC = errors.New("invalid MAC address")

// MACLen is the size in bytes of a MAC address on the wire and in memory.
const MACLen = 6

// MAC is a 48-bit Ethernet hardware address. The zero value is
// 00:00:00:00:00:00. Internally the address is stored big-endian (wire
// order); toHostByteOrder/toNetworkByteOrder are no-ops on big-endian hosts
// and byte-swap on little-endian ones.
type MAC [MACLen]byte

// NewMAC builds a MAC from a 6-byte buffer. If network is true, the buffer
// is assumed to already be in wire order; otherwise it is byte-swapped to
// wire order first.
func NewMAC(buf []byte, network bool) (MAC, error) {
	var m MAC
	if len(buf) != MACLen {
		return m, ErrInvalidMAC
	}
	copy(m[:], buf)
	if !network {
		m.toNetworkByteOrder()
	}
	return m, nil
}

// MACFromUint64 builds a MAC from the low 48 bits of v, interpreted in host
// byte order.
func MACFromUint64(v uint64) MAC {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	var m MAC
	copy(m[:], buf[2:8])
	return m
}

// ParseMAC parses a colon- or hyphen-separated hex MAC address such as
// "AA:BB:CC:DD:EE:FF" or "AA-BB-CC-DD-EE-FF", case-insensitively.
func ParseMAC(s string) (MAC, error) {
	var m MAC
	stripped := strings.NewReplacer(":", "", "-", "").Replace(s)
	if len(stripped) != MACLen*2 {
		return m, fmt.Errorf("%w: %q", ErrInvalidMAC, s)
	}
	v, err := strconv.ParseUint(stripped, 16, 64)
	if err != nil {
		return m, fmt.Errorf("%w: %q", ErrInvalidMAC, s)
	}
	return MACFromUint64(v), nil
}

// String renders the MAC in canonical uppercase colon form.
func (m MAC) String() string {
	var b strings.Builder
	b.Grow(17)
	for i := 0; i < MACLen; i++ {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%02X", m.byteAt(i))
	}
	return b.String()
}

// Uint64 returns the low 48 bits of the address as a plain integer, with
// the first wire byte as the most significant: ParseMAC("AA:BB:CC:DD:EE:FF")
// yields Uint64() == 0xAABBCCDDEEFF.
func (m MAC) Uint64() uint64 {
	var buf [8]byte
	copy(buf[2:], m[:])
	return binary.BigEndian.Uint64(buf[:])
}

// byteAt returns the i'th byte of the address in big-endian (wire) order,
// regardless of host endianness — the in-memory representation is always
// wire order, see the type doc comment.
func (m MAC) byteAt(i int) byte {
	if i < 0 || i > 5 {
		return 0
	}
	return m[i]
}

// Add returns m + n, wrapping modulo 2^48, treating the address as a
// big-endian 48-bit integer.
func (m MAC) Add(n int64) MAC {
	v := m.Uint64()
	v = uint64(int64(v)+n) & 0xFFFFFFFFFFFF
	return MACFromUint64(v)
}

// Inc returns m + 1 (pre-increment semantics for range iteration).
func (m MAC) Inc() MAC {
	return m.Add(1)
}

// Copy writes the address into dest, which must be at least MACLen bytes.
// If network is true, the copy is in wire (network) byte order — the single
// explicit serialization boundary per the byte-order contract. If network
// is false, the copy is in host byte order: the same bytes on big-endian
// hosts, reversed on little-endian ones — symmetric with IPv4.Copy.
func (m MAC) Copy(dest []byte, network bool) {
	if len(dest) < MACLen {
		return
	}
	if network {
		copy(dest, m[:])
		return
	}
	h := m
	h.toHostByteOrder()
	copy(dest, h[:])
}

// toHostByteOrder converts a wire-order MAC to host order: a no-op on
// big-endian hosts, a byte-swap on little-endian ones.
func (m *MAC) toHostByteOrder() {
	if isLittleEndian {
		reverse6(m)
	}
}

// toNetworkByteOrder converts a host-order MAC to wire order.
func (m *MAC) toNetworkByteOrder() {
	if isLittleEndian {
		reverse6(m)
	}
}

func reverse6(m *MAC) {
	for i, j := 0, MACLen-1; i < j; i, j = i+1, j-1 {
		m[i], m[j] = m[j], m[i]
	}
}

var isLittleEndian = func() bool {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 1)
	return buf[0] == 1
}()

package addr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidIPv4 is returned when an IPv4 address cannot be parsed or
// constructed from the given input.
var ErrInvalidIPv4 = errors.New("invalid IPv4 address")

// IPv4Len is the size in bytes of an IPv4 address on the wire.
const IPv4Len = 4

// IPv4 is a 32-bit IPv4 address, stored as a host-order integer. Copy is
// the single explicit boundary where network byte order is emitted.
type IPv4 uint32

// NewIPv4 builds an IPv4 from a 32-bit integer. If network is true, v is
// assumed to be a native-endian load of wire bytes (ntohl's usual input)
// and is byte-swapped to host order on little-endian hosts; it is a no-op
// on big-endian hosts, matching IPv4Addr::to_host_byte_order.
func NewIPv4(v uint32, network bool) IPv4 {
	if network && isLittleEndian {
		v = swap32(v)
	}
	return IPv4(v)
}

// ParseIPv4 parses a dotted-decimal string such as "192.168.0.1". The
// input must be 7-15 characters, have exactly four
// dot-separated tokens, and each token must be an integer in [0, 255].
func ParseIPv4(s string) (IPv4, error) {
	if len(s) < 7 || len(s) > 15 {
		return 0, fmt.Errorf("%w: %q: length must be between 7 and 15 characters", ErrInvalidIPv4, s)
	}

	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("%w: %q: expected four dot-separated tokens", ErrInvalidIPv4, s)
	}

	var v uint32
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return 0, fmt.Errorf("%w: %q: token %q out of range", ErrInvalidIPv4, s, p)
		}
		v = v<<8 | uint32(n)
	}
	return IPv4(v), nil
}

// String renders the address in dotted-decimal form.
func (ip IPv4) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", ip.byteAt(0), ip.byteAt(1), ip.byteAt(2), ip.byteAt(3))
}

// Uint32 returns the address as a host-order 32-bit integer.
func (ip IPv4) Uint32() uint32 {
	return uint32(ip)
}

// byteAt returns the i'th byte of the address in big-endian order.
func (ip IPv4) byteAt(i int) byte {
	if i < 0 || i > 3 {
		return 0
	}
	return byte(uint32(ip) >> uint(24-i*8))
}

// Add returns ip + n using unsigned 32-bit wraparound addition.
func (ip IPv4) Add(n int64) IPv4 {
	return IPv4(uint32(int64(uint32(ip)) + n))
}

// Inc returns ip + 1.
func (ip IPv4) Inc() IPv4 {
	return ip.Add(1)
}

// And returns the bitwise AND of ip and mask — used for network/destination
// matching.
func (ip IPv4) And(mask IPv4) IPv4 {
	return ip & mask
}

// Or returns the bitwise OR of ip and mask.
func (ip IPv4) Or(mask IPv4) IPv4 {
	return ip | mask
}

// Copy writes the address into dest, which must be at least IPv4Len bytes.
// This is the single explicit serialization boundary: with network=false
// dest receives a native-endian memory copy of the integer; with
// network=true it is additionally byte-swapped on little-endian hosts
// (a no-op on big-endian ones) before the native-endian write, so the
// resulting bytes are always big-endian on the wire — matching
// IPv4Addr::copy(dest, network) in the original implementation.
func (ip IPv4) Copy(dest []byte, network bool) {
	if len(dest) < IPv4Len {
		return
	}
	v := uint32(ip)
	if network && isLittleEndian {
		v = swap32(v)
	}
	binary.NativeEndian.PutUint32(dest, v)
}

// swap32 reverses the byte pattern of v, independent of host endianness.
func swap32(v uint32) uint32 {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	buf[0], buf[1], buf[2], buf[3] = buf[3], buf[2], buf[1], buf[0]
	return binary.BigEndian.Uint32(buf[:])
}

package arp

import (
	"bytes"
	"testing"

	"github.com/pol4bear/pnet/addr"
)

func mustMAC(t *testing.T, s string) addr.MAC {
	t.Helper()
	m, err := addr.ParseMAC(s)
	if err != nil {
		t.Fatalf("ParseMAC(%q): %v", s, err)
	}
	return m
}

func mustIP(t *testing.T, s string) addr.IPv4 {
	t.Helper()
	ip, err := addr.ParseIPv4(s)
	if err != nil {
		t.Fatalf("ParseIPv4(%q): %v", s, err)
	}
	return ip
}

func TestMakeFrameWireLayout(t *testing.T) {
	m1 := mustMAC(t, "00:11:22:33:44:55")
	m2 := mustMAC(t, "AA:AA:AA:AA:AA:AA")
	m3 := mustMAC(t, "BB:BB:BB:BB:BB:BB")
	m4 := mustMAC(t, "CC:CC:CC:CC:CC:CC")

	f := MakeFrame(m1, m2, OperationReply, m3, mustIP(t, "1.2.3.4"), m4, mustIP(t, "5.6.7.8"))
	b, err := f.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != FrameLen {
		t.Fatalf("MarshalBinary produced %d bytes, want %d", len(b), FrameLen)
	}

	var tests = []struct {
		desc string
		off  int
		want []byte
	}{
		{desc: "ethertype", off: 12, want: []byte{0x08, 0x06}},
		{desc: "htype", off: 14, want: []byte{0x00, 0x01}},
		{desc: "ptype", off: 16, want: []byte{0x08, 0x00}},
		{desc: "hlen", off: 18, want: []byte{0x06}},
		{desc: "plen", off: 19, want: []byte{0x04}},
		{desc: "sender ip", off: 28, want: []byte{1, 2, 3, 4}},
		{desc: "target ip", off: 38, want: []byte{5, 6, 7, 8}},
	}
	for i, tt := range tests {
		got := b[tt.off : tt.off+len(tt.want)]
		if !bytes.Equal(got, tt.want) {
			t.Fatalf("[%02d] test %q, bytes[%d:%d] = % x, want % x", i, tt.desc, tt.off, tt.off+len(tt.want), got, tt.want)
		}
	}
}

func TestFrameRoundTrip(t *testing.T) {
	f := MakeFrame(
		mustMAC(t, "00:11:22:33:44:55"),
		mustMAC(t, "AA:AA:AA:AA:AA:AA"),
		OperationRequest,
		mustMAC(t, "BB:BB:BB:BB:BB:BB"),
		mustIP(t, "192.168.1.1"),
		mustMAC(t, "CC:CC:CC:CC:CC:CC"),
		mustIP(t, "192.168.1.2"),
	)
	b, err := f.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	var got Frame
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatal(err)
	}
	if got.Operation != f.Operation {
		t.Fatalf("Operation = %v, want %v", got.Operation, f.Operation)
	}
	if got.SenderIP != f.SenderIP || got.TargetIP != f.TargetIP {
		t.Fatalf("IP round trip mismatch: sender=%s/%s target=%s/%s", got.SenderIP, f.SenderIP, got.TargetIP, f.TargetIP)
	}
	if got.SenderMAC != f.SenderMAC || got.TargetMAC != f.TargetMAC {
		t.Fatalf("MAC round trip mismatch: sender=%s/%s target=%s/%s", got.SenderMAC, f.SenderMAC, got.TargetMAC, f.TargetMAC)
	}
}

func TestUnmarshalBinaryRejectsWrongLength(t *testing.T) {
	var f Frame
	if err := f.UnmarshalBinary(make([]byte, FrameLen-1)); err == nil {
		t.Fatal("expected error for short buffer")
	}
	if err := f.UnmarshalBinary(make([]byte, FrameLen+1)); err == nil {
		t.Fatal("expected error for long buffer")
	}
}

func TestUnmarshalBinaryRejectsNonARP(t *testing.T) {
	b := make([]byte, FrameLen)
	b[12], b[13] = 0x08, 0x00 // IPv4 ethertype, not ARP
	var f Frame
	if err := f.UnmarshalBinary(b); err == nil {
		t.Fatal("expected error for non-ARP ethertype")
	}
}

package addr

import "testing"

func TestParseMAC(t *testing.T) {
	var tests = []struct {
		desc string
		in   string
		want uint64
		err  bool
	}{
		{desc: "colon form", in: "AA:BB:CC:DD:EE:FF", want: 0xAABBCCDDEEFF},
		{desc: "hyphen form", in: "AA-BB-CC-DD-EE-FF", want: 0xAABBCCDDEEFF},
		{desc: "lowercase", in: "aa:bb:cc:dd:ee:ff", want: 0xAABBCCDDEEFF},
		{desc: "too short", in: "AA:BB:CC:DD:EE", err: true},
		{desc: "too long", in: "AA:BB:CC:DD:EE:FF:00", err: true},
		{desc: "bad hex", in: "ZZ:BB:CC:DD:EE:FF", err: true},
		{desc: "trailing garbage", in: "AA:BB:CC:DD:EE:FGX", err: true},
	}

	for i, tt := range tests {
		m, err := ParseMAC(tt.in)
		if tt.err {
			if err == nil {
				t.Fatalf("[%02d] %q: expected error, got none", i, tt.desc)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[%02d] %q: unexpected error: %v", i, tt.desc, err)
		}
		if got := m.Uint64(); got != tt.want {
			t.Fatalf("[%02d] %q: Uint64() = %#x, want %#x", i, tt.desc, got, tt.want)
		}
	}
}

func TestMACRoundTrip(t *testing.T) {
	var tests = []string{
		"AA:BB:CC:DD:EE:FF",
		"00:00:00:00:00:00",
		"FF:FF:FF:FF:FF:FF",
		"01:23:45:67:89:AB",
	}
	for _, s := range tests {
		m, err := ParseMAC(s)
		if err != nil {
			t.Fatalf("ParseMAC(%q): %v", s, err)
		}
		if got := m.String(); got != s {
			t.Fatalf("round trip: ParseMAC(%q).String() = %q", s, got)
		}
	}
}

func TestMACAdd(t *testing.T) {
	m, err := ParseMAC("AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatal(err)
	}
	got := m.Add(10)
	want := "AA:BB:CC:DD:EF:09"
	if got.String() != want {
		t.Fatalf("Add(10) = %s, want %s", got, want)
	}
}

func TestMACAddWraps(t *testing.T) {
	m, err := ParseMAC("FF:FF:FF:FF:FF:FF")
	if err != nil {
		t.Fatal(err)
	}
	got := m.Add(1)
	want := "00:00:00:00:00:00"
	if got.String() != want {
		t.Fatalf("Add(1) on max MAC = %s, want %s", got, want)
	}
}

func TestMACCopy(t *testing.T) {
	m, err := ParseMAC("AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatal(err)
	}
	var buf [6]byte
	m.Copy(buf[:], true)
	want := [6]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	if buf != want {
		t.Fatalf("Copy(network=true) = %x, want %x", buf, want)
	}
}

func TestNewMACInvalidLength(t *testing.T) {
	if _, err := NewMAC([]byte{1, 2, 3}, true); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

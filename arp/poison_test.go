package arp

import "testing"

func TestBuildPoisonFrames(t *testing.T) {
	ourMAC := mustMAC(t, "00:11:22:33:44:55")
	gatewayMAC := mustMAC(t, "AA:AA:AA:AA:AA:AA")
	gatewayIP := mustIP(t, "192.168.1.1")
	victimMAC := mustMAC(t, "BB:BB:BB:BB:BB:BB")
	victimIP := mustIP(t, "192.168.1.50")

	forged, recovery := buildPoisonFrames(ourMAC, gatewayMAC, gatewayIP, victimMAC, victimIP)

	if forged.SrcMAC != ourMAC || forged.DestMAC != victimMAC {
		t.Fatalf("forged frame Ethernet addressing = src %s dst %s, want src %s dst %s", forged.SrcMAC, forged.DestMAC, ourMAC, victimMAC)
	}
	if forged.SenderMAC != ourMAC || forged.SenderIP != gatewayIP {
		t.Fatalf("forged frame sender = %s/%s, want %s/%s", forged.SenderMAC, forged.SenderIP, ourMAC, gatewayIP)
	}
	if forged.TargetMAC != victimMAC || forged.TargetIP != victimIP {
		t.Fatalf("forged frame target = %s/%s, want %s/%s", forged.TargetMAC, forged.TargetIP, victimMAC, victimIP)
	}
	if forged.Operation != OperationReply {
		t.Fatalf("forged frame operation = %v, want Reply", forged.Operation)
	}

	if recovery.SrcMAC != gatewayMAC || recovery.DestMAC != victimMAC {
		t.Fatalf("recovery frame Ethernet addressing = src %s dst %s, want src %s dst %s", recovery.SrcMAC, recovery.DestMAC, gatewayMAC, victimMAC)
	}
	if recovery.SenderMAC != gatewayMAC || recovery.SenderIP != gatewayIP {
		t.Fatalf("recovery frame sender = %s/%s, want %s/%s", recovery.SenderMAC, recovery.SenderIP, gatewayMAC, gatewayIP)
	}
	if recovery.TargetMAC != victimMAC || recovery.TargetIP != victimIP {
		t.Fatalf("recovery frame target = %s/%s, want %s/%s", recovery.TargetMAC, recovery.TargetIP, victimMAC, victimIP)
	}
}

func TestPoisonStateOrdering(t *testing.T) {
	var tests = []struct {
		state PoisonState
		want  string
	}{
		{PoisonInit, "INIT"},
		{PoisonActive, "ACTIVE"},
		{PoisonRecovering, "RECOVERING"},
		{PoisonDone, "DONE"},
	}
	for i, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Fatalf("[%02d] PoisonState(%d).String() = %q, want %q", i, tt.state, got, tt.want)
		}
	}
	if !(PoisonInit < PoisonActive && PoisonActive < PoisonRecovering && PoisonRecovering < PoisonDone) {
		t.Fatal("PoisonState constants must be strictly increasing to model forward-only transitions")
	}
}

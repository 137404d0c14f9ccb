package stageplot

import "testing"

func Test_PairingSession_startRequiresPairableType(t *testing.T) {
	ps := NewPairingSession()

	if err := ps.Start(Item{ID: "g1", IconType: IconGuitar}); err != ErrNotPairable {
		t.Errorf("Start(guitar) err = %v; want ErrNotPairable", err)
	}
	if ps.State() != PairingIdle {
		t.Errorf("state = %v; want PairingIdle", ps.State())
	}

	if err := ps.Start(Item{ID: "w1", IconType: IconMonitorWedge}); err != nil {
		t.Fatalf("Start(wedge) failed: %v", err)
	}
	if ps.State() != PairingAwaitingPartner {
		t.Errorf("state = %v; want PairingAwaitingPartner", ps.State())
	}
	if src, ok := ps.SourceID(); !ok || src != "w1" {
		t.Errorf("SourceID() = (%q, %v); want (w1, true)", src, ok)
	}
}

func Test_PairingSession_clickTargetCompletesPair(t *testing.T) {
	ps := NewPairingSession()
	if err := ps.Start(Item{ID: "w1", IconType: IconMonitorWedge}); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	src, tgt, done := ps.ClickItem(Item{ID: "w2", IconType: IconMonitorWedge})
	if !done {
		t.Fatal("ClickItem(w2) not done; want pair completion")
	}
	if src != "w1" || tgt != "w2" {
		t.Errorf("pair = (%s, %s); want (w1, w2)", src, tgt)
	}
	if ps.State() != PairingIdle {
		t.Errorf("state after completion = %v; want PairingIdle", ps.State())
	}
}

func Test_PairingSession_clickSourceKeepsAwaiting(t *testing.T) {
	ps := NewPairingSession()
	source := Item{ID: "w1", IconType: IconMonitorWedge}
	if err := ps.Start(source); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if _, _, done := ps.ClickItem(source); done {
		t.Error("ClickItem(source) completed the pair; want no-op")
	}
	if ps.State() != PairingAwaitingPartner {
		t.Errorf("state = %v; want PairingAwaitingPartner", ps.State())
	}
}

func Test_PairingSession_clickWhileIdleIsNoop(t *testing.T) {
	ps := NewPairingSession()
	if _, _, done := ps.ClickItem(Item{ID: "w2", IconType: IconMonitorWedge}); done {
		t.Error("ClickItem() while idle completed a pair")
	}
}

func Test_PairingSession_cancel(t *testing.T) {
	ps := NewPairingSession()
	if err := ps.Start(Item{ID: "iem1", IconType: IconIEM}); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	ps.Cancel()
	if ps.State() != PairingIdle {
		t.Errorf("state = %v; want PairingIdle", ps.State())
	}
	if _, ok := ps.SourceID(); ok {
		t.Error("SourceID() still set after Cancel()")
	}
}

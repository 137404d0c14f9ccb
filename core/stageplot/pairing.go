package stageplot

import "github.com/pkg/errors"

var (
	ErrNotPairable   = errors.New("item cannot be paired")
	ErrPairWithSelf  = errors.New("item cannot be paired with itself")
	ErrCrossDocument = errors.New("items belong to different documents")
	ErrNotPaired     = errors.New("item is not paired")
)

// PairingState is the mode of a pairing interaction.
type PairingState int

const (
	// PairingIdle: no pairing in progress.
	PairingIdle PairingState = iota
	// PairingAwaitingPartner: a source item is selected; the next eligible
	// click completes the pair.
	PairingAwaitingPartner
)

// PairingSession is the two-step "select source, click target" interaction.
// It holds no persistent state; completing a session yields the pair to
// write, which the caller persists via Service.Pair.
//
// There is no timeout: a session stays in PairingAwaitingPartner until a
// valid target is clicked or Cancel is called. Abandoning it is harmless
// since nothing is written before completion.
type PairingSession struct {
	state    PairingState
	sourceID string
}

func NewPairingSession() *PairingSession {
	return &PairingSession{state: PairingIdle}
}

func (ps *PairingSession) State() PairingState { return ps.state }

// SourceID returns the awaiting source item id, if any.
func (ps *PairingSession) SourceID() (string, bool) {
	return ps.sourceID, ps.state == PairingAwaitingPartner
}

// Start enters PairingAwaitingPartner for the given source item.
// Only pairable icon types (wedges, IEM packs) can start a session.
func (ps *PairingSession) Start(source Item) error {
	if !source.IsPairable() {
		return ErrNotPairable
	}
	ps.state = PairingAwaitingPartner
	ps.sourceID = source.ID
	return nil
}

// ClickItem feeds a canvas click into the session. When the session is
// awaiting a partner and the clicked item is an eligible target, it returns
// the (source, target) pair to persist and resets to PairingIdle.
// Clicking the source item again is a no-op that keeps the session open.
func (ps *PairingSession) ClickItem(target Item) (sourceID, targetID string, done bool) {
	if ps.state != PairingAwaitingPartner {
		return "", "", false
	}
	if target.ID == ps.sourceID {
		return "", "", false
	}
	if !target.IsPairable() {
		return "", "", false
	}
	sourceID = ps.sourceID
	ps.Cancel()
	return sourceID, target.ID, true
}

// Cancel resets the session to PairingIdle.
func (ps *PairingSession) Cancel() {
	ps.state = PairingIdle
	ps.sourceID = ""
}

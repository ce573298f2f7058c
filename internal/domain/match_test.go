package domain

import (
	"errors"
	"testing"
)

func TestNewMatch(t *testing.T) {
	m := NewMatch(1, 0)
	if m.Target != DefaultTargetScore {
		t.Errorf("target: got %d, want %d", m.Target, DefaultTargetScore)
	}
	if m.RoundNumber != 1 || m.Round == nil || m.Round.Phase != PhaseCallPending {
		t.Fatalf("first round not dealt: %+v", m)
	}
	if m.WinnerTeam != -1 || m.Decided {
		t.Errorf("fresh match already decided: %+v", m)
	}

	if custom := NewMatch(1, 500); custom.Target != 500 {
		t.Errorf("custom target: got %d, want 500", custom.Target)
	}
}

func TestMatchSequence(t *testing.T) {
	m := NewMatch(5, 1000)
	if m.NextSeq != 0 {
		t.Fatalf("fresh sequence: got %d, want 0", m.NextSeq)
	}

	// Rejected actions must not consume a sequence position.
	if _, err := m.SubmitTichu(0); !errors.Is(err, ErrCallNotAllowed) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if m.NextSeq != 0 {
		t.Errorf("sequence moved on a rejection: %d", m.NextSeq)
	}

	if _, err := m.SubmitGrandDecision(0, false); err != nil {
		t.Fatalf("grand decision: %v", err)
	}
	if m.NextSeq != 1 {
		t.Errorf("sequence: got %d, want 1", m.NextSeq)
	}

	if _, err := m.SubmitGrandDecision(-1, false); !errors.Is(err, ErrOutOfTurn) {
		t.Errorf("bad seat: got %v", err)
	}
}

func TestAdvanceRound(t *testing.T) {
	m := NewMatch(9, 1000)

	if _, err := m.AdvanceRound(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("advance before scoring: got %v", err)
	}

	m.Round.Phase = PhaseScoring
	m.Round.Result = &RoundResult{TeamDelta: [2]int{105, -5}}
	res, err := m.AdvanceRound()
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if res.TeamDelta != [2]int{105, -5} {
		t.Errorf("result passthrough: %v", res.TeamDelta)
	}
	if m.Scores != [2]int{105, -5} {
		t.Errorf("scores: got %v, want [105 -5]", m.Scores)
	}
	if m.RoundNumber != 2 || m.Round.Phase != PhaseCallPending {
		t.Errorf("next round not dealt: round %d, phase %v", m.RoundNumber, m.Round.Phase)
	}
	if m.Decided {
		t.Error("match decided too early")
	}
}

func TestMatchDecided(t *testing.T) {
	m := NewMatch(9, 1000)
	m.Round.Phase = PhaseScoring
	m.Round.Result = &RoundResult{TeamDelta: [2]int{1005, 400}}

	if _, err := m.AdvanceRound(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if !m.Decided || m.WinnerTeam != 0 {
		t.Fatalf("match not decided: %+v", m)
	}
	if m.Round.Phase != PhaseDone {
		t.Errorf("final round phase: got %v, want %v", m.Round.Phase, PhaseDone)
	}

	if _, err := m.SubmitPass(0); !errors.Is(err, ErrMatchAlreadyDecided) {
		t.Errorf("action after decision: got %v", err)
	}
	if _, err := m.AdvanceRound(); !errors.Is(err, ErrMatchAlreadyDecided) {
		t.Errorf("advance after decision: got %v", err)
	}
}

func TestMatchTieAtTarget(t *testing.T) {
	m := NewMatch(9, 1000)
	m.Round.Phase = PhaseScoring
	m.Round.Result = &RoundResult{TeamDelta: [2]int{1000, 1000}}

	if _, err := m.AdvanceRound(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if m.Decided {
		t.Fatal("tie at the target must play another round")
	}
	if m.RoundNumber != 2 {
		t.Errorf("round number: got %d, want 2", m.RoundNumber)
	}

	m.Round.Phase = PhaseScoring
	m.Round.Result = &RoundResult{TeamDelta: [2]int{0, 5}}
	if _, err := m.AdvanceRound(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if !m.Decided || m.WinnerTeam != 1 {
		t.Errorf("tie-break round: decided %v, winner %d", m.Decided, m.WinnerTeam)
	}
}

func TestTeamOf(t *testing.T) {
	if TeamOf(0) != 0 || TeamOf(2) != 0 || TeamOf(1) != 1 || TeamOf(3) != 1 {
		t.Error("teams must pair opposite seats")
	}
	if PartnerOf(0) != 2 || PartnerOf(1) != 3 || PartnerOf(2) != 0 || PartnerOf(3) != 1 {
		t.Error("partners must sit across")
	}
}

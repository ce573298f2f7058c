package app

import (
	"errors"
	"math/rand"
	"testing"

	"tichu/internal/domain"
)

func TestStartMatchDealsGrandPortion(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(42)))

	m, evs := svc.StartMatch(0)
	if m.Target != domain.DefaultTargetScore {
		t.Fatalf("target = %d, want %d", m.Target, domain.DefaultTargetScore)
	}
	if m.Round.Phase != domain.PhaseCallPending {
		t.Fatalf("phase = %s, want call_pending", m.Round.Phase)
	}

	handEvents := 0
	for _, ev := range evs {
		if ev.Kind != EventHandDealt {
			continue
		}
		handEvents++
		payload := ev.Payload.(HandDealtPayload)
		if len(payload.Cards) != domain.GrandDealSize {
			t.Fatalf("grand hand size = %d, want %d", len(payload.Cards), domain.GrandDealSize)
		}
		if len(ev.Seats) != 1 || ev.Seats[0] != payload.Seat {
			t.Fatalf("hand event for seat %d not private", payload.Seat)
		}
	}
	if handEvents != 4 {
		t.Fatalf("hand events = %d, want 4", handEvents)
	}
}

func TestGrandDecisionsCompleteTheDeal(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	m, _ := svc.StartMatch(0)

	for seat := 0; seat < 3; seat++ {
		evs, err := svc.SubmitGrandDecision(m, seat, m.NextSeq, false)
		if err != nil {
			t.Fatalf("seat %d decline error: %v", seat, err)
		}
		if len(evs) != 1 || evs[0].Kind != EventCallMade {
			t.Fatalf("seat %d events = %+v, want one call_made", seat, evs)
		}
	}

	evs, err := svc.SubmitGrandDecision(m, 3, m.NextSeq, true)
	if err != nil {
		t.Fatalf("seat 3 grand error: %v", err)
	}
	if m.Round.Phase != domain.PhaseExchange {
		t.Fatalf("phase = %s, want exchange", m.Round.Phase)
	}
	if got := evs[0].Payload.(CallMadePayload).Call; got != domain.CallGrandTichu {
		t.Fatalf("call = %v, want grand tichu", got)
	}

	fullHands := 0
	for _, ev := range evs[1:] {
		if ev.Kind == EventHandDealt {
			fullHands++
			if n := len(ev.Payload.(HandDealtPayload).Cards); n != domain.HandSize {
				t.Fatalf("full hand size = %d, want %d", n, domain.HandSize)
			}
		}
	}
	if fullHands != 4 {
		t.Fatalf("full hand events = %d, want 4", fullHands)
	}
}

func TestExchangeRevealEmitsReceivedCardsAndFirstLeader(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(11)))
	m, _ := svc.StartMatch(0)
	for seat := 0; seat < 4; seat++ {
		if _, err := svc.SubmitGrandDecision(m, seat, m.NextSeq, false); err != nil {
			t.Fatalf("grand decision: %v", err)
		}
	}

	var last []Event
	for seat := 0; seat < 4; seat++ {
		hand := m.Round.Hands[seat]
		ex := domain.Exchange{Left: hand[0], Partner: hand[1], Right: hand[2]}
		evs, err := svc.SubmitExchange(m, seat, m.NextSeq, ex)
		if err != nil {
			t.Fatalf("seat %d exchange error: %v", seat, err)
		}
		last = evs
	}

	if m.Round.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %s, want playing", m.Round.Phase)
	}

	completed := 0
	var leader = -1
	for _, ev := range last {
		switch ev.Kind {
		case EventExchangeCompleted:
			completed++
			payload := ev.Payload.(ExchangeCompletedPayload)
			if len(payload.Received) != 3 {
				t.Fatalf("seat %d received %d cards, want 3", payload.Seat, len(payload.Received))
			}
		case EventTrickStarted:
			leader = ev.Payload.(TrickStartedPayload).Leader
		}
	}
	if completed != 4 {
		t.Fatalf("exchange_completed events = %d, want 4", completed)
	}
	if leader != m.Round.FirstLeader {
		t.Fatalf("trick leader = %d, want mahjong holder %d", leader, m.Round.FirstLeader)
	}
}

func TestStaleSequenceRejected(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(3)))
	m, _ := svc.StartMatch(0)

	seq := m.NextSeq
	if _, err := svc.SubmitGrandDecision(m, 0, seq, false); err != nil {
		t.Fatalf("first submission: %v", err)
	}
	// Identical resubmission must not double-apply.
	if _, err := svc.SubmitGrandDecision(m, 0, seq, false); !errors.Is(err, ErrStaleAction) {
		t.Fatalf("resubmission error = %v, want ErrStaleAction", err)
	}
	if m.Round.GrandDecided[1] || m.Round.GrandDecided[2] {
		t.Fatal("stale submission mutated state")
	}
}

func TestSnapshotHidesOtherHands(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(5)))
	m, _ := svc.StartMatch(500)

	snap := BuildSnapshot(m, 2)
	if snap.Target != 500 {
		t.Fatalf("target = %d, want 500", snap.Target)
	}
	if len(snap.Hand) != domain.GrandDealSize {
		t.Fatalf("own hand size = %d, want %d", len(snap.Hand), domain.GrandDealSize)
	}
	for s, sv := range snap.SeatViews {
		if sv.HandSize != domain.GrandDealSize {
			t.Fatalf("seat %d hand size = %d, want %d", s, sv.HandSize, domain.GrandDealSize)
		}
	}

	spectator := BuildSnapshot(m, -1)
	if spectator.Hand != nil {
		t.Fatal("spectator snapshot must not carry a hand")
	}
}

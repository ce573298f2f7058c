package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"tichu/internal/app"
	"tichu/internal/bot"
	"tichu/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

func init() {
	// Load bot identities for testing.
	if err := bot.LoadIdentities("test_bot_identities.json"); err != nil {
		panic("Failed to load bot identities for tests: " + err.Error())
	}
}

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// testPresence is a minimal runtime.Presence for seat bookkeeping.
type testPresence struct {
	uid      string
	username string
}

func (p testPresence) GetUserId() string                 { return p.uid }
func (p testPresence) GetSessionId() string              { return "session-" + p.uid }
func (p testPresence) GetNodeId() string                 { return "node-1" }
func (p testPresence) GetHidden() bool                   { return false }
func (p testPresence) GetPersistence() bool              { return true }
func (p testPresence) GetUsername() string               { return p.username }
func (p testPresence) GetStatus() string                 { return "" }
func (p testPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonJoin }

type sentMessage struct {
	opCode     int64
	data       []byte
	recipients []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages []sentMessage
	labels   []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.messages = append(md.messages, sentMessage{
		opCode:     opCode,
		data:       append([]byte(nil), data...),
		recipients: presences,
	})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) countOp(opCode int64) int {
	count := 0
	for _, msg := range md.messages {
		if msg.opCode == opCode {
			count++
		}
	}
	return count
}

func (md *mockDispatcher) firstOp(opCode int64) (sentMessage, bool) {
	for _, msg := range md.messages {
		if msg.opCode == opCode {
			return msg, true
		}
	}
	return sentMessage{}, false
}

func newTestState() *MatchState {
	return &MatchState{
		OwnerSeat:  -1,
		MatchID:    "match-1",
		Presences:  make(map[string]runtime.Presence),
		Spectators: make(map[string]bool),
		App:        app.NewService(rand.New(rand.NewSource(7))),
		Rejoin:     app.NewRejoinService("test-secret", time.Minute),
		Bots:       make(map[string]*bot.Agent),
		standIn:    &bot.StandardBrain{},
	}
}

func seatPresence(state *MatchState, seat int, uid string) {
	state.Seats[seat] = uid
	state.Presences[uid] = testPresence{uid: uid, username: uid}
}

func TestAssignSeat(t *testing.T) {
	handler := newMatchHandler()
	botID := bot.GetBotIdentity(0).UserID

	t.Run("LowestFreeSeatFirst", func(t *testing.T) {
		state := newTestState()
		state.Seats = [4]string{"", "user-1", "", ""}
		if got := handler.assignSeat(state, noopLogger{}, "user-2"); got != 0 {
			t.Fatalf("assignSeat() = %d, want 0", got)
		}
	})

	t.Run("DisplacesLobbyBot", func(t *testing.T) {
		state := newTestState()
		state.Seats = [4]string{"user-1", "user-2", botID, "user-3"}
		state.Bots[botID] = nil
		if got := handler.assignSeat(state, noopLogger{}, "user-4"); got != 2 {
			t.Fatalf("assignSeat() = %d, want 2", got)
		}
		if state.Seats[2] != "user-4" {
			t.Fatalf("seat 2 holds %q, want user-4", state.Seats[2])
		}
		if _, ok := state.Bots[botID]; ok {
			t.Fatalf("displaced bot still registered")
		}
	})

	t.Run("NeverDisplacesMidMatch", func(t *testing.T) {
		state := newTestState()
		state.Seats = [4]string{"user-1", "user-2", botID, "user-3"}
		state.Match = &domain.Match{}
		if got := handler.assignSeat(state, noopLogger{}, "user-4"); got != -1 {
			t.Fatalf("assignSeat() = %d, want -1", got)
		}
	})
}

func TestMatchJoinSeatsHumanAndIssuesToken(t *testing.T) {
	handler := newMatchHandler()
	dispatcher := &mockDispatcher{}
	state := newTestState()

	result := handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state,
		[]runtime.Presence{testPresence{uid: "user-1", username: "Player One"}})

	joined, ok := result.(*MatchState)
	if !ok {
		t.Fatalf("MatchJoin returned %T, want *MatchState", result)
	}
	if joined.Seats[0] != "user-1" {
		t.Fatalf("seat 0 holds %q, want user-1", joined.Seats[0])
	}
	if joined.OwnerSeat != 0 {
		t.Fatalf("OwnerSeat = %d, want 0", joined.OwnerSeat)
	}

	token, ok := dispatcher.firstOp(OpRejoinToken)
	if !ok {
		t.Fatal("expected a rejoin token message")
	}
	if len(token.recipients) != 1 || token.recipients[0].GetUserId() != "user-1" {
		t.Fatalf("rejoin token sent to %v, want only user-1", token.recipients)
	}
	var payload rejoinTokenPayload
	if err := json.Unmarshal(token.data, &payload); err != nil {
		t.Fatalf("failed to unmarshal token payload: %v", err)
	}
	if payload.Seat != 0 || payload.Token == "" {
		t.Fatalf("token payload = %+v, want seat 0 with a token", payload)
	}

	if dispatcher.countOp(OpLobbyState) == 0 {
		t.Fatal("expected a lobby state broadcast")
	}
	if len(dispatcher.labels) == 0 {
		t.Fatal("expected a label update")
	}
	var label matchLabel
	if err := json.Unmarshal([]byte(dispatcher.labels[len(dispatcher.labels)-1]), &label); err != nil {
		t.Fatalf("failed to unmarshal label: %v", err)
	}
	if label.Open != 3 || label.Phase != "lobby" || label.Game != labelGameName {
		t.Fatalf("label = %+v, want 3 open lobby seats", label)
	}
}

func TestMatchJoinAttemptRejoinToken(t *testing.T) {
	handler := newMatchHandler()
	state := newTestState()
	state.Seats[2] = "user-1"

	token, err := state.Rejoin.IssueToken(state.MatchID, "user-1", 2)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	tests := []struct {
		name     string
		presence runtime.Presence
		metadata map[string]string
		seatUID  string
		want     bool
	}{
		{
			name:     "ValidTokenAccepted",
			presence: testPresence{uid: "user-1"},
			metadata: map[string]string{"rejoin_token": token},
			seatUID:  "user-1",
			want:     true,
		},
		{
			name:     "WrongUserRejected",
			presence: testPresence{uid: "user-2"},
			metadata: map[string]string{"rejoin_token": token},
			seatUID:  "user-1",
			want:     false,
		},
		{
			name:     "SeatNoLongerHeldRejected",
			presence: testPresence{uid: "user-1"},
			metadata: map[string]string{"rejoin_token": token},
			seatUID:  "",
			want:     false,
		},
		{
			name:     "GarbageTokenRejected",
			presence: testPresence{uid: "user-1"},
			metadata: map[string]string{"rejoin_token": "not-a-token"},
			seatUID:  "user-1",
			want:     false,
		},
		{
			name:     "NoTokenIsPlainJoin",
			presence: testPresence{uid: "user-3"},
			metadata: map[string]string{},
			seatUID:  "user-1",
			want:     true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			state.Seats[2] = test.seatUID
			_, accepted, _ := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, nil, 1, state, test.presence, test.metadata)
			if accepted != test.want {
				t.Fatalf("accepted = %t, want %t", accepted, test.want)
			}
		})
	}
}

func TestStartMatchFillsBotsAndDealsPrivately(t *testing.T) {
	handler := newMatchHandler()
	dispatcher := &mockDispatcher{}
	state := newTestState()
	seatPresence(state, 0, "user-1")
	state.OwnerSeat = 0

	handler.startMatch(context.Background(), state, dispatcher, noopLogger{}, 500)

	if state.Match == nil {
		t.Fatal("expected a running match")
	}
	if state.Match.Target != 500 {
		t.Fatalf("Target = %d, want 500", state.Match.Target)
	}
	for i, uid := range state.Seats {
		if uid == "" {
			t.Fatalf("seat %d still empty after start", i)
		}
	}
	if len(state.Bots) != 3 {
		t.Fatalf("expected 3 bot agents, got %d", len(state.Bots))
	}

	if dispatcher.countOp(OpMatchStarted) != 1 {
		t.Fatal("expected one match started broadcast")
	}

	// Hands are dealt privately; bot seats have no presence, so only the
	// human's hand goes out, to the human alone.
	if got := dispatcher.countOp(OpHandDealt); got != 1 {
		t.Fatalf("hand dealt messages = %d, want 1", got)
	}
	hand, _ := dispatcher.firstOp(OpHandDealt)
	if len(hand.recipients) != 1 || hand.recipients[0].GetUserId() != "user-1" {
		t.Fatalf("hand sent to %v, want only user-1", hand.recipients)
	}
	var payload app.HandDealtPayload
	if err := json.Unmarshal(hand.data, &payload); err != nil {
		t.Fatalf("failed to unmarshal hand payload: %v", err)
	}
	if payload.Seat != 0 || len(payload.Cards) != 8 {
		t.Fatalf("hand payload seat %d with %d cards, want seat 0 with the 8-card portion", payload.Seat, len(payload.Cards))
	}
}

func TestRunTimersArmRearmAndExpire(t *testing.T) {
	handler := newMatchHandler()
	dispatcher := &mockDispatcher{}
	state := newTestState()
	seatPresence(state, 0, "user-1")
	handler.startMatch(context.Background(), state, dispatcher, noopLogger{}, 0)
	m := state.Match

	state.Tick = 100
	handler.runTimers(context.Background(), state, dispatcher, noopLogger{})
	if state.TimerKey == "" {
		t.Fatal("expected the call window timer to arm")
	}
	armed := state.DeadlineTick
	if armed <= state.Tick {
		t.Fatalf("DeadlineTick = %d, want later than tick %d", armed, state.Tick)
	}

	// An accepted action bumps the sequence, which rearms the deadline.
	if _, err := state.App.SubmitGrandDecision(m, 0, m.NextSeq, false); err != nil {
		t.Fatalf("SubmitGrandDecision: %v", err)
	}
	state.Tick = 110
	handler.runTimers(context.Background(), state, dispatcher, noopLogger{})
	if state.DeadlineTick <= armed {
		t.Fatalf("DeadlineTick = %d, want rearmed past %d", state.DeadlineTick, armed)
	}

	// Expiry auto-declines every undecided seat and the deal completes.
	state.Tick = state.DeadlineTick
	handler.runTimers(context.Background(), state, dispatcher, noopLogger{})
	if m.Round.Phase != domain.PhaseExchange {
		t.Fatalf("Phase = %q, want %q after the call window expires", m.Round.Phase, domain.PhaseExchange)
	}
	for seat := 0; seat < 4; seat++ {
		if !m.Round.GrandDecided[seat] {
			t.Fatalf("seat %d still undecided after expiry", seat)
		}
	}
}

func TestBroadcastEventNeverLeaksPrivatePayloads(t *testing.T) {
	handler := newMatchHandler()
	dispatcher := &mockDispatcher{}
	state := newTestState()
	state.Seats[1] = "user-1" // seated but not connected

	handler.broadcastEvent(state, dispatcher, noopLogger{}, app.Event{
		Kind:    app.EventHandDealt,
		Payload: app.HandDealtPayload{Seat: 1},
		Seats:   []int{1},
	})

	if len(dispatcher.messages) != 0 {
		t.Fatalf("expected no messages for a disconnected recipient, got %d", len(dispatcher.messages))
	}
}

func TestMatchLeave(t *testing.T) {
	handler := newMatchHandler()

	t.Run("LobbyLeaveFreesSeat", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		state := newTestState()
		seatPresence(state, 0, "user-1")
		state.OwnerSeat = 0

		handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 5, state,
			[]runtime.Presence{testPresence{uid: "user-1"}})

		if state.Seats[0] != "" {
			t.Fatalf("seat 0 holds %q, want it freed", state.Seats[0])
		}
		if _, ok := state.Presences["user-1"]; ok {
			t.Fatal("presence should be gone")
		}
	})

	t.Run("MidMatchLeaveKeepsSeatReserved", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		state := newTestState()
		seatPresence(state, 0, "user-1")
		state.OwnerSeat = 0
		handler.startMatch(context.Background(), state, dispatcher, noopLogger{}, 0)

		handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 5, state,
			[]runtime.Presence{testPresence{uid: "user-1"}})

		if state.Seats[0] != "user-1" {
			t.Fatalf("seat 0 holds %q, want it reserved for user-1", state.Seats[0])
		}
		if _, ok := state.Presences["user-1"]; ok {
			t.Fatal("presence should be gone")
		}
	})
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "StaleActionConflicts", err: app.ErrStaleAction, want: 409},
		{name: "DecidedMatchIsGone", err: domain.ErrMatchAlreadyDecided, want: 410},
		{name: "RuleErrorsAreBadRequests", err: errors.New("cards not in hand"), want: 400},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := errorCode(test.err); got != test.want {
				t.Fatalf("errorCode() = %d, want %d", got, test.want)
			}
		})
	}
}

package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"tichu/internal/app"
	"tichu/internal/bot"
	"tichu/internal/config"
	"tichu/internal/domain"
	"tichu/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// matchLabel is the JSON label advertised for MatchList queries.
type matchLabel struct {
	Open  int      `json:"open"`
	Game  string   `json:"game"`
	Phase string   `json:"phase"`
	Seats []string `json:"seats"`
}

const labelGameName = "tichu"

// MatchState holds the authoritative runtime state for one match.
type MatchState struct {
	Seats     [4]string // user ids; "" means the seat is free
	OwnerSeat int
	Tick      int64
	MatchID   string

	Presences  map[string]runtime.Presence
	Spectators map[string]bool

	App    *app.Service
	Match  *domain.Match // nil while in the lobby
	Rejoin *app.RejoinService

	Bots    map[string]*bot.Agent
	standIn bot.Brain // synthetic actions for timed-out or absent humans

	// ExchangeDone mirrors which seats have submitted their exchange; the
	// round keeps the cards themselves private.
	ExchangeDone [4]bool

	// Tick-based timers. TimerKey fingerprints the awaited game state so
	// the deadline rearms whenever an action lands.
	TimerKey     string
	DeadlineTick int64
	BotWaitUntil int64
	LobbyTick    int64
	EmptyTick    int64

	Results ports.ResultStore
	Ratings ports.RatingPort
}

func (ms *MatchState) openSeatCount() int {
	count := 0
	for _, uid := range ms.Seats {
		if uid == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, uid := range ms.Seats {
		if uid == userID {
			return i
		}
	}
	return -1
}

func (ms *MatchState) humanSeatCount() int {
	count := 0
	for _, uid := range ms.Seats {
		if uid != "" && !bot.IsBot(uid) {
			count++
		}
	}
	return count
}

// connectedHumanSeat returns the first seat held by a connected human, or
// -1. Owners are always connected humans.
func (ms *MatchState) connectedHumanSeat() int {
	for i, uid := range ms.Seats {
		if uid == "" || bot.IsBot(uid) {
			continue
		}
		if _, ok := ms.Presences[uid]; ok {
			return i
		}
	}
	return -1
}

func (ms *MatchState) hasConnectedHuman() bool {
	for uid := range ms.Presences {
		if !bot.IsBot(uid) {
			return true
		}
	}
	return false
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return newMatchHandler(), nil
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if path, ok := env["tichu_config_path"]; ok && path != "" {
		if err := config.LoadGameConfig(path); err != nil {
			logger.Warn("MatchInit: could not load game config: %v", err)
		}
	}
	if err := bot.LoadIdentities(config.GetBotIdentitiesPath()); err != nil {
		logger.Warn("MatchInit: could not load bot identities: %v", err)
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	state := &MatchState{
		OwnerSeat:  -1,
		MatchID:    matchID,
		Presences:  make(map[string]runtime.Presence),
		Spectators: make(map[string]bool),
		App:        app.NewService(nil),
		Rejoin:     app.NewRejoinService(config.GetRejoinSecret(), time.Duration(config.GetRejoinTTLSeconds())*time.Second),
		Bots:       make(map[string]*bot.Agent),
		standIn:    &bot.StandardBrain{},
		Results:    NewStorageResultStore(nk),
		Ratings:    NewLeaderboardRatingAdapter(nk),
	}

	labelJSON, err := json.Marshal(matchLabel{
		Open:  state.openSeatCount(),
		Game:  labelGameName,
		Phase: "lobby",
		Seats: state.Seats[:],
	})
	if err != nil {
		logger.Error("MatchInit: failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // all timers count seconds
	return state, tickRate, string(labelJSON)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if token := metadata["rejoin_token"]; token != "" {
		claims, err := matchState.Rejoin.VerifyToken(token)
		if err != nil {
			return matchState, false, "invalid rejoin token"
		}
		if claims.UserID != presence.GetUserId() || claims.MatchID != matchState.MatchID {
			return matchState, false, "rejoin token does not belong to this user and match"
		}
		if claims.Seat < 0 || claims.Seat > 3 || matchState.Seats[claims.Seat] != claims.UserID {
			return matchState, false, "seat no longer held"
		}
		return matchState, true, ""
	}

	// Everyone else gets in; seats are assigned in MatchJoin and overflow
	// becomes spectators.
	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		matchState.Presences[uid] = p

		if seat := matchState.seatOf(uid); seat >= 0 {
			// Reconnection: the seat stayed reserved for its user.
			logger.Info("MatchJoin: user %s reclaimed seat %d", uid, seat)
			mh.sendRejoinToken(matchState, dispatcher, logger, uid, seat)
			mh.sendSnapshot(matchState, dispatcher, logger, uid, seat)
			continue
		}

		seat := mh.assignSeat(matchState, logger, uid)
		if seat < 0 {
			matchState.Spectators[uid] = true
			logger.Debug("MatchJoin: user %s joined as spectator", uid)
			mh.sendSnapshot(matchState, dispatcher, logger, uid, -1)
			continue
		}

		mh.sendRejoinToken(matchState, dispatcher, logger, uid, seat)
		mh.sendSnapshot(matchState, dispatcher, logger, uid, seat)
	}

	if matchState.connectedHumanSeat() >= 0 &&
		(matchState.OwnerSeat < 0 || matchState.Seats[matchState.OwnerSeat] == "" || bot.IsBot(matchState.Seats[matchState.OwnerSeat])) {
		matchState.OwnerSeat = matchState.connectedHumanSeat()
	}
	matchState.EmptyTick = 0

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)

	return matchState
}

// assignSeat seats a joining user: lowest free seat first, then a lobby bot
// seat it can displace. Returns -1 when no seat is available.
func (mh *matchHandler) assignSeat(state *MatchState, logger runtime.Logger, uid string) int {
	for i, seatUID := range state.Seats {
		if seatUID == "" {
			state.Seats[i] = uid
			return i
		}
	}
	if state.Match == nil {
		for i, seatUID := range state.Seats {
			if bot.IsBot(seatUID) {
				logger.Info("MatchJoin: human %s displaces bot %s in seat %d", uid, seatUID, i)
				delete(state.Bots, seatUID)
				state.Seats[i] = uid
				return i
			}
		}
	}
	return -1
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		delete(matchState.Presences, uid)
		delete(matchState.Spectators, uid)

		seat := matchState.seatOf(uid)
		if seat < 0 {
			continue
		}
		if matchState.Match == nil {
			matchState.Seats[seat] = ""
			logger.Debug("MatchLeave: user %s left the lobby, seat %d freed", uid, seat)
		} else {
			// The seat stays reserved; the standard brain plays it on the
			// turn deadline until the user rejoins.
			logger.Info("MatchLeave: user %s left mid-match, seat %d plays on under stand-in", uid, seat)
		}
	}

	if owner := matchState.connectedHumanSeat(); owner != matchState.OwnerSeat {
		matchState.OwnerSeat = owner
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
	}

	if matchState.Match == nil {
		mh.runLobby(ctx, matchState, dispatcher, logger)
	} else {
		mh.runTimers(ctx, matchState, dispatcher, logger)
		if config.GetBotsEnabled() {
			mh.processBots(ctx, matchState, dispatcher, logger)
		}
	}

	if !matchState.hasConnectedHuman() {
		if matchState.EmptyTick == 0 {
			matchState.EmptyTick = tick
		} else if tick-matchState.EmptyTick >= int64(config.GetEmptyGraceSeconds()) {
			logger.Info("MatchLoop: no humans connected for %ds, terminating", config.GetEmptyGraceSeconds())
			return nil
		}
	} else {
		matchState.EmptyTick = 0
	}

	return matchState
}

func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()

	switch msg.GetOpCode() {
	case OpStartMatch:
		mh.handleStartMatch(ctx, state, dispatcher, logger, msg)
		return
	}

	seat := state.seatOf(uid)
	if seat < 0 {
		mh.sendError(state, dispatcher, logger, uid, 403, "not seated in this match")
		return
	}
	m := state.Match
	if m == nil {
		mh.sendError(state, dispatcher, logger, uid, 400, "match not started")
		return
	}

	var events []app.Event
	var err error

	switch msg.GetOpCode() {
	case OpGrandDecision:
		var req grandDecisionRequest
		if err = json.Unmarshal(msg.GetData(), &req); err == nil {
			events, err = state.App.SubmitGrandDecision(m, seat, req.Seq, req.CallGrand)
		}
	case OpCallTichu:
		var req tichuCallRequest
		if err = json.Unmarshal(msg.GetData(), &req); err == nil {
			events, err = state.App.SubmitTichu(m, seat, req.Seq)
		}
	case OpSubmitExchange:
		var req exchangeRequest
		if err = json.Unmarshal(msg.GetData(), &req); err == nil {
			ex := domain.Exchange{
				Left:    cardFromWire(req.Left),
				Partner: cardFromWire(req.Partner),
				Right:   cardFromWire(req.Right),
			}
			events, err = state.App.SubmitExchange(m, seat, req.Seq, ex)
		}
	case OpPlayCards:
		var req playCardsRequest
		if err = json.Unmarshal(msg.GetData(), &req); err == nil {
			events, err = state.App.SubmitPlay(m, seat, req.Seq, cardsFromWire(req.Cards), domain.Rank(req.Wish))
		}
	case OpPassTurn:
		var req passTurnRequest
		if err = json.Unmarshal(msg.GetData(), &req); err == nil {
			events, err = state.App.SubmitPass(m, seat, req.Seq)
		}
	case OpDragonGift:
		var req dragonGiftRequest
		if err = json.Unmarshal(msg.GetData(), &req); err == nil {
			events, err = state.App.SubmitDragonGift(m, seat, req.Seq, req.TargetSeat)
		}
	default:
		logger.Warn("MatchLoop: unknown opcode %d from %s", msg.GetOpCode(), uid)
		return
	}

	if err != nil {
		logger.Debug("MatchLoop: action from %s (seat %d) rejected: %v", uid, seat, err)
		mh.sendError(state, dispatcher, logger, uid, errorCode(err), err.Error())
		return
	}
	mh.handleEvents(ctx, state, dispatcher, logger, events)
}

// errorCode maps engine rejections onto wire codes: stale resubmissions are
// conflicts, everything rule-shaped is a bad request.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrStaleAction):
		return 409
	case errors.Is(err, domain.ErrMatchAlreadyDecided):
		return 410
	default:
		return 400
	}
}

func (mh *matchHandler) handleStartMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()
	seat := state.seatOf(uid)

	if state.Match != nil {
		mh.sendError(state, dispatcher, logger, uid, 400, "match already running")
		return
	}
	if seat != state.OwnerSeat {
		mh.sendError(state, dispatcher, logger, uid, 403, "only the owner can start the match")
		return
	}
	if state.humanSeatCount() < app.MinHumansToStart {
		mh.sendError(state, dispatcher, logger, uid, 400, "not enough players")
		return
	}

	var req startMatchRequest
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			mh.sendError(state, dispatcher, logger, uid, 400, "malformed start request")
			return
		}
	}

	mh.startMatch(ctx, state, dispatcher, logger, req.TargetScore)
}

// startMatch fills the remaining seats with bots and deals the first round.
func (mh *matchHandler) startMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, target int) {
	for i, uid := range state.Seats {
		if uid != "" {
			continue
		}
		identity := bot.GetBotIdentity(i)
		agent, err := bot.NewAgent(identity.UserID)
		if err != nil {
			logger.Error("startMatch: failed to create bot agent for %s: %v", identity.UserID, err)
			continue
		}
		state.Seats[i] = identity.UserID
		state.Bots[identity.UserID] = agent
		logger.Info("startMatch: bot %s fills seat %d", identity.DisplayName, i)
	}

	if target <= 0 {
		target = config.GetTargetScore()
	}

	m, events := state.App.StartMatch(target)
	state.Match = m
	state.ExchangeDone = [4]bool{}
	state.TimerKey = ""
	state.LobbyTick = 0

	logger.Info("startMatch: match running to %d points", m.Target)
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastLobbyState(state, dispatcher, logger)
	mh.handleEvents(ctx, state, dispatcher, logger, events)
}

// runLobby auto-starts a waited-out lobby once at least one human is seated.
func (mh *matchHandler) runLobby(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.humanSeatCount() == 0 {
		state.LobbyTick = 0
		return
	}
	if state.openSeatCount() == 0 {
		mh.startMatch(ctx, state, dispatcher, logger, 0)
		return
	}
	if state.LobbyTick == 0 {
		state.LobbyTick = state.Tick
		return
	}
	if state.Tick-state.LobbyTick >= int64(config.GetLobbyFillSeconds()) {
		logger.Info("runLobby: lobby fill window elapsed, starting with bots")
		mh.startMatch(ctx, state, dispatcher, logger, 0)
	}
}

// runTimers enforces phase deadlines. The fingerprint keys on everything a
// legal action changes, so any accepted submission rearms the clock.
func (mh *matchHandler) runTimers(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	m := state.Match
	r := m.Round

	var window int
	switch r.Phase {
	case domain.PhaseCallPending:
		window = config.GetGrandSeconds()
	case domain.PhaseExchange:
		window = config.GetExchangeSeconds()
	case domain.PhasePlaying:
		if r.PendingGiftSeat >= 0 {
			window = config.GetGiftSeconds()
		} else {
			window = config.GetTurnSeconds()
		}
	case domain.PhaseScoring:
		window = config.GetScoreboardSeconds()
	default:
		return
	}

	key := fmt.Sprintf("%d|%s|%d|%d|%d", m.RoundNumber, r.Phase, r.Turn, r.PendingGiftSeat, m.NextSeq)
	if key != state.TimerKey {
		state.TimerKey = key
		state.DeadlineTick = state.Tick + int64(window)
		return
	}
	if state.Tick < state.DeadlineTick {
		return
	}

	switch r.Phase {
	case domain.PhaseCallPending:
		mh.expireCallWindow(ctx, state, dispatcher, logger)
	case domain.PhaseExchange:
		mh.expireExchangeWindow(ctx, state, dispatcher, logger)
	case domain.PhasePlaying:
		if r.PendingGiftSeat >= 0 {
			mh.expireGift(ctx, state, dispatcher, logger, r.PendingGiftSeat)
		} else {
			mh.expireTurn(ctx, state, dispatcher, logger, r.Turn)
		}
	case domain.PhaseScoring:
		mh.advanceRound(ctx, state, dispatcher, logger)
	}
}

func (mh *matchHandler) expireCallWindow(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	m := state.Match
	for seat := 0; seat < 4; seat++ {
		if m.Round.GrandDecided[seat] {
			continue
		}
		events, err := state.App.SubmitGrandDecision(m, seat, m.NextSeq, false)
		if err != nil {
			logger.Warn("expireCallWindow: auto-decline for seat %d failed: %v", seat, err)
			continue
		}
		logger.Debug("expireCallWindow: seat %d auto-declined grand", seat)
		mh.handleEvents(ctx, state, dispatcher, logger, events)
	}
}

func (mh *matchHandler) expireExchangeWindow(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	m := state.Match
	for seat := 0; seat < 4; seat++ {
		if state.ExchangeDone[seat] {
			continue
		}
		ex := state.standIn.ChooseExchange(m.Round.Hands[seat])
		events, err := state.App.SubmitExchange(m, seat, m.NextSeq, ex)
		if err != nil {
			logger.Warn("expireExchangeWindow: auto-exchange for seat %d failed: %v", seat, err)
			continue
		}
		logger.Debug("expireExchangeWindow: seat %d auto-exchanged", seat)
		mh.handleEvents(ctx, state, dispatcher, logger, events)
	}
}

func (mh *matchHandler) expireTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	m := state.Match
	move, err := state.standIn.CalculateMove(m.Round, seat)
	if err != nil {
		logger.Error("expireTurn: stand-in move for seat %d failed: %v", seat, err)
		return
	}

	var events []app.Event
	if move.Pass {
		events, err = state.App.SubmitPass(m, seat, m.NextSeq)
	} else {
		events, err = state.App.SubmitPlay(m, seat, m.NextSeq, move.Cards, move.Wish)
	}
	if err != nil {
		logger.Warn("expireTurn: synthetic action for seat %d rejected: %v", seat, err)
		return
	}
	logger.Debug("expireTurn: seat %d timed out, stand-in acted", seat)
	mh.handleEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) expireGift(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	m := state.Match
	target := state.standIn.ChooseGiftTarget(m.Round, seat)
	events, err := state.App.SubmitDragonGift(m, seat, m.NextSeq, target)
	if err != nil {
		logger.Warn("expireGift: synthetic gift for seat %d rejected: %v", seat, err)
		return
	}
	logger.Debug("expireGift: seat %d timed out, pile given to seat %d", seat, target)
	mh.handleEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) advanceRound(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	events, err := state.App.AdvanceRound(state.Match)
	if err != nil {
		logger.Error("advanceRound: %v", err)
		return
	}
	state.ExchangeDone = [4]bool{}
	mh.handleEvents(ctx, state, dispatcher, logger, events)
}

// processBots drives bot seats: one pending bot action at a time, behind a
// short think delay.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	m := state.Match
	r := m.Round

	seat, action := mh.pendingBotAction(state, r)
	if seat < 0 {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		min, max := config.GetBotMinDelaySec(), config.GetBotMaxDelaySec()
		if max < min {
			max = min
		}
		state.BotWaitUntil = state.Tick + int64(rand.Intn(max-min+1)+min)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent := mh.agentForSeat(state, logger, seat)
	if agent == nil {
		return
	}

	var events []app.Event
	var err error
	switch action {
	case botActGrand:
		call := agent.DecideGrand(r, seat)
		events, err = state.App.SubmitGrandDecision(m, seat, m.NextSeq, call)
	case botActExchange:
		ex := agent.ChooseExchange(r, seat)
		events, err = state.App.SubmitExchange(m, seat, m.NextSeq, ex)
	case botActGift:
		target := agent.ChooseGiftTarget(r, seat)
		events, err = state.App.SubmitDragonGift(m, seat, m.NextSeq, target)
	case botActPlay:
		// A strong enough hand calls before its first play.
		if r.Calls[seat] == domain.CallNone && !r.HasPlayed[seat] && agent.DecideTichu(r, seat) {
			if callEvents, callErr := state.App.SubmitTichu(m, seat, m.NextSeq); callErr == nil {
				mh.handleEvents(ctx, state, dispatcher, logger, callEvents)
			}
		}
		var move bot.Move
		move, err = agent.Play(r, seat)
		if err != nil {
			break
		}
		if move.Pass {
			events, err = state.App.SubmitPass(m, seat, m.NextSeq)
		} else {
			events, err = state.App.SubmitPlay(m, seat, m.NextSeq, move.Cards, move.Wish)
		}
	}
	if err != nil {
		logger.Warn("processBots: bot action for seat %d failed: %v", seat, err)
		return
	}
	mh.handleEvents(ctx, state, dispatcher, logger, events)
}

type botAction int

const (
	botActGrand botAction = iota
	botActExchange
	botActPlay
	botActGift
)

// pendingBotAction returns the next bot seat that owes the engine an action.
func (mh *matchHandler) pendingBotAction(state *MatchState, r *domain.Round) (int, botAction) {
	switch r.Phase {
	case domain.PhaseCallPending:
		for seat := 0; seat < 4; seat++ {
			if !r.GrandDecided[seat] && bot.IsBot(state.Seats[seat]) {
				return seat, botActGrand
			}
		}
	case domain.PhaseExchange:
		for seat := 0; seat < 4; seat++ {
			if !state.ExchangeDone[seat] && bot.IsBot(state.Seats[seat]) {
				return seat, botActExchange
			}
		}
	case domain.PhasePlaying:
		if r.PendingGiftSeat >= 0 {
			if bot.IsBot(state.Seats[r.PendingGiftSeat]) {
				return r.PendingGiftSeat, botActGift
			}
			return -1, 0
		}
		if r.Turn >= 0 && bot.IsBot(state.Seats[r.Turn]) {
			return r.Turn, botActPlay
		}
	}
	return -1, 0
}

func (mh *matchHandler) agentForSeat(state *MatchState, logger runtime.Logger, seat int) *bot.Agent {
	uid := state.Seats[seat]
	if agent, ok := state.Bots[uid]; ok {
		return agent
	}
	agent, err := bot.NewAgent(uid)
	if err != nil {
		logger.Error("agentForSeat: no agent for %s: %v", uid, err)
		return nil
	}
	state.Bots[uid] = agent
	return agent
}

// handleEvents applies side effects (persistence, exchange tracking, match
// teardown), broadcasts each event and feeds the bot memories.
func (mh *matchHandler) handleEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case app.EventRoundStarted:
			state.ExchangeDone = [4]bool{}
		case app.EventExchangeSubmitted:
			if p, ok := ev.Payload.(app.ExchangeSubmittedPayload); ok {
				state.ExchangeDone[p.Seat] = true
			}
		case app.EventRoundEnded:
			if p, ok := ev.Payload.(app.RoundEndedPayload); ok {
				mh.persistRound(ctx, state, logger, p)
			}
		}

		mh.broadcastEvent(state, dispatcher, logger, ev)

		for uid, agent := range state.Bots {
			if len(ev.Seats) == 0 || containsSeat(ev.Seats, state.seatOf(uid)) {
				agent.OnGameEvent(ev.Payload)
			}
		}

		if ev.Kind == app.EventMatchEnded {
			if p, ok := ev.Payload.(app.MatchEndedPayload); ok {
				mh.finishMatch(ctx, state, dispatcher, logger, p)
			}
		}
	}
}

func containsSeat(seats []int, seat int) bool {
	for _, s := range seats {
		if s == seat {
			return true
		}
	}
	return false
}

// broadcastEvent converts an app event to its opcode and JSON payload. A
// seat-addressed event goes only to those seats' connected presences; if
// none of the recipients are connected nothing is sent.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := opcodeFor(ev.Kind)
	if !ok {
		logger.Warn("broadcastEvent: unknown event kind %q", ev.Kind)
		return
	}

	data, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("broadcastEvent: failed to marshal %q: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Seats) > 0 {
		for _, seat := range ev.Seats {
			if seat < 0 || seat > 3 {
				continue
			}
			if p, connected := state.Presences[state.Seats[seat]]; connected {
				recipients = append(recipients, p)
			}
		}
		// Seat-addressed payloads must never leak to the table at large.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)
}

func opcodeFor(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventMatchStarted:
		return OpMatchStarted, true
	case app.EventRoundStarted:
		return OpRoundStarted, true
	case app.EventCallWindowOpened:
		return OpCallWindowOpened, true
	case app.EventHandDealt:
		return OpHandDealt, true
	case app.EventCallMade:
		return OpCallMade, true
	case app.EventExchangeSubmitted:
		return OpExchangeSubmitted, true
	case app.EventExchangeCompleted:
		return OpExchangeCompleted, true
	case app.EventTrickStarted:
		return OpTrickStarted, true
	case app.EventCardsPlayed:
		return OpCardsPlayed, true
	case app.EventTurnPassed:
		return OpTurnPassed, true
	case app.EventWishNamed:
		return OpWishNamed, true
	case app.EventWishCleared:
		return OpWishCleared, true
	case app.EventTrickWon:
		return OpTrickWon, true
	case app.EventDragonGiftRequired:
		return OpDragonGiftRequired, true
	case app.EventDragonGiven:
		return OpDragonGiven, true
	case app.EventRoundEnded:
		return OpRoundEnded, true
	case app.EventMatchEnded:
		return OpMatchEnded, true
	case app.EventSnapshot:
		return OpSnapshot, true
	default:
		return 0, false
	}
}

// persistRound records a settled round. Storage trouble never stops play;
// one retry, then a log line.
func (mh *matchHandler) persistRound(ctx context.Context, state *MatchState, logger runtime.Logger, p app.RoundEndedPayload) {
	if state.Results == nil || p.Result == nil {
		return
	}
	rec := ports.RoundRecord{
		MatchID:     state.MatchID,
		RoundNumber: p.RoundNumber,
		TeamDelta:   p.Result.TeamDelta,
		Totals:      p.Totals,
	}
	if err := state.Results.RecordRoundResult(ctx, rec); err != nil {
		logger.Warn("persistRound: first write failed, retrying: %v", err)
		if err := state.Results.RecordRoundResult(ctx, rec); err != nil {
			logger.Error("persistRound: giving up on round %d: %v", p.RoundNumber, err)
		}
	}
}

// finishMatch persists the outcome, reports ratings and returns the room to
// the lobby.
func (mh *matchHandler) finishMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, p app.MatchEndedPayload) {
	rounds := 0
	if state.Match != nil {
		rounds = state.Match.RoundNumber
	}

	if state.Results != nil {
		rec := ports.MatchRecord{
			MatchID:     state.MatchID,
			WinningTeam: p.WinningTeam,
			Scores:      p.Scores,
			Seats:       append([]string{}, state.Seats[:]...),
			Rounds:      rounds,
		}
		if err := state.Results.RecordMatchResult(ctx, rec); err != nil {
			logger.Warn("finishMatch: first write failed, retrying: %v", err)
			if err := state.Results.RecordMatchResult(ctx, rec); err != nil {
				logger.Error("finishMatch: could not persist match result: %v", err)
			}
		}
	}

	if state.Ratings != nil {
		updates := make([]ports.RatingUpdate, 0, 4)
		for seat, uid := range state.Seats {
			if uid == "" || bot.IsBot(uid) {
				continue
			}
			updates = append(updates, ports.RatingUpdate{
				UserID: uid,
				Won:    domain.TeamOf(seat) == p.WinningTeam,
			})
		}
		if len(updates) > 0 {
			if err := state.Ratings.SubmitResults(ctx, state.MatchID, updates); err != nil {
				logger.Error("finishMatch: rating submission failed: %v", err)
			}
		}
	}

	logger.Info("finishMatch: team %d wins %d to %d after %d rounds",
		p.WinningTeam, p.Scores[p.WinningTeam], p.Scores[1-p.WinningTeam], rounds)

	state.Match = nil
	state.TimerKey = ""
	state.BotWaitUntil = 0
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastLobbyState(state, dispatcher, logger)
}

func (mh *matchHandler) sendRejoinToken(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, uid string, seat int) {
	token, err := state.Rejoin.IssueToken(state.MatchID, uid, seat)
	if err != nil {
		logger.Error("sendRejoinToken: could not issue token for %s: %v", uid, err)
		return
	}
	mh.sendPrivate(state, dispatcher, logger, uid, OpRejoinToken, rejoinTokenPayload{Seat: seat, Token: token})
}

func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, uid string, seat int) {
	if state.Match == nil {
		return
	}
	mh.sendPrivate(state, dispatcher, logger, uid, OpSnapshot, app.BuildSnapshot(state.Match, seat))
}

func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, uid string, code int, message string) {
	mh.sendPrivate(state, dispatcher, logger, uid, OpError, errorPayload{Code: code, Message: message})
}

func (mh *matchHandler) sendPrivate(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, uid string, opCode int64, payload interface{}) {
	presence, ok := state.Presences[uid]
	if !ok {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("sendPrivate: failed to marshal opcode %d: %v", opCode, err)
		return
	}
	dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcastLobbyState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	payload := lobbyStatePayload{
		OwnerSeat:  state.OwnerSeat,
		Spectators: len(state.Spectators),
		InProgress: state.Match != nil,
	}
	for i, uid := range state.Seats {
		if uid == "" {
			continue
		}
		name := uid
		if p, ok := state.Presences[uid]; ok {
			name = p.GetUsername()
		} else if display := bot.GetBotDisplayName(uid); display != "" {
			name = display
		}
		payload.Seats = append(payload.Seats, lobbySeat{
			Seat:        i,
			UserID:      uid,
			DisplayName: name,
			IsBot:       bot.IsBot(uid),
			IsOwner:     i == state.OwnerSeat,
		})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("broadcastLobbyState: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpLobbyState, data, nil, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	if state.Match != nil {
		phase = string(state.Match.Round.Phase)
	}
	labelJSON, err := json.Marshal(matchLabel{
		Open:  state.openSeatCount(),
		Game:  labelGameName,
		Phase: phase,
		Seats: state.Seats[:],
	})
	if err != nil {
		logger.Error("updateLabel: failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelJSON)); err != nil {
		logger.Error("updateLabel: failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

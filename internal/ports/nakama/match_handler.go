package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"nomercy/internal/app"
	"nomercy/internal/bot"
	"nomercy/internal/config"
	"nomercy/internal/domain"
	"nomercy/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/mitchellh/mapstructure"
)

const (
	// MaxSeats bounds the lobby; the deck scales itself to the roster.
	MaxSeats = 8

	MatchLabelKey_OpenSeats = "open"
)

// MatchLabel is the queryable JSON label kept up to date on the match.
type MatchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// matchParams are the optional creation parameters for MatchCreate.
type matchParams struct {
	BotsEnabled  bool `mapstructure:"bots_enabled"`
	TurnDuration int  `mapstructure:"turn_duration_seconds"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [MaxSeats]string            `json:"seats"`      // user IDs, empty string means seat is empty
	OwnerSeat int                         `json:"owner_seat"` // seat index of the match owner
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // UserId -> Presence for targeted messaging

	App   *app.Service        `json:"-"`
	Store ports.SnapshotStore `json:"-"`

	GameID string `json:"game_id"` // empty while in lobby

	BotsEnabled          bool  `json:"bots_enabled"`
	BotMinDelay          int   `json:"bot_min_delay"`
	BotMaxDelay          int   `json:"bot_max_delay"`
	BotAutoFillDelay     int   `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64 `json:"bot_wait_until"`
	LastSinglePlayerTick int64 `json:"last_single_player_tick"`

	TurnDuration int   `json:"turn_duration"` // seconds a player may hold the turn
	TurnDeadline int64 `json:"turn_deadline"` // tick at which the turn is forced

	Bots    map[string]*bot.Agent `json:"-"`
	Economy ports.EconomyPort     `json:"-"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !bot.IsBot(seat) {
			count++
		}
	}
	return count
}

// roster returns the occupied seats in seat order.
func (ms *MatchState) roster() []string {
	ids := make([]string, 0, MaxSeats)
	for _, seat := range ms.Seats {
		if seat != "" {
			ids = append(ids, seat)
		}
	}
	return ids
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userID := seats[seatIndex]
	return userID != "" && !bot.IsBot(userID)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" && !bot.IsBot(userID) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// Wire payloads for client -> server messages.

type playCardRequest struct {
	CardID      string `json:"card_id"`
	ChosenColor string `json:"chosen_color,omitempty"`
}

type chooseColorRequest struct {
	Color string `json:"color"`
}

type gameErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// stateSnapshot is the redacted view broadcast on joins: opponents are
// visible only as card counts.
type stateSnapshot struct {
	Seats          []string              `json:"seats"`
	OwnerSeat      int                   `json:"owner_seat"`
	Phase          string                `json:"phase"`
	Players        []snapshotPlayer      `json:"players,omitempty"`
	TopCard        *domain.Card          `json:"top_card,omitempty"`
	CurrentColor   domain.Color          `json:"current_color,omitempty"`
	CurrentTurn    string                `json:"current_turn_user_id,omitempty"`
	Direction      int                   `json:"direction,omitempty"`
	StackedPenalty int                   `json:"stacked_penalty,omitempty"`
	RouletteStatus domain.RouletteStatus `json:"roulette_status,omitempty"`
}

type snapshotPlayer struct {
	UserID         string `json:"user_id"`
	DisplayName    string `json:"display_name"`
	CardsRemaining int    `json:"cards_remaining"`
	IsEliminated   bool   `json:"is_eliminated"`
	Score          int    `json:"score"`
	IsOwner        bool   `json:"is_owner"`
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	store := NewNakamaSnapshotStore(nk)
	moveLog := NewNakamaMoveLog(nk)

	state := &MatchState{
		Tick:      time.Now().Unix(),
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(store, moveLog, nil),
		Store:     store,
		OwnerSeat: -1,
		Bots:      make(map[string]*bot.Agent),
		Economy:   NewNakamaEconomyAdapter(nk),
	}

	var p matchParams
	if err := mapstructure.WeakDecode(params, &p); err != nil {
		logger.Warn("MatchInit: Bad match params: %v", err)
	}
	state.BotsEnabled = p.BotsEnabled
	state.TurnDuration = p.TurnDuration

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["nomercy_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["nomercy_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["nomercy_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["nomercy_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	if cfg := config.GetGameConfig(); cfg != nil {
		if state.BotMinDelay == 0 {
			state.BotMinDelay = cfg.BotMinDelaySeconds
		}
		if state.BotMaxDelay == 0 {
			state.BotMaxDelay = cfg.BotMaxDelaySeconds
		}
		if state.BotAutoFillDelay == 0 {
			state.BotAutoFillDelay = cfg.BotAutoFillDelaySeconds
		}
	}

	// Defaults if not set
	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = 3
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 5
	}
	if state.TurnDuration == 0 {
		state.TurnDuration = config.GetTurnDuration()
	}

	labelBytes, err := json.Marshal(&MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "nomercy",
		Phase: "lobby",
	})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// A seated player may always reconnect, even mid-game.
	for _, seat := range matchState.Seats {
		if seat == presence.GetUserId() {
			return state, true, ""
		}
	}

	// A running game admits no new players.
	if matchState.GameID != "" {
		return state, false, "Game in progress"
	}

	// Allow join if there is an empty seat or a bot to replace.
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		for _, seat := range matchState.Seats {
			if bot.IsBot(seat) {
				hasBot = true
				break
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		// Reconnects keep their seat.
		seated := false
		for _, seatUserID := range matchState.Seats {
			if seatUserID == p.GetUserId() {
				seated = true
				break
			}
		}
		if seated {
			mh.resendPrivateHand(ctx, matchState, dispatcher, logger, p.GetUserId())
			continue
		}

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && matchState.GameID == "" {
			for i, seatUserID := range matchState.Seats {
				if bot.IsBot(seatUserID) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserID, p.GetUserId(), i)
					delete(matchState.Bots, seatUserID)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}

		mh.broadcastSeatEvent(dispatcher, logger, OpPlayerJoined, p.GetUserId())
	}

	// Owner must be a human player.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(ctx, matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		// During a game the seat stays reserved so the player can rejoin and
		// the turn ring keeps its shape. In the lobby the seat is freed.
		if matchState.GameID != "" {
			logger.Debug("MatchLeave: User %s disconnected mid-game, seat reserved.", p.GetUserId())
			continue
		}

		for i, seatUserID := range matchState.Seats {
			if seatUserID == p.GetUserId() {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)
				break
			}
		}

		mh.broadcastSeatEvent(dispatcher, logger, OpPlayerLeft, p.GetUserId())
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		if newOwnerSeat >= 0 {
			logger.Debug("MatchLeave: Owner set to human seat %d.", newOwnerSeat)
		}
	}

	if matchState.GameID == "" && shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}
	if matchState.GameID != "" && len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: All humans disconnected mid-game, terminating.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpDrawCard:
			mh.handleDrawCard(ctx, matchState, dispatcher, logger, msg)
		case OpChooseColor:
			mh.handleChooseColor(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}
	mh.enforceTurnClock(ctx, matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.GameID != "" {
		logger.Warn("StartGame: Game already running.")
		mh.sendRejection(state, dispatcher, logger, senderID, app.ErrGameFinished)
		return
	}

	ownerID := ""
	if state.OwnerSeat >= 0 {
		ownerID = state.Seats[state.OwnerSeat]
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	game, events, err := state.App.StartGame(ctx, matchID, senderID, ownerID, state.roster())
	if err != nil {
		logger.Warn("StartGame: User %s failed to start: %v", senderID, err)
		mh.sendRejection(state, dispatcher, logger, senderID, err)
		return
	}

	state.GameID = game.ID
	mh.resetTurnClock(state)
	mh.updateLabel(state, dispatcher, logger)

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	logger.Info("StartGame: Game %s started with %d players.", game.ID, len(game.Players))
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.GameID == "" {
		logger.Warn("handlePlayCard: Game not started.")
		mh.sendRejection(state, dispatcher, logger, senderID, app.ErrGameNotFound)
		return
	}

	var req playCardRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handlePlayCard: Invalid payload from %s: %v", senderID, err)
		mh.sendRejection(state, dispatcher, logger, senderID, app.ErrIllegalMove)
		return
	}

	events, err := state.App.PlayCard(ctx, state.GameID, senderID, req.CardID, domain.Color(req.ChosenColor))
	if err != nil {
		logger.Warn("handlePlayCard: User %s failed to play %s: %v", senderID, req.CardID, err)
		mh.sendRejection(state, dispatcher, logger, senderID, err)
		return
	}

	mh.resetTurnClock(state)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleDrawCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.GameID == "" {
		logger.Warn("handleDrawCard: Game not started.")
		mh.sendRejection(state, dispatcher, logger, senderID, app.ErrGameNotFound)
		return
	}

	events, err := state.App.DrawCard(ctx, state.GameID, senderID)
	if err != nil {
		logger.Warn("handleDrawCard: User %s failed to draw: %v", senderID, err)
		mh.sendRejection(state, dispatcher, logger, senderID, err)
		return
	}

	mh.resetTurnClock(state)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleChooseColor(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.GameID == "" {
		logger.Warn("handleChooseColor: Game not started.")
		mh.sendRejection(state, dispatcher, logger, senderID, app.ErrGameNotFound)
		return
	}

	var req chooseColorRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleChooseColor: Invalid payload from %s: %v", senderID, err)
		mh.sendRejection(state, dispatcher, logger, senderID, app.ErrBadColor)
		return
	}

	events, err := state.App.ChooseColor(ctx, state.GameID, senderID, domain.Color(req.Color))
	if err != nil {
		logger.Warn("handleChooseColor: User %s failed to choose color: %v", senderID, err)
		mh.sendRejection(state, dispatcher, logger, senderID, err)
		return
	}

	mh.resetTurnClock(state)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.GameID == "" {
		logger.Warn("handlePassTurn: Game not started.")
		mh.sendRejection(state, dispatcher, logger, senderID, app.ErrGameNotFound)
		return
	}

	events, err := state.App.PassTurn(ctx, state.GameID, senderID)
	if err != nil {
		logger.Warn("handlePassTurn: User %s failed to pass turn: %v", senderID, err)
		mh.sendRejection(state, dispatcher, logger, senderID, err)
		return
	}

	mh.resetTurnClock(state)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill a solo human lobby with bots after the configured delay.
	if state.GameID == "" {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if seat != "" {
						continue
					}
					identity := bot.GetBotIdentity(i)
					botID := identity.UserID
					state.Seats[i] = botID

					agent, err := bot.NewAgent(botID)
					if err != nil {
						logger.Error("processBots: Failed to create bot agent for %s: %v", botID, err)
					} else {
						state.Bots[botID] = agent
					}

					logger.Info("processBots: Added bot %s (%s) to seat %d", identity.Username, botID, i)
					added = true

					// A table of two plays fine; keep most seats open for
					// humans.
					if state.GetOccupiedSeatCount() >= 4 {
						break
					}
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastSnapshot(ctx, state, dispatcher, logger)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// 2. Handle bot turns in-game.
	game, err := state.Store.Load(ctx, state.GameID)
	if err != nil {
		logger.Error("processBots: Failed to load game %s: %v", state.GameID, err)
		return
	}
	if game.Status != domain.StatusActive {
		return
	}

	currentUserID := game.CurrentTurnUserID
	if !bot.IsBot(currentUserID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if state.BotMaxDelay > state.BotMinDelay {
			delay += rand.Intn(state.BotMaxDelay - state.BotMinDelay + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", currentUserID, state.BotWaitUntil, state.Tick)
		return
	}

	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[currentUserID]
	if !exists {
		agent, err = bot.NewAgent(currentUserID)
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[currentUserID] = agent
	}

	move, err := agent.Play(game)
	if err != nil {
		logger.Error("processBots: Bot %s failed to calculate move: %v", currentUserID, err)
		return
	}

	mh.applyMove(ctx, state, dispatcher, logger, currentUserID, move)
}

// enforceTurnClock forces a move for a human who has sat on the turn past
// the configured limit, using the basic strategy on their behalf.
func (mh *matchHandler) enforceTurnClock(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.GameID == "" || state.TurnDuration <= 0 {
		return
	}
	if state.TurnDeadline == 0 {
		state.TurnDeadline = state.Tick + int64(state.TurnDuration)
		return
	}
	if state.Tick < state.TurnDeadline {
		return
	}

	game, err := state.Store.Load(ctx, state.GameID)
	if err != nil {
		logger.Error("enforceTurnClock: Failed to load game %s: %v", state.GameID, err)
		return
	}
	if game.Status != domain.StatusActive || bot.IsBot(game.CurrentTurnUserID) {
		mh.resetTurnClock(state)
		return
	}

	userID := game.CurrentTurnUserID
	player := game.Player(userID)
	if player == nil {
		mh.resetTurnClock(state)
		return
	}

	logger.Info("enforceTurnClock: Forcing a move for %s after %d seconds.", userID, state.TurnDuration)

	move, err := (&bot.BasicBot{}).CalculateMove(game, player)
	if err != nil {
		logger.Error("enforceTurnClock: No forced move for %s: %v", userID, err)
		return
	}

	mh.applyMove(ctx, state, dispatcher, logger, userID, move)
}

// applyMove dispatches a bot (or forced) decision through the app service.
func (mh *matchHandler) applyMove(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, move bot.Move) {
	var (
		events []app.Event
		err    error
	)
	switch move.Kind {
	case bot.MovePlay:
		events, err = state.App.PlayCard(ctx, state.GameID, userID, move.CardID, move.Color)
	case bot.MoveDraw:
		events, err = state.App.DrawCard(ctx, state.GameID, userID)
	case bot.MoveChooseColor:
		events, err = state.App.ChooseColor(ctx, state.GameID, userID, move.Color)
	case bot.MovePass:
		events, err = state.App.PassTurn(ctx, state.GameID, userID)
	default:
		return
	}
	if err != nil {
		logger.Warn("applyMove: %s move %s rejected: %v", userID, move.Kind, err)
		return
	}

	mh.resetTurnClock(state)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) resetTurnClock(state *MatchState) {
	if state.TurnDuration > 0 {
		state.TurnDeadline = state.Tick + int64(state.TurnDuration)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64

	switch ev.Kind {
	case app.EventGameStarted:
		opCode = OpGameStarted
	case app.EventHandDealt:
		opCode = OpHandDealt
	case app.EventCardPlayed:
		opCode = OpCardPlayed
	case app.EventCardsDrawn:
		opCode = OpCardsDrawn
	case app.EventHandUpdated:
		opCode = OpHandUpdated
	case app.EventColorChosen:
		opCode = OpColorChosen
	case app.EventTurnPassed:
		opCode = OpTurnPassed
	case app.EventPlayerEliminated:
		opCode = OpPlayerEliminated
	case app.EventGameEnded:
		opCode = OpGameEnded
		mh.settleGame(ctx, state, logger, ev)
		state.GameID = ""
		state.TurnDeadline = 0
		mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast).
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they
		// are bots), we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// settleGame credits the winner's wallet when a game ends.
func (mh *matchHandler) settleGame(ctx context.Context, state *MatchState, logger runtime.Logger, ev app.Event) {
	payload, ok := ev.Payload.(app.GameEndedPayload)
	if !ok || state.Economy == nil {
		return
	}
	if payload.WinnerID == "" || bot.IsBot(payload.WinnerID) {
		return
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	updates := []ports.WalletUpdate{
		{
			UserID: payload.WinnerID,
			Amount: config.GetWinnerReward(),
			Metadata: map[string]interface{}{
				"match_id": matchID,
				"game_id":  state.GameID,
				"reason":   "game_settlement",
			},
		},
	}
	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("settleGame: Failed to update balances: %v", err)
	}
}

// broadcastSeatEvent announces a seat change to the whole table.
func (mh *matchHandler) broadcastSeatEvent(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, userID string) {
	bytes, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		logger.Error("Failed to marshal seat event: %v", err)
		return
	}
	dispatcher.BroadcastMessage(opCode, bytes, nil, nil, true)
}

// sendRejection reports a rule violation back to the offending client only.
func (mh *matchHandler) sendRejection(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, err error) {
	code := "internal"
	message := "internal error"
	if r, ok := app.AsRejection(err); ok {
		code = string(r.Code)
		message = r.Message
	}

	bytes, marshalErr := json.Marshal(gameErrorEvent{Code: code, Message: message})
	if marshalErr != nil {
		logger.Error("Failed to marshal game error: %v", marshalErr)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

// broadcastSnapshot sends the redacted table view to everyone.
func (mh *matchHandler) broadcastSnapshot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	snapshot := stateSnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Phase:     "lobby",
	}

	if state.GameID != "" {
		game, err := state.Store.Load(ctx, state.GameID)
		if err != nil {
			logger.Error("broadcastSnapshot: Failed to load game %s: %v", state.GameID, err)
		} else {
			snapshot.Phase = "playing"
			snapshot.CurrentColor = game.CurrentColor
			snapshot.CurrentTurn = game.CurrentTurnUserID
			snapshot.Direction = game.Direction
			snapshot.StackedPenalty = game.StackedPenalty
			snapshot.RouletteStatus = game.RouletteStatus
			if top, ok := game.TopCard(); ok {
				snapshot.TopCard = &top
			}
			for _, p := range game.Players {
				snapshot.Players = append(snapshot.Players, snapshotPlayer{
					UserID:         p.UserID,
					DisplayName:    mh.displayName(state, p.UserID),
					CardsRemaining: len(p.Hand),
					IsEliminated:   p.IsEliminated,
					Score:          p.Score,
					IsOwner:        state.OwnerSeat >= 0 && state.Seats[state.OwnerSeat] == p.UserID,
				})
			}
		}
	}

	bytes, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("broadcastSnapshot: Failed to marshal: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpStateSnapshot, bytes, nil, nil, true)
}

// resendPrivateHand restores a reconnecting player's view of their own cards.
func (mh *matchHandler) resendPrivateHand(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	if state.GameID == "" {
		return
	}
	game, err := state.Store.Load(ctx, state.GameID)
	if err != nil {
		logger.Error("resendPrivateHand: Failed to load game %s: %v", state.GameID, err)
		return
	}
	player := game.Player(userID)
	if player == nil {
		return
	}

	bytes, err := json.Marshal(app.HandUpdatedPayload{UserID: userID, Hand: player.Hand})
	if err != nil {
		logger.Error("resendPrivateHand: Failed to marshal: %v", err)
		return
	}
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	dispatcher.BroadcastMessage(OpHandUpdated, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) displayName(state *MatchState, userID string) string {
	if p, exists := state.Presences[userID]; exists {
		return p.GetUsername()
	}
	if name := bot.GetBotDisplayName(userID); name != "" {
		return name
	}
	return userID
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	if state.GameID != "" {
		phase = "playing"
	}

	labelBytes, err := json.Marshal(&MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "nomercy",
		Phase: phase,
	})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

package game

import (
	"math/rand"

	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/event"
)

// MaxPlayers is the room capacity.
const MaxPlayers = 2

// CreateGame opens a new room in the waiting phase.
func (e *Engine) CreateGame(id string) *GameState {
	gs := NewGameState(id)
	gs.Seed = e.now().UnixNano()
	gs.Events.Append(event.TypeRoomCreated, map[string]any{
		"gameId": id,
	})
	return gs
}

// Join registers a player. A nil deck falls back to the player's active deck
// from the catalog's deck file. The second join deals both starting hands and
// opens the redraw window.
func (e *Engine) Join(gs *GameState, playerID string, deck *catalog.Deck) error {
	if gs.Phase != PhaseWaiting {
		return e.emitError(gs, playerID, Errf(ErrCodeInvalidPhase, "game %s already started", gs.ID))
	}
	if _, dup := gs.Players[playerID]; dup {
		return e.emitError(gs, playerID, Errf(ErrCodeInvalidActionType, "player %s already joined", playerID))
	}
	if len(gs.Players) >= MaxPlayers {
		return e.emitError(gs, playerID, Errf(ErrCodeInvalidPhase, "game %s is full", gs.ID))
	}
	if deck == nil {
		deck = e.cat.PlayerDeck(playerID)
	}
	if deck == nil {
		return e.emitError(gs, playerID, Errf(ErrCodeCardNotFound, "no deck available for player %s", playerID))
	}
	if err := deck.Validate(); err != nil {
		return e.emitError(gs, playerID, Errf(ErrCodeInvalidActionType, "invalid deck: %v", err))
	}

	main := append([]string(nil), deck.Cards...)
	e.shuffle(gs, main)
	gs.AddPlayer(playerID, DeckState{
		Leaders:  append([]string(nil), deck.Leader...),
		MainDeck: main,
	})
	gs.Events.Append(event.TypePlayerJoined, map[string]any{
		"playerId": playerID,
	})

	if len(gs.Players) == MaxPlayers {
		e.enterSetup(gs)
	}
	return nil
}

// enterSetup deals the starting hands and opens the redraw window.
func (e *Engine) enterSetup(gs *GameState) {
	gs.Phase = PhaseSetup
	for _, id := range gs.PlayerIDs() {
		for i := 0; i < InitialHandSize; i++ {
			gs.DrawCard(id)
		}
		gs.Events.Append(event.TypeInitialHandDealt, map[string]any{
			"playerId": id,
			"handSize": InitialHandSize,
		})
	}
	gs.Events.Append(event.TypePhaseChange, map[string]any{
		"phase": string(PhaseSetup),
	})
}

// Redraw returns the player's hand to the deck, reshuffles and deals a fresh
// hand. Allowed once per player, only during setup.
func (e *Engine) Redraw(gs *GameState, playerID string) error {
	p, ok := gs.Players[playerID]
	if !ok {
		return e.emitError(gs, playerID, Errf(ErrCodeGameNotFound, "player %s not in game", playerID))
	}
	if gs.Phase != PhaseSetup {
		return e.emitError(gs, playerID, Errf(ErrCodeInvalidPhase, "redraw only allowed during setup"))
	}
	if p.Redrawn {
		return e.emitError(gs, playerID, Errf(ErrCodeInvalidActionType, "player %s already redrew", playerID))
	}

	p.Deck.MainDeck = append(p.Deck.MainDeck, p.Deck.Hand...)
	p.Deck.Hand = nil
	e.shuffle(gs, p.Deck.MainDeck)
	for i := 0; i < InitialHandSize; i++ {
		gs.DrawCard(playerID)
	}
	p.Redrawn = true
	gs.Events.Append(event.TypeHandRedrawn, map[string]any{
		"playerId": playerID,
	})
	return nil
}

// Ready marks a player ready. When both players are ready the game starts.
func (e *Engine) Ready(gs *GameState, playerID string) error {
	p, ok := gs.Players[playerID]
	if !ok {
		return e.emitError(gs, playerID, Errf(ErrCodeGameNotFound, "player %s not in game", playerID))
	}
	if gs.Phase != PhaseSetup {
		return e.emitError(gs, playerID, Errf(ErrCodeInvalidPhase, "ready only allowed during setup"))
	}
	if p.Ready {
		return nil
	}
	p.Ready = true
	gs.Events.Append(event.TypePlayerReady, map[string]any{
		"playerId": playerID,
	})

	for _, id := range gs.PlayerIDs() {
		if !gs.Players[id].Ready {
			return nil
		}
	}
	return e.startGame(gs)
}

// startGame decides the first player, records both leader summons and begins
// the first turn. The player whose opening leader has the higher initialPoint
// goes first; ties go to the lexicographically smaller ID.
func (e *Engine) startGame(gs *GameState) error {
	ids := gs.PlayerIDs()
	first := ids[0]
	if a, b := gs.CurrentLeaderDef(e.cat, ids[0]), gs.CurrentLeaderDef(e.cat, ids[1]); a != nil && b != nil && b.InitialPoint > a.InitialPoint {
		first = ids[1]
	}
	gs.FirstPlayer = first

	order := []string{first, gs.Opponent(first)}
	for _, id := range order {
		if err := e.recordLeaderPlay(gs, id); err != nil {
			return err
		}
	}
	if err := e.Simulate(gs); err != nil {
		return err
	}
	gs.Events.Append(event.TypeGameStarted, map[string]any{
		"firstPlayer": first,
	})
	// The opening turn must be the whole number 1, owned by the first player.
	gs.CurrentTurn = 0.5
	e.StartTurn(gs)
	return nil
}

// shuffle permutes cards deterministically from the game seed and the current
// play count, so a persisted game replays identically.
func (e *Engine) shuffle(gs *GameState, cards []string) {
	r := rand.New(rand.NewSource(gs.Seed + int64(len(gs.Players))*7919 + int64(gs.Sequence.Len())))
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

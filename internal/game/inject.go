package game

import (
	"github.com/politicard/politicard/internal/event"
)

// InjectState reconciles an externally supplied game state and installs it as
// the authoritative one. States built by test clients often carry leaders on
// the field without the matching play records; the missing summons are
// recorded before the replay so the simulator sees a complete history.
func (e *Engine) InjectState(gs *GameState) error {
	if gs.Sequence == nil {
		gs.Sequence = NewPlaySequence()
	}
	if gs.Selections == nil {
		gs.Selections = map[string]*CardSelection{}
	}
	if gs.Events == nil {
		gs.Events = event.NewStream()
	}
	if gs.Seed == 0 {
		gs.Seed = e.now().UnixNano()
	}
	for _, p := range gs.Players {
		if p.FieldEffects == nil {
			p.FieldEffects = NewFieldEffects()
		}
	}

	recorded := map[string]bool{}
	for _, r := range gs.Sequence.LeaderPlays() {
		recorded[r.PlayerID] = true
	}
	for _, id := range e.leaderOrder(gs) {
		if recorded[id] {
			continue
		}
		if gs.ActiveLeader(id) == nil {
			continue
		}
		if err := e.recordLeaderPlay(gs, id); err != nil {
			return err
		}
	}

	if err := gs.Sequence.Validate(); err != nil {
		return err
	}
	return e.Simulate(gs)
}

// leaderOrder returns player IDs first player first, falling back to
// lexicographic order when no first player is set.
func (e *Engine) leaderOrder(gs *GameState) []string {
	if gs.FirstPlayer == "" {
		return gs.PlayerIDs()
	}
	return []string{gs.FirstPlayer, gs.Opponent(gs.FirstPlayer)}
}

// PlaceInjected puts a card directly into a zone and records the play, used
// when an injected state adds cards to the field mid-test.
func (e *Engine) PlaceInjected(gs *GameState, playerID, cardID string, zone Zone, faceDown bool) error {
	def := e.cat.Card(cardID)
	if def == nil {
		return Errf(ErrCodeCardNotFound, "card %s not in catalog", cardID)
	}
	value := 0
	if !faceDown {
		value = def.Power
	}
	gs.Zones[playerID][zone] = append(gs.Zones[playerID][zone], &PlacedCard{
		CardID:       cardID,
		IsFaceDown:   faceDown,
		ValueOnField: value,
		Owner:        playerID,
		Zone:         zone,
	})
	gs.Sequence.Append(PlayRecord{
		PlayerID: playerID,
		CardID:   cardID,
		Action:   SeqPlayCard,
		Zone:     zone,
		Data: map[string]any{
			"isFaceDown": faceDown,
			"injected":   true,
		},
		Turn:  gs.CurrentTurn,
		Phase: gs.Phase,
	})
	return e.Simulate(gs)
}

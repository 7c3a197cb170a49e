package game

import (
	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/event"
)

// StartTurn advances to the next half-turn: whole turn numbers belong to the
// first player, halves to the other. The new current player draws one card
// (empty deck is a no-op) and must acknowledge DRAW_PHASE_COMPLETE before the
// main phase opens.
func (e *Engine) StartTurn(gs *GameState) {
	gs.CurrentTurn += 0.5
	gs.CurrentPlayer = gs.TurnOwner(gs.CurrentTurn)
	gs.Phase = PhaseDraw

	gs.Events.Append(event.TypeTurnSwitch, map[string]any{
		"turn":          gs.CurrentTurn,
		"currentPlayer": gs.CurrentPlayer,
	})

	drawn := gs.DrawCard(gs.CurrentPlayer)
	data := map[string]any{
		"playerId": gs.CurrentPlayer,
		"turn":     gs.CurrentTurn,
	}
	if drawn != "" {
		data["cardId"] = drawn
	}
	gs.Events.Append(event.TypeDrawPhaseComplete, data)
}

// AcknowledgeDraw marks the DRAW_PHASE_COMPLETE event processed and opens the
// main phase.
func (e *Engine) AcknowledgeDraw(gs *GameState, eventID string) error {
	if gs.Phase != PhaseDraw {
		return Errf(ErrCodeInvalidPhase, "no draw phase to acknowledge in %s", gs.Phase)
	}
	if eventID != "" && !gs.Events.Mark(eventID) {
		return Errf(ErrCodeInvalidSelection, "unknown event id %q", eventID)
	}
	gs.Phase = PhaseMain
	gs.Events.Append(event.TypePhaseChange, map[string]any{
		"from": string(PhaseDraw),
		"to":   string(PhaseMain),
	})
	return nil
}

// MaybeAdvance runs the turn/phase bookkeeping after a successful mutation:
// main-phase completion, the should-update-turn rule with auto-skip, SP-zone
// completion and battle entry.
func (e *Engine) MaybeAdvance(gs *GameState) error {
	if gs.PendingAction != nil || gs.Phase == PhaseGameEnd {
		return nil
	}

	switch gs.Phase {
	case PhaseMain:
		if e.mainPhaseComplete(gs) {
			gs.Events.Append(event.TypeAllMainZonesFilled, nil)
			return e.enterSPPhase(gs)
		}
		p := gs.Players[gs.CurrentPlayer]
		if p != nil && p.ActedOnTurn(gs.CurrentTurn) {
			e.StartTurn(gs)
		}
		e.autoSkipStuckPlayers(gs)
		return nil

	case PhaseSP:
		if e.allSPFilled(gs) {
			gs.Events.Append(event.TypeAllSPZonesFilled, nil)
			return e.ResolveBattle(gs)
		}
		// Hand the SP phase over to whichever player still owes a card.
		for _, id := range gs.PlayerIDs() {
			if len(gs.ZoneCards(id, catalog.ZoneSP)) == 0 && !gs.Players[id].SPPassed {
				gs.CurrentPlayer = id
				break
			}
		}
		return nil
	}
	return nil
}

// autoSkipStuckPlayers treats a player who cannot legally play as having
// acted, advancing past them. Bounded by the player count so two stuck
// players cannot loop.
func (e *Engine) autoSkipStuckPlayers(gs *GameState) {
	for i := 0; i < len(gs.Players); i++ {
		if gs.Phase != PhaseDraw && gs.Phase != PhaseMain {
			return
		}
		if e.canPlayAny(gs, gs.CurrentPlayer) {
			return
		}
		e.StartTurn(gs)
	}
	// Neither player has a legal play; the main phase cannot progress, so
	// move on rather than deadlock.
	if !e.mainPhaseComplete(gs) && gs.Phase != PhaseSP {
		_ = e.enterSPPhase(gs)
	}
}

// canPlayAny reports whether the player has any legal placement: a non-empty
// hand and at least one zone with space, respecting zone restrictions and
// field-effect locks. Face-down plays into character zones are always
// available, so in practice only an empty hand or a preventPlay lock blocks.
func (e *Engine) canPlayAny(gs *GameState, playerID string) bool {
	p := gs.Players[playerID]
	if p == nil || len(p.Deck.Hand) == 0 {
		return false
	}
	if p.FieldEffects.SpecialStates[StatePreventPlay] {
		return false
	}
	// Character zones accept face-down cards without limit.
	return true
}

// mainPhaseComplete: all six character zones and both help zones hold a card,
// face-up or face-down.
func (e *Engine) mainPhaseComplete(gs *GameState) bool {
	for _, id := range gs.PlayerIDs() {
		for _, z := range catalog.CharacterZones {
			if len(gs.ZoneCards(id, z)) == 0 {
				return false
			}
		}
		if len(gs.ZoneCards(id, catalog.ZoneHelp)) == 0 {
			return false
		}
	}
	return true
}

// allSPFilled: every player has either set an sp card or conceded the slot by
// passing this round.
func (e *Engine) allSPFilled(gs *GameState) bool {
	for _, id := range gs.PlayerIDs() {
		if len(gs.ZoneCards(id, catalog.ZoneSP)) == 0 && !gs.Players[id].SPPassed {
			return false
		}
	}
	return true
}

// enterSPPhase opens the SP phase, skipping players whose sp zone is already
// occupied. If nobody owes an SP card and none are on the field, battle
// resolves directly.
func (e *Engine) enterSPPhase(gs *GameState) error {
	if e.allSPFilled(gs) || e.bothSkipSP(gs) {
		return e.ResolveBattle(gs)
	}
	gs.Phase = PhaseSP
	gs.Events.Append(event.TypeGamePhaseStart, map[string]any{
		"phase": string(PhaseSP),
	})
	for _, id := range gs.PlayerIDs() {
		if len(gs.ZoneCards(id, catalog.ZoneSP)) == 0 {
			gs.CurrentPlayer = id
			break
		}
	}
	return nil
}

// bothSkipSP: both players either have a pre-occupied sp zone or no sp card
// in hand, and there are no SP cards on the field.
func (e *Engine) bothSkipSP(gs *GameState) bool {
	anyOnField := false
	for _, id := range gs.PlayerIDs() {
		if len(gs.ZoneCards(id, catalog.ZoneSP)) > 0 {
			anyOnField = true
		}
	}
	if anyOnField {
		return false
	}
	for _, id := range gs.PlayerIDs() {
		if e.holdsSPCard(gs, id) {
			return false
		}
	}
	return true
}

func (e *Engine) holdsSPCard(gs *GameState, playerID string) bool {
	p := gs.Players[playerID]
	if p == nil {
		return false
	}
	for _, id := range p.Deck.Hand {
		if def := e.cat.Card(id); def != nil && def.CardType == catalog.CardTypeSP {
			return true
		}
	}
	return false
}

// HandlePass ends the acting player's turn explicitly.
func (e *Engine) HandlePass(gs *GameState, playerID string) error {
	if err := e.CheckGate(gs, playerID, Action{Type: ActionPass}); err != nil {
		return e.emitError(gs, playerID, err)
	}
	if gs.CurrentPlayer != playerID {
		return e.emitError(gs, playerID, Errf(ErrCodeWaitingForPlayer, "it is %s's turn", gs.CurrentPlayer))
	}
	switch gs.Phase {
	case PhaseMain:
		e.StartTurn(gs)
		e.autoSkipStuckPlayers(gs)
		return nil
	case PhaseSP:
		// Passing in SP phase concedes the slot for the rest of the round.
		gs.Players[playerID].SPPassed = true
		if e.allSPFilled(gs) {
			return e.ResolveBattle(gs)
		}
		gs.CurrentPlayer = gs.Opponent(playerID)
		return nil
	default:
		return e.emitError(gs, playerID, Errf(ErrCodeInvalidPhase, "cannot pass during %s", gs.Phase))
	}
}

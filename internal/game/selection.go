package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/event"
)

// DefaultSelectionTTL is how long a pending selection may stay open before
// the orchestrator is allowed to cancel it.
const DefaultSelectionTTL = 60 * time.Second

// openSearchSelection takes the top searchCount card IDs off the acting
// player's main deck (without removing them yet), filters eligibility, and
// opens the pending selection gate. Returns false if there is nothing to
// search.
func (e *Engine) openSearchSelection(gs *GameState, playerID, sourceCardID string, rule catalog.EffectRule) bool {
	p := gs.Players[playerID]
	if p == nil || len(p.Deck.MainDeck) == 0 {
		return false
	}
	searchCount := rule.Effect.SearchCount
	if searchCount <= 0 {
		searchCount = 1
	}
	if searchCount > len(p.Deck.MainDeck) {
		searchCount = len(p.Deck.MainDeck)
	}
	searched := append([]string(nil), p.Deck.MainDeck[:searchCount]...)

	var eligible []string
	for _, id := range searched {
		def := e.cat.Card(id)
		if def == nil {
			continue
		}
		if rule.Effect.CardTypeFilter != "" && def.CardType != rule.Effect.CardTypeFilter {
			continue
		}
		eligible = append(eligible, id)
	}
	if len(eligible) == 0 {
		return false
	}
	selectCount := rule.Effect.SelectCount
	if selectCount <= 0 {
		selectCount = 1
	}
	if selectCount > len(eligible) {
		selectCount = len(eligible)
	}
	destination := rule.Effect.Destination
	if destination == "" {
		destination = catalog.DestHand
	}

	sel := &CardSelection{
		ID:            uuid.NewString(),
		PlayerID:      playerID,
		SourceCardID:  sourceCardID,
		EffectType:    catalog.EffectSearchCard,
		Destination:   destination,
		SelectCount:   selectCount,
		SearchedCards: searched,
		EligibleCards: eligible,
		CreatedAt:     e.now().UnixMilli(),
	}
	e.openSelection(gs, sel)
	return true
}

// openTargetSelection opens a field-target choice over the given eligible
// placed cards.
func (e *Engine) openTargetSelection(gs *GameState, playerID, sourceCardID string, rule catalog.EffectRule, targets []TargetRef) bool {
	selectCount := rule.Effect.SelectCount
	if selectCount <= 0 {
		selectCount = 1
	}
	if selectCount > len(targets) {
		selectCount = len(targets)
	}
	sel := &CardSelection{
		ID:              uuid.NewString(),
		PlayerID:        playerID,
		SourceCardID:    sourceCardID,
		EffectType:      rule.Effect.Type,
		EffectValue:     rule.Effect.Value,
		Unremovable:     rule.Unremovable,
		SelectCount:     selectCount,
		EligibleTargets: targets,
		CreatedAt:       e.now().UnixMilli(),
	}
	e.openSelection(gs, sel)
	return true
}

func (e *Engine) openSelection(gs *GameState, sel *CardSelection) {
	if gs.Selections == nil {
		gs.Selections = map[string]*CardSelection{}
	}
	gs.Selections[sel.ID] = sel
	gs.PendingAction = &PendingAction{
		Type:        PendingActionCardSelection,
		SelectionID: sel.ID,
		PlayerID:    sel.PlayerID,
		CreatedAt:   sel.CreatedAt,
	}
	gs.Events.Append(event.TypeCardSelectionRequired, map[string]any{
		"selectionId": sel.ID,
		"playerId":    sel.PlayerID,
		"effectType":  sel.EffectType,
		"selectCount": sel.SelectCount,
		"eligible":    sel.EligibleCards,
	})
}

// ResolveSelection validates a SelectCard action against the open selection,
// applies its side effects, clears the gate and re-runs the simulator.
func (e *Engine) ResolveSelection(gs *GameState, playerID string, act Action) error {
	if gs.PendingAction == nil {
		return e.emitError(gs, playerID, Errf(ErrCodeInvalidSelection, "no selection pending"))
	}
	if gs.PendingAction.PlayerID != playerID {
		return e.emitError(gs, playerID, Errf(ErrCodeSelectionUnauthorized, "selection belongs to %s", gs.PendingAction.PlayerID))
	}
	sel := gs.Selections[act.SelectionID]
	if sel == nil || act.SelectionID != gs.PendingAction.SelectionID {
		return e.emitError(gs, playerID, Errf(ErrCodeInvalidSelection, "unknown selection id %q", act.SelectionID))
	}
	if len(act.SelectedCardIDs) != sel.SelectCount {
		return e.emitError(gs, playerID, Errf(ErrCodeSelectionCount, "selection needs %d cards, got %d", sel.SelectCount, len(act.SelectedCardIDs)))
	}

	var err error
	if sel.EffectType == catalog.EffectSearchCard {
		err = e.resolveSearch(gs, sel, act.SelectedCardIDs)
	} else {
		err = e.resolveFieldTarget(gs, sel, act.SelectedCardIDs)
	}
	if err != nil {
		return e.emitError(gs, playerID, err)
	}

	e.closeSelection(gs, sel)
	return e.Simulate(gs)
}

func (e *Engine) closeSelection(gs *GameState, sel *CardSelection) {
	delete(gs.Selections, sel.ID)
	// Resolving this selection may have opened a nested one, in which case the
	// gate now belongs to the newer selection and must stay up.
	if gs.PendingAction != nil && gs.PendingAction.SelectionID == sel.ID {
		gs.PendingAction = nil
	}
	gs.Events.Append(event.TypeCardSelectionComplete, map[string]any{
		"selectionId": sel.ID,
		"playerId":    sel.PlayerID,
	})
}

// resolveSearch moves the chosen cards out of the deck to the declared
// destination and returns the unchosen searched cards to the bottom of the
// deck in the order they were drawn.
func (e *Engine) resolveSearch(gs *GameState, sel *CardSelection, chosen []string) error {
	for _, id := range chosen {
		if !containsString(sel.EligibleCards, id) {
			return Errf(ErrCodeSelectionCard, "card %s is not eligible for this selection", id)
		}
	}

	p := gs.Players[sel.PlayerID]
	chosenSet := map[string]bool{}
	for _, id := range chosen {
		chosenSet[id] = true
		gs.RemoveFromDeck(sel.PlayerID, id)
	}
	// Unselected searched cards rotate to the bottom, preserving drawn order.
	for _, id := range sel.SearchedCards {
		if chosenSet[id] {
			continue
		}
		if gs.RemoveFromDeck(sel.PlayerID, id) {
			p.Deck.MainDeck = append(p.Deck.MainDeck, id)
		}
	}

	for _, id := range chosen {
		e.deliverSearched(gs, sel, id)
	}
	return nil
}

// deliverSearched places one searched card per the selection's destination.
// conditionalHelpZone falls back to hand when the help zone is occupied; a
// face-up help placement re-enters onPlay processing and may recursively open
// another selection.
func (e *Engine) deliverSearched(gs *GameState, sel *CardSelection, cardID string) {
	p := gs.Players[sel.PlayerID]
	dest := sel.Destination

	switch dest {
	case catalog.DestSPZone:
		if len(gs.ZoneCards(sel.PlayerID, catalog.ZoneSP)) == 0 {
			e.placeFromSearch(gs, sel.PlayerID, cardID, catalog.ZoneSP, true)
			gs.Events.Append(event.TypeCardMovedToSPZone, map[string]any{
				"playerId": sel.PlayerID, "cardId": cardID,
			})
			return
		}
	case catalog.DestHelpZone, catalog.DestConditionalHelpZone:
		if len(gs.ZoneCards(sel.PlayerID, catalog.ZoneHelp)) == 0 {
			e.placeFromSearch(gs, sel.PlayerID, cardID, catalog.ZoneHelp, false)
			gs.Events.Append(event.TypeCardMovedToHelpZone, map[string]any{
				"playerId": sel.PlayerID, "cardId": cardID,
			})
			if def := e.cat.Card(cardID); def != nil {
				e.runPlayTriggers(gs, sel.PlayerID, def)
			}
			return
		}
	}

	// Destination hand, or fallback when the zone was occupied.
	p.Deck.Hand = append(p.Deck.Hand, cardID)
	gs.Events.Append(event.TypeCardMovedToHand, map[string]any{
		"playerId": sel.PlayerID, "cardId": cardID, "source": "search",
	})
}

func (e *Engine) placeFromSearch(gs *GameState, playerID, cardID string, zone Zone, faceDown bool) {
	def := e.cat.Card(cardID)
	value := 0
	if !faceDown && def != nil {
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
			"fromSearch": true,
		},
		Turn:  gs.CurrentTurn,
		Phase: gs.Phase,
	})
}

// resolveFieldTarget records the chosen target as a synthetic APPLY_* entry.
func (e *Engine) resolveFieldTarget(gs *GameState, sel *CardSelection, chosen []string) error {
	for _, id := range chosen {
		var target *TargetRef
		for i := range sel.EligibleTargets {
			if sel.EligibleTargets[i].CardID == id {
				target = &sel.EligibleTargets[i]
				break
			}
		}
		if target == nil {
			return Errf(ErrCodeSelectionCard, "card %s is not an eligible target", id)
		}
		e.appendApplyRecord(gs, sel.PlayerID, sel.SourceCardID, sel.EffectType, sel.EffectValue, sel.Unremovable, *target)
	}
	return nil
}

// CancelExpiredSelection discards a pending selection older than ttl. Returns
// true if one was cancelled.
func (e *Engine) CancelExpiredSelection(gs *GameState, ttl time.Duration) bool {
	if gs.PendingAction == nil {
		return false
	}
	age := e.now().UnixMilli() - gs.PendingAction.CreatedAt
	if age < ttl.Milliseconds() {
		return false
	}
	sel := gs.Selections[gs.PendingAction.SelectionID]
	if sel != nil {
		delete(gs.Selections, sel.ID)
	}
	playerID := gs.PendingAction.PlayerID
	gs.PendingAction = nil
	gs.Events.Append(event.TypeErrorOccurred, map[string]any{
		"playerId":  playerID,
		"errorType": string(ErrCodeSelectionTimeout),
		"message":   "card selection timed out",
	})
	return true
}

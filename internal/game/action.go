package game

import (
	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/event"
)

// PlaceCard validates and commits a face-up or face-down placement. On any
// validation failure the state is unchanged apart from the appended
// ERROR_OCCURRED event.
func (e *Engine) PlaceCard(gs *GameState, playerID string, act Action) error {
	if err := e.validatePlacement(gs, playerID, act); err != nil {
		return e.emitError(gs, playerID, err)
	}
	return e.commitPlacement(gs, playerID, act)
}

// CheckGate rejects any non-SelectCard action while a pending selection is
// open: the owning player gets CARD_SELECTION_PENDING, the other player
// WAITING_FOR_PLAYER.
func (e *Engine) CheckGate(gs *GameState, playerID string, act Action) error {
	if gs.PendingAction == nil || act.Type == ActionSelectCard {
		return nil
	}
	if gs.PendingAction.PlayerID == playerID {
		return Errf(ErrCodeSelectionPending, "resolve pending card selection %s first", gs.PendingAction.SelectionID)
	}
	return Errf(ErrCodeWaitingForPlayer, "waiting for %s to resolve a card selection", gs.PendingAction.PlayerID)
}

func (e *Engine) validatePlacement(gs *GameState, playerID string, act Action) error {
	faceDown := act.Type == ActionPlayCardBack

	// 1. Selection gate.
	if err := e.CheckGate(gs, playerID, act); err != nil {
		return err
	}

	// Placements only happen inside a playable phase, on the actor's turn.
	if gs.Phase != PhaseMain && gs.Phase != PhaseSP {
		return Errf(ErrCodeInvalidPhase, "cannot place cards during %s", gs.Phase)
	}
	if gs.CurrentPlayer != playerID {
		return Errf(ErrCodeWaitingForPlayer, "it is %s's turn", gs.CurrentPlayer)
	}

	// 2. Basic bounds and catalog resolution.
	zone := catalog.ZoneByIndex(act.FieldIdx)
	if zone == "" {
		return Errf(ErrCodeInvalidPosition, "field index %d out of range", act.FieldIdx)
	}
	p := gs.Players[playerID]
	if p == nil {
		return Errf(ErrCodeGameNotFound, "player %s not in game", playerID)
	}
	if act.CardIdx < 0 || act.CardIdx >= len(p.Deck.Hand) {
		return Errf(ErrCodeInvalidCardIndex, "hand index %d out of range", act.CardIdx)
	}
	cardID := p.Deck.Hand[act.CardIdx]
	def := e.cat.Card(cardID)
	if def == nil {
		return Errf(ErrCodeCardNotFound, "card %s not in catalog", cardID)
	}

	// 3. Phase rules.
	if gs.Phase == PhaseMain && faceDown && zone == catalog.ZoneSP {
		return Errf(ErrCodePhaseRestriction, "sp zone cannot be set during main phase")
	}
	if gs.Phase == PhaseSP && zone == catalog.ZoneSP && !faceDown {
		return Errf(ErrCodeSPPhaseRestriction, "sp zone placements must be face-down")
	}
	if def.CardType == catalog.CardTypeSP {
		if gs.Phase != PhaseSP || zone != catalog.ZoneSP {
			if gs.Phase == PhaseMain {
				return Errf(ErrCodePhaseRestriction, "sp card %s can only be played to the sp zone during sp phase", def.Name)
			}
			return Errf(ErrCodeSPPhaseRestriction, "sp card %s can only be played to the sp zone during sp phase", def.Name)
		}
	}
	if p.FieldEffects.SpecialStates[StatePreventPlay] {
		return Errf(ErrCodeFieldEffectRestriction, "a field effect prevents %s from playing cards", playerID)
	}

	// Occupancy for utility zones applies to face-down placements as well:
	// help and sp hold at most one card total.
	if zone == catalog.ZoneHelp || zone == catalog.ZoneSP {
		if len(gs.ZoneCards(playerID, zone)) > 0 {
			return Errf(ErrCodeZoneOccupied, "%s zone already occupied", zone)
		}
	}

	if faceDown {
		// Face-down plays skip card-type and compatibility checks.
		return nil
	}

	// 4. Card-type / zone rules.
	switch def.CardType {
	case catalog.CardTypeCharacter:
		if !isCharacterZone(zone) {
			return Errf(ErrCodeCardTypeZone, "character %s can only go to top, left or right", def.Name)
		}
		if gs.FaceUpCharacter(playerID, zone) != nil {
			return Errf(ErrCodeZoneOccupied, "%s zone already has a face-up character", zone)
		}
	case catalog.CardTypeHelp:
		if zone != catalog.ZoneHelp {
			return Errf(ErrCodeCardTypeZone, "help card %s can only go to the help zone", def.Name)
		}
	case catalog.CardTypeSP:
		// Covered by the phase rule above.
	default:
		return Errf(ErrCodeCardTypeZone, "card type %s cannot be placed from hand", def.CardType)
	}

	// 5/6. Zone compatibility, unless a field effect grants placement freedom.
	if p.FieldEffects.SpecialStates[StateZonePlacementFreedom] {
		return nil
	}
	allowed := p.FieldEffects.ZoneRestrictions[zone]
	if !traitsCompatible(def, allowed) {
		return Errf(ErrCodeZoneCompatibility, "%s (traits %v) not allowed in %s zone (allows %v)", def.Name, def.Traits, zone, allowed)
	}
	return nil
}

// traitsCompatible accepts the card iff its traits intersect the allowed
// faction set, the set holds the "ALL" sentinel, or the card carries the
// universal "all" trait.
func traitsCompatible(def *catalog.CardDef, allowed []string) bool {
	if len(allowed) == 0 || containsString(allowed, catalog.RestrictionAll) {
		return true
	}
	if def.HasTrait(catalog.TraitAll) {
		return true
	}
	for _, t := range def.Traits {
		if containsString(allowed, t) {
			return true
		}
	}
	return false
}

func isCharacterZone(zone Zone) bool {
	for _, z := range catalog.CharacterZones {
		if z == zone {
			return true
		}
	}
	return false
}

func (e *Engine) commitPlacement(gs *GameState, playerID string, act Action) error {
	zone := catalog.ZoneByIndex(act.FieldIdx)
	faceDown := act.Type == ActionPlayCardBack
	cardID := gs.RemoveFromHand(playerID, act.CardIdx)
	def := e.cat.Card(cardID)

	value := 0
	if !faceDown {
		value = def.Power
	}
	pc := &PlacedCard{
		CardID:       cardID,
		IsFaceDown:   faceDown,
		ValueOnField: value,
		Owner:        playerID,
		Zone:         zone,
	}
	gs.Zones[playerID][zone] = append(gs.Zones[playerID][zone], pc)

	p := gs.Players[playerID]
	p.TurnActions = append(p.TurnActions, TurnAction{
		Turn:   gs.CurrentTurn,
		Type:   act.Type,
		CardID: cardID,
		Zone:   zone,
	})

	gs.Sequence.Append(PlayRecord{
		PlayerID: playerID,
		CardID:   cardID,
		Action:   SeqPlayCard,
		Zone:     zone,
		Data: map[string]any{
			"isFaceDown": faceDown,
			"fieldIdx":   act.FieldIdx,
		},
		Turn:  gs.CurrentTurn,
		Phase: gs.Phase,
	})

	gs.Events.Append(event.TypeCardPlayed, map[string]any{
		"playerId":   playerID,
		"cardId":     cardID,
		"zone":       string(zone),
		"isFaceDown": faceDown,
	})
	gs.Events.Append(event.TypeZoneFilled, map[string]any{
		"playerId": playerID,
		"zone":     string(zone),
	})

	if !faceDown {
		e.runPlayTriggers(gs, playerID, def)
	}
	return e.Simulate(gs)
}

// runPlayTriggers resolves a card's onSummon/onPlay rules at the moment of
// the originating play. A rule needing an interactive choice opens a pending
// selection; at most one selection opens per play.
func (e *Engine) runPlayTriggers(gs *GameState, playerID string, def *catalog.CardDef) {
	p := gs.Players[playerID]
	if def.CardType == catalog.CardTypeCharacter && p.FieldEffects.SpecialStates[StateSilenceOnSummon] {
		return
	}
	for _, rule := range def.Rules() {
		if rule.Kind != catalog.KindTriggered {
			continue
		}
		if rule.Trigger.Event != catalog.EventOnSummon && rule.Trigger.Event != catalog.EventOnPlay {
			continue
		}
		if !ConditionsMet(gs, e.cat, rule, playerID) {
			continue
		}
		gs.Events.Append(event.TypeCardEffectTriggered, map[string]any{
			"playerId":   playerID,
			"cardId":     def.ID,
			"effectType": rule.Effect.Type,
		})
		if e.resolveTriggeredRule(gs, playerID, def.ID, rule) {
			// A selection opened; the rest of the rules wait behind the gate
			// and would race it. One interactive effect per card keeps the
			// protocol single-threaded.
			return
		}
	}
}

// resolveTriggeredRule executes one triggered rule. Returns true if it opened
// a pending selection.
func (e *Engine) resolveTriggeredRule(gs *GameState, playerID, sourceCardID string, rule catalog.EffectRule) bool {
	switch rule.Effect.Type {
	case catalog.EffectDrawCard:
		n := rule.Effect.Value
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			if drawn := gs.DrawCard(playerID); drawn != "" {
				gs.Events.Append(event.TypeCardMovedToHand, map[string]any{
					"playerId": playerID,
					"cardId":   drawn,
					"source":   "deck",
				})
			}
		}

	case catalog.EffectDiscardRandomCard:
		opp := gs.Opponent(playerID)
		oppState := gs.Players[opp]
		if oppState == nil || len(oppState.Deck.Hand) == 0 {
			return false
		}
		idx := e.rng(gs).Intn(len(oppState.Deck.Hand))
		discarded := gs.RemoveFromHand(opp, idx)
		gs.Events.Append(event.TypeCardEffectTriggered, map[string]any{
			"playerId":   opp,
			"cardId":     discarded,
			"effectType": catalog.EffectDiscardRandomCard,
		})

	case catalog.EffectSearchCard:
		return e.openSearchSelection(gs, playerID, sourceCardID, rule)

	case catalog.EffectNeutralizeEffect, catalog.EffectSetPower,
		catalog.EffectPowerBoost, catalog.EffectPowerNerf:
		targets := Targets(gs, e.cat, rule, playerID)
		if len(targets) == 0 {
			return false
		}
		if rule.Effect.SelectCount > 0 {
			return e.openTargetSelection(gs, playerID, sourceCardID, rule, targets)
		}
		// No choice involved: record the application against every target.
		for _, t := range targets {
			e.appendApplyRecord(gs, playerID, sourceCardID, rule.Effect.Type, rule.Effect.Value, rule.Unremovable, t)
		}
	}
	return false
}

// appendApplyRecord materializes a one-shot effect application as a synthetic
// sequence entry so that replay is deterministic.
func (e *Engine) appendApplyRecord(gs *GameState, playerID, sourceCardID, effectType string, value int, unremovable bool, t TargetRef) {
	action := ""
	switch effectType {
	case catalog.EffectSetPower:
		action = SeqApplySetPower
	case catalog.EffectPowerBoost:
		action = SeqApplyPowerBoost
	case catalog.EffectPowerNerf:
		action = SeqApplyPowerNerf
	case catalog.EffectNeutralizeEffect:
		action = SeqApplyNeutralize
	default:
		return
	}
	gs.Sequence.Append(PlayRecord{
		PlayerID: playerID,
		CardID:   sourceCardID,
		Action:   action,
		Zone:     t.Zone,
		Data: map[string]any{
			"targetPlayerId": t.PlayerID,
			"targetZone":     string(t.Zone),
			"targetCardId":   t.CardID,
			"value":          value,
			"unremovable":    unremovable,
		},
		Turn:  gs.CurrentTurn,
		Phase: gs.Phase,
	})
}

package game

import (
	"sort"
	"strings"

	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/event"
)

// Markers in an effect description that defer an SP effect until after the
// combo calculation.
var afterComboMarkers = []string{"總能力結算", "總能力", "combo"}

type spReveal struct {
	playerID string
	card     *PlacedCard
	def      *catalog.CardDef
}

// ResolveBattle runs the full battle sequence: SP reveal, before-combo SP
// effects, point computation, after-combo SP effects, victory-point award and
// the round or game transition.
func (e *Engine) ResolveBattle(gs *GameState) error {
	gs.Phase = PhaseBattle
	gs.Events.Append(event.TypeGamePhaseStart, map[string]any{
		"phase": string(PhaseBattle),
	})

	reveals := e.revealSPCards(gs)

	e.executeSPEffects(gs, reveals, false)
	if err := e.Simulate(gs); err != nil {
		return err
	}
	for _, id := range gs.PlayerIDs() {
		gs.Players[id].PlayerPoint = e.ComputePoints(gs, id)
	}

	e.executeSPEffects(gs, reveals, true)
	if err := e.Simulate(gs); err != nil {
		return err
	}
	for _, id := range gs.PlayerIDs() {
		gs.Players[id].PlayerPoint = e.ComputePoints(gs, id)
	}

	e.awardVictoryPoints(gs)
	if e.checkGameEnd(gs) {
		return nil
	}
	return e.transitionRound(gs)
}

// revealSPCards flips every sp-zone card face-up and returns them ordered by
// the owner's leader initialPoint descending, first player breaking ties.
func (e *Engine) revealSPCards(gs *GameState) []spReveal {
	var reveals []spReveal
	for _, id := range gs.PlayerIDs() {
		for _, pc := range gs.ZoneCards(id, catalog.ZoneSP) {
			def := e.cat.Card(pc.CardID)
			if def == nil {
				continue
			}
			if pc.IsFaceDown {
				pc.IsFaceDown = false
				pc.ValueOnField = def.Power
			}
			reveals = append(reveals, spReveal{playerID: id, card: pc, def: def})
		}
	}
	initialPoint := func(playerID string) int {
		if def := gs.CurrentLeaderDef(e.cat, playerID); def != nil {
			return def.InitialPoint
		}
		return 0
	}
	sort.SliceStable(reveals, func(i, j int) bool {
		a, b := reveals[i], reveals[j]
		if pa, pb := initialPoint(a.playerID), initialPoint(b.playerID); pa != pb {
			return pa > pb
		}
		return a.playerID == gs.FirstPlayer && b.playerID != gs.FirstPlayer
	})
	return reveals
}

// isAfterCombo classifies an SP rule into the before/after-combo split.
func isAfterCombo(rule catalog.EffectRule) bool {
	if rule.Trigger.Event == catalog.EventFinalCalculation {
		return true
	}
	desc := strings.ToLower(rule.Description)
	for _, marker := range afterComboMarkers {
		if strings.Contains(desc, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// executeSPEffects resolves the triggered rules of revealed SP cards for one
// side of the combo split. Targets are applied wholesale; battle-time effects
// never open interactive selections.
func (e *Engine) executeSPEffects(gs *GameState, reveals []spReveal, after bool) {
	for _, r := range reveals {
		owner := gs.Players[r.playerID]
		if owner != nil && owner.FieldEffects.IsDisabled(r.def.ID) {
			continue
		}
		for _, rule := range r.def.Rules() {
			if rule.Kind != catalog.KindTriggered {
				continue
			}
			switch rule.Trigger.Event {
			case catalog.EventSPPhase, catalog.EventOnPlay, catalog.EventFinalCalculation:
			default:
				continue
			}
			if isAfterCombo(rule) != after {
				continue
			}
			if !ConditionsMet(gs, e.cat, rule, r.playerID) {
				continue
			}
			gs.Events.Append(event.TypeCardEffectTriggered, map[string]any{
				"playerId":   r.playerID,
				"cardId":     r.def.ID,
				"effectType": rule.Effect.Type,
			})
			e.applySPRule(gs, r.playerID, r.def.ID, rule)
		}
	}
}

func (e *Engine) applySPRule(gs *GameState, playerID, sourceCardID string, rule catalog.EffectRule) {
	switch rule.Effect.Type {
	case catalog.EffectSetPower, catalog.EffectPowerBoost,
		catalog.EffectPowerNerf, catalog.EffectNeutralizeEffect:
		for _, t := range Targets(gs, e.cat, rule, playerID) {
			e.appendApplyRecord(gs, playerID, sourceCardID, rule.Effect.Type, rule.Effect.Value, rule.Unremovable, t)
		}
	case catalog.EffectDrawCard:
		n := rule.Effect.Value
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			gs.DrawCard(playerID)
		}
	default:
		// Continuous-style SP rules (totalPowerNerf, disableComboBonus, ...)
		// are staged by the simulator once the card is face-up.
	}
}

// ComputePoints computes a player's battle total: face-up character powers
// plus combo bonuses (unless disabled) plus post-combo modifiers, floor 0.
func (e *Engine) ComputePoints(gs *GameState, playerID string) int {
	p := gs.Players[playerID]
	if p == nil {
		return 0
	}
	total := 0
	for _, pc := range gs.FaceUpCharacters(playerID) {
		if power, ok := p.FieldEffects.CalculatedPowers[pc.CardID]; ok {
			total += power
		}
	}
	if !p.FieldEffects.SpecialStates[StateDisableComboBonus] {
		total += e.comboBonus(gs, playerID)
	}
	total += p.FieldEffects.VictoryPointModifiers
	if total < 0 {
		total = 0
	}
	return total
}

// comboBonus evaluates the catalog's combo table against the player's face-up
// characters. Bonuses are additive; combos use base power, not modified power.
func (e *Engine) comboBonus(gs *GameState, playerID string) int {
	var defs []*catalog.CardDef
	for _, pc := range gs.FaceUpCharacters(playerID) {
		if def := e.cat.Card(pc.CardID); def != nil && def.CardType == catalog.CardTypeCharacter {
			defs = append(defs, def)
		}
	}
	combos := e.cat.Combos()
	bonus := 0

	if len(defs) >= 2 {
		same, different := true, true
		seen := map[string]bool{}
		for _, d := range defs {
			if d.GameType != defs[0].GameType {
				same = false
			}
			if seen[d.GameType] {
				different = false
			}
			seen[d.GameType] = true
		}
		if same {
			bonus += combos[catalog.ComboAllSameType].Bonus
		}
		if different {
			bonus += combos[catalog.ComboAllDifferentType].Bonus
		}

		traitCount := map[string]int{}
		for _, d := range defs {
			for _, t := range d.Traits {
				traitCount[t]++
			}
		}
		for _, n := range traitCount {
			if n >= 2 {
				bonus += combos[catalog.ComboTraitSynergy].Bonus
				break
			}
		}
	}

	if len(defs) >= 3 {
		trio := true
		min, max := defs[0].Power, defs[0].Power
		for _, d := range defs {
			if d.Power < 80 {
				trio = false
			}
			if d.Power < min {
				min = d.Power
			}
			if d.Power > max {
				max = d.Power
			}
		}
		if trio {
			bonus += combos[catalog.ComboHighPowerTrio].Bonus
		}
		if max-min <= 30 {
			bonus += combos[catalog.ComboBalancedPower].Bonus
		}
	}
	return bonus
}

// awardVictoryPoints gives the round winner the point difference; ties award
// nothing.
func (e *Engine) awardVictoryPoints(gs *GameState) {
	ids := gs.PlayerIDs()
	if len(ids) != 2 {
		return
	}
	a, b := gs.Players[ids[0]], gs.Players[ids[1]]
	diff := a.PlayerPoint - b.PlayerPoint
	winner := ""
	switch {
	case diff > 0:
		a.VictoryPoints += diff
		winner = a.ID
	case diff < 0:
		b.VictoryPoints += -diff
		winner = b.ID
	}
	gs.Events.Append(event.TypeBattleResult, map[string]any{
		"points": map[string]any{
			a.ID: a.PlayerPoint,
			b.ID: b.PlayerPoint,
		},
		"roundWinner": winner,
		"award":       abs(diff),
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// checkGameEnd ends the game when a player crosses the victory threshold or
// a leader list is exhausted. Returns true if the game ended.
func (e *Engine) checkGameEnd(gs *GameState) bool {
	for _, id := range gs.PlayerIDs() {
		if gs.Players[id].VictoryPoints >= GameEndThreshold {
			e.endGame(gs, id)
			return true
		}
	}
	for _, id := range gs.PlayerIDs() {
		p := gs.Players[id]
		if p.Deck.CurrentLeaderIdx+1 >= len(p.Deck.Leaders) {
			e.endGame(gs, e.leadingPlayer(gs))
			return true
		}
	}
	return false
}

// leadingPlayer returns the player with more victory points, or "" for a draw.
func (e *Engine) leadingPlayer(gs *GameState) string {
	ids := gs.PlayerIDs()
	if len(ids) != 2 {
		return ""
	}
	a, b := gs.Players[ids[0]], gs.Players[ids[1]]
	switch {
	case a.VictoryPoints > b.VictoryPoints:
		return a.ID
	case b.VictoryPoints > a.VictoryPoints:
		return b.ID
	}
	return ""
}

func (e *Engine) endGame(gs *GameState, winner string) {
	gs.Phase = PhaseGameEnd
	gs.Winner = winner
	result := winner
	if winner == "" {
		result = "draw"
	}
	gs.Events.Append(event.TypeGameEnd, map[string]any{
		"winner": result,
	})
}

// transitionRound clears the field, advances each player's leader, re-records
// the new leader plays (preserving replayability), re-runs the simulator and
// starts the next round's first turn.
func (e *Engine) transitionRound(gs *GameState) error {
	gs.Round++
	gs.Events.Append(event.TypeRoundEnd, map[string]any{
		"round": gs.Round - 1,
	})

	for _, id := range gs.PlayerIDs() {
		zones := gs.Zones[id]
		for _, z := range catalog.FieldZones {
			zones[z] = []*PlacedCard{}
		}
		zones[catalog.ZoneLeader] = []*PlacedCard{}
		p := gs.Players[id]
		p.Deck.CurrentLeaderIdx++
		p.PlayerPoint = 0
		p.TurnActions = nil
		p.SPPassed = false
	}

	gs.Sequence.Clear(false)
	// New leaders in first-player order.
	order := []string{gs.FirstPlayer, gs.Opponent(gs.FirstPlayer)}
	for _, id := range order {
		if err := e.recordLeaderPlay(gs, id); err != nil {
			return err
		}
	}
	if err := e.Simulate(gs); err != nil {
		return err
	}
	e.StartTurn(gs)
	return nil
}

// recordLeaderPlay places the player's current leader into the leader zone
// and records the summon in the play sequence.
func (e *Engine) recordLeaderPlay(gs *GameState, playerID string) error {
	p := gs.Players[playerID]
	def := gs.CurrentLeaderDef(e.cat, playerID)
	if p == nil || def == nil {
		return Errf(ErrCodeCardNotFound, "player %s has no current leader", playerID)
	}
	gs.Zones[playerID][catalog.ZoneLeader] = []*PlacedCard{{
		CardID:       def.ID,
		IsFaceDown:   false,
		ValueOnField: def.Power,
		Owner:        playerID,
		Zone:         catalog.ZoneLeader,
	}}
	gs.Sequence.Append(PlayRecord{
		PlayerID: playerID,
		CardID:   def.ID,
		Action:   SeqPlayLeader,
		Zone:     catalog.ZoneLeader,
		Data: map[string]any{
			"leaderIndex": p.Deck.CurrentLeaderIdx,
		},
		Turn:  gs.CurrentTurn,
		Phase: gs.Phase,
	})
	return nil
}

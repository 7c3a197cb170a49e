package game

import (
	"sort"

	"github.com/politicard/politicard/internal/catalog"
)

// StateSilenceOnSummon marks a player whose cards' summon triggers are
// suppressed by an opposing effect.
const StateSilenceOnSummon = "silenceOnSummon"

// Simulator derives all continuous and cross-card effects by replaying the
// full ordered play sequence against the current state. Replaying, rather
// than mutating, keeps the derived state internally consistent under
// out-of-order additions, late-joining selections and injected test states:
// equal inputs always produce equal outputs.
type Simulator struct {
	cat *catalog.Catalog
}

// NewSimulator creates a simulator over the given catalog.
func NewSimulator(cat *catalog.Catalog) *Simulator {
	return &Simulator{cat: cat}
}

// powerAcc accumulates per-card power state during a replay pass.
type powerAcc struct {
	override    int
	hasOverride bool
	locked      bool // unremovable setPower: later modifiers are ignored
	mods        int
}

// Replay recomputes each player's fieldEffects from scratch. It mutates only
// the derived structures; zones, hands, decks and the sequence itself are
// never touched.
func (s *Simulator) Replay(gs *GameState) error {
	if err := gs.Sequence.Validate(); err != nil {
		return err
	}

	for _, p := range gs.Players {
		p.FieldEffects = NewFieldEffects()
	}

	staged := s.stageEffects(gs)
	s.sortStaged(gs, staged)

	powers := map[string]map[string]*powerAcc{}
	for id := range gs.Players {
		powers[id] = map[string]*powerAcc{}
	}

	for i := range staged {
		s.applyStaged(gs, &staged[i], powers)
		src := gs.Players[staged[i].SourcePlayerID]
		if src != nil {
			src.FieldEffects.ActiveEffects = append(src.FieldEffects.ActiveEffects, staged[i])
		}
	}

	// Final pass: materialize calculated powers for every face-up character.
	for playerID, p := range gs.Players {
		for _, pc := range gs.FaceUpCharacters(playerID) {
			def := s.cat.Card(pc.CardID)
			if def == nil || def.CardType != catalog.CardTypeCharacter {
				continue
			}
			acc := powers[playerID][pc.CardID]
			base := def.Power
			mods := 0
			if acc != nil {
				if acc.hasOverride {
					base = acc.override
				}
				if !acc.locked {
					mods = acc.mods
				}
			}
			power := base + mods
			if power < 0 {
				power = 0
			}
			p.FieldEffects.CalculatedPowers[pc.CardID] = power
		}
	}
	return nil
}

// stageEffects walks the sequence in ascending order and collects active
// effect candidates. Triggered onSummon/onPlay rules are not re-executed here;
// their persistent results live in zones or in synthetic APPLY_* records.
func (s *Simulator) stageEffects(gs *GameState) []ActiveEffect {
	var staged []ActiveEffect
	for _, rec := range gs.Sequence.All() {
		switch rec.Action {
		case SeqPlayLeader:
			def := s.cat.Card(rec.CardID)
			if def == nil {
				continue
			}
			s.importLeaderCompatibility(gs, rec.PlayerID, def)
			staged = append(staged, stageContinuousRules(def, rec.PlayerID)...)

		case SeqPlayCard:
			pc := gs.FindPlaced(rec.PlayerID, rec.CardID)
			if pc == nil || pc.IsFaceDown {
				// Off-field or face-down cards contribute no effects.
				continue
			}
			def := s.cat.Card(rec.CardID)
			if def == nil {
				continue
			}
			staged = append(staged, stageContinuousRules(def, rec.PlayerID)...)

		default:
			if ae, ok := syntheticEffect(rec); ok {
				staged = append(staged, ae)
			}
		}
	}
	return staged
}

// importLeaderCompatibility overrides the "ALL" sentinel for the character
// zones named in the leader's compatibility table. Help and sp stay open
// unless a later rule narrows them.
func (s *Simulator) importLeaderCompatibility(gs *GameState, playerID string, leader *catalog.CardDef) {
	p := gs.Players[playerID]
	if p == nil {
		return
	}
	for name, allowed := range leader.ZoneCompatibility {
		z := compatZone(name)
		if z == "" {
			continue
		}
		p.FieldEffects.ZoneRestrictions[z] = append([]string(nil), allowed...)
	}
}

func compatZone(name string) Zone {
	switch name {
	case "top", "TOP":
		return catalog.ZoneTop
	case "left", "LEFT":
		return catalog.ZoneLeft
	case "right", "RIGHT":
		return catalog.ZoneRight
	default:
		return ""
	}
}

func stageContinuousRules(def *catalog.CardDef, playerID string) []ActiveEffect {
	var out []ActiveEffect
	for _, rule := range def.Rules() {
		if rule.Kind != catalog.KindContinuous || rule.Trigger.Event != catalog.EventAlways {
			continue
		}
		out = append(out, ActiveEffect{
			SourceCardID:   def.ID,
			SourcePlayerID: playerID,
			Rule:           rule,
			Priority:       EffectPriority(rule.Effect.Type),
			Unremovable:    rule.Unremovable,
			Enabled:        true,
		})
	}
	return out
}

// syntheticEffect reconstructs an applied one-shot effect from an APPLY_*
// sequence record.
func syntheticEffect(rec PlayRecord) (ActiveEffect, bool) {
	var effectType string
	switch rec.Action {
	case SeqApplySetPower:
		effectType = catalog.EffectSetPower
	case SeqApplyPowerBoost:
		effectType = catalog.EffectPowerBoost
	case SeqApplyPowerNerf:
		effectType = catalog.EffectPowerNerf
	case SeqApplyNeutralize:
		effectType = catalog.EffectNeutralizeEffect
	default:
		return ActiveEffect{}, false
	}
	target := &TargetRef{
		PlayerID: dataString(rec.Data, "targetPlayerId"),
		Zone:     Zone(dataString(rec.Data, "targetZone")),
		CardID:   dataString(rec.Data, "targetCardId"),
	}
	return ActiveEffect{
		SourceCardID:   rec.CardID,
		SourcePlayerID: rec.PlayerID,
		Rule: catalog.EffectRule{
			Kind:   catalog.KindTriggered,
			Effect: catalog.EffectSpec{Type: effectType, Value: dataInt(rec.Data, "value")},
		},
		Priority:    EffectPriority(effectType),
		Unremovable: dataBool(rec.Data, "unremovable"),
		Enabled:     true,
		Target:      target,
	}, true
}

// sortStaged orders effects by priority descending; ties break by source
// leader initialPoint descending, then first player first, then source card
// ID ascending. The order is a pure function of the inputs.
func (s *Simulator) sortStaged(gs *GameState, staged []ActiveEffect) {
	initialPoint := func(playerID string) int {
		if def := gs.CurrentLeaderDef(s.cat, playerID); def != nil {
			return def.InitialPoint
		}
		return 0
	}
	sort.SliceStable(staged, func(i, j int) bool {
		a, b := staged[i], staged[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if pa, pb := initialPoint(a.SourcePlayerID), initialPoint(b.SourcePlayerID); pa != pb {
			return pa > pb
		}
		if a.SourcePlayerID != b.SourcePlayerID {
			if a.SourcePlayerID == gs.FirstPlayer {
				return true
			}
			if b.SourcePlayerID == gs.FirstPlayer {
				return false
			}
			return a.SourcePlayerID < b.SourcePlayerID
		}
		return a.SourceCardID < b.SourceCardID
	})
}

func (s *Simulator) applyStaged(gs *GameState, ae *ActiveEffect, powers map[string]map[string]*powerAcc) {
	srcPlayer := gs.Players[ae.SourcePlayerID]
	if srcPlayer == nil {
		ae.Enabled = false
		return
	}

	// A neutralized source contributes nothing, unless flagged unremovable.
	if srcPlayer.FieldEffects.IsDisabled(ae.SourceCardID) && !ae.Unremovable {
		ae.Enabled = false
		return
	}

	// Applied effects carry their target; everything else evaluates
	// conditions and enumerates targets at apply time.
	var targets []TargetRef
	if ae.Target != nil {
		targets = []TargetRef{*ae.Target}
	} else {
		if !ConditionsMet(gs, s.cat, ae.Rule, ae.SourcePlayerID) {
			ae.Enabled = false
			return
		}
		targets = Targets(gs, s.cat, ae.Rule, ae.SourcePlayerID)
	}

	eff := ae.Rule.Effect
	switch eff.Type {
	case catalog.EffectPowerBoost, catalog.EffectModifyPower:
		for _, t := range targets {
			acc := accFor(powers, t)
			acc.mods += eff.Value
		}
	case catalog.EffectPowerNerf:
		for _, t := range targets {
			acc := accFor(powers, t)
			acc.mods -= eff.Value
		}
	case catalog.EffectSetPower:
		for _, t := range targets {
			acc := accFor(powers, t)
			acc.override = eff.Value
			acc.hasOverride = true
			acc.mods = 0
			if ae.Unremovable {
				acc.locked = true
			}
		}
	case catalog.EffectNeutralizeEffect:
		for _, t := range targets {
			s.neutralize(gs, ae, t)
		}
	case catalog.EffectZoneRestriction:
		for _, owner := range ownersOf(gs, ae) {
			fe := gs.Players[owner].FieldEffects
			fe.ZoneRestrictions[eff.Zone] = intersectRestriction(fe.ZoneRestrictions[eff.Zone], eff.Allowed)
		}
	case catalog.EffectDisableComboBonus:
		for _, owner := range ownersOf(gs, ae) {
			gs.Players[owner].FieldEffects.SpecialStates[StateDisableComboBonus] = true
		}
	case catalog.EffectTotalPowerNerf:
		for _, owner := range ownersOf(gs, ae) {
			gs.Players[owner].FieldEffects.VictoryPointModifiers -= eff.Value
		}
	case catalog.EffectZonePlacementFreedom:
		for _, owner := range ownersOf(gs, ae) {
			gs.Players[owner].FieldEffects.SpecialStates[StateZonePlacementFreedom] = true
		}
	case catalog.EffectForcePlaySP:
		for _, owner := range ownersOf(gs, ae) {
			gs.Players[owner].FieldEffects.SpecialStates[StateForcedSPPlay] = true
		}
	case catalog.EffectPreventPlay:
		for _, owner := range ownersOf(gs, ae) {
			gs.Players[owner].FieldEffects.SpecialStates[StatePreventPlay] = true
		}
	case catalog.EffectSilenceOnSummon:
		for _, owner := range ownersOf(gs, ae) {
			gs.Players[owner].FieldEffects.SpecialStates[StateSilenceOnSummon] = true
		}
	default:
		// Consumable effect types (drawCard, searchCard, ...) resolve at play
		// time; nothing persistent to derive here.
		ae.Enabled = false
	}
}

// neutralize disables a target card's effects unless the target carries an
// unremovable rule. Each (source, target) pair is recorded once in the audit
// log, so replays stay idempotent.
func (s *Simulator) neutralize(gs *GameState, ae *ActiveEffect, t TargetRef) {
	def := s.cat.Card(t.CardID)
	if def != nil {
		for _, rule := range def.Rules() {
			if rule.Unremovable {
				return
			}
		}
	}
	fe := gs.Players[t.PlayerID].FieldEffects
	if !fe.IsDisabled(t.CardID) {
		fe.DisabledCards = append(fe.DisabledCards, DisabledCard{CardID: t.CardID, Zone: t.Zone})
	}
	for _, rec := range gs.Neutralizations {
		if rec.SourceCardID == ae.SourceCardID && rec.TargetCardID == t.CardID {
			return
		}
	}
	gs.Neutralizations = append(gs.Neutralizations, NeutralizationRecord{
		SourceCardID:   ae.SourceCardID,
		SourcePlayerID: ae.SourcePlayerID,
		TargetCardID:   t.CardID,
		TargetPlayerID: t.PlayerID,
		Turn:           gs.CurrentTurn,
	})
}

// ownersOf resolves which players a player-scoped effect lands on.
func ownersOf(gs *GameState, ae *ActiveEffect) []string {
	opp := gs.Opponent(ae.SourcePlayerID)
	switch ae.Rule.Target.Owner {
	case catalog.OwnerOpponent:
		if opp == "" {
			return nil
		}
		return []string{opp}
	case catalog.OwnerBoth:
		if opp == "" {
			return []string{ae.SourcePlayerID}
		}
		return []string{ae.SourcePlayerID, opp}
	default:
		return []string{ae.SourcePlayerID}
	}
}

func accFor(powers map[string]map[string]*powerAcc, t TargetRef) *powerAcc {
	byCard := powers[t.PlayerID]
	if byCard == nil {
		byCard = map[string]*powerAcc{}
		powers[t.PlayerID] = byCard
	}
	acc := byCard[t.CardID]
	if acc == nil {
		acc = &powerAcc{}
		byCard[t.CardID] = acc
	}
	return acc
}

// intersectRestriction narrows an allowed-faction set. The "ALL" sentinel on
// either side yields the other side.
func intersectRestriction(current, allowed []string) []string {
	if len(allowed) == 0 {
		return current
	}
	if containsString(current, catalog.RestrictionAll) {
		return append([]string(nil), allowed...)
	}
	if containsString(allowed, catalog.RestrictionAll) {
		return current
	}
	var out []string
	for _, v := range current {
		if containsString(allowed, v) {
			out = append(out, v)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func dataString(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

func dataInt(data map[string]any, key string) int {
	if data == nil {
		return 0
	}
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		// JSON round-trips numbers as float64.
		return int(v)
	}
	return 0
}

func dataBool(data map[string]any, key string) bool {
	if data == nil {
		return false
	}
	if b, ok := data[key].(bool); ok {
		return b
	}
	return false
}

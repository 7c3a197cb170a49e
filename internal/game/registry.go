package game

import (
	"strings"

	"github.com/politicard/politicard/internal/catalog"
)

// Effect priority classes. Higher applies first.
const (
	PriorityDisableOpponentCards = 100
	PriorityNullification        = 90
	PriorityModification         = 80
	PriorityZoneRestriction      = 70
	PriorityPowerBoost           = 60
	PriorityDefault              = 50
)

// EffectPriority returns the fixed priority class for an effect type.
func EffectPriority(effectType string) int {
	switch effectType {
	case catalog.EffectSilenceOnSummon, catalog.EffectPreventPlay:
		return PriorityDisableOpponentCards
	case catalog.EffectNeutralizeEffect:
		return PriorityNullification
	case catalog.EffectSetPower, catalog.EffectModifyPower,
		catalog.EffectTotalPowerNerf, catalog.EffectDisableComboBonus:
		return PriorityModification
	case catalog.EffectZoneRestriction, catalog.EffectZonePlacementFreedom:
		return PriorityZoneRestriction
	case catalog.EffectPowerBoost, catalog.EffectPowerNerf:
		return PriorityPowerBoost
	default:
		return PriorityDefault
	}
}

// EffectsOf returns a card's declarative rules, or nil for unknown cards.
func EffectsOf(cat *catalog.Catalog, cardID string) []catalog.EffectRule {
	return cat.Card(cardID).Rules()
}

// ConditionsMet evaluates every condition of a rule against the current
// snapshot; it returns false on the first failure. Leader-name conditions use
// substring matching.
func ConditionsMet(gs *GameState, cat *catalog.Catalog, rule catalog.EffectRule, sourcePlayer string) bool {
	for _, cond := range rule.Trigger.Conditions {
		if !conditionMet(gs, cat, cond, sourcePlayer) {
			return false
		}
	}
	return true
}

func conditionMet(gs *GameState, cat *catalog.Catalog, cond catalog.Condition, src string) bool {
	opp := gs.Opponent(src)
	switch cond.Type {
	case catalog.CondSelfHasCharacterWithName:
		return hasCharacterNamed(gs, cat, src, cond.Value)
	case catalog.CondOpponentHasCharacterWithName:
		return hasCharacterNamed(gs, cat, opp, cond.Value)
	case catalog.CondSelfHasLeader:
		return leaderNameContains(gs, cat, src, cond.Value)
	case catalog.CondOpponentLeader:
		return leaderNameContains(gs, cat, opp, cond.Value)
	case catalog.CondOpponentHandCountMoreThan:
		return handCount(gs, opp) > cond.Count
	case catalog.CondOpponentHandCount:
		return compareCount(handCount(gs, opp), cond.Operator, cond.Count)
	case catalog.CondZoneEmpty:
		return len(gs.ZoneCards(src, cond.Zone)) == 0
	case catalog.CondAllyFieldContainsName:
		return fieldContainsName(gs, cat, src, cond.Value)
	case catalog.CondOpponentFieldContainsName:
		return fieldContainsName(gs, cat, opp, cond.Value)
	case catalog.CondOr:
		for _, sub := range cond.Conditions {
			if conditionMet(gs, cat, sub, src) {
				return true
			}
		}
		return false
	default:
		// Unknown condition types fail closed.
		return false
	}
}

func hasCharacterNamed(gs *GameState, cat *catalog.Catalog, playerID, name string) bool {
	for _, pc := range gs.FaceUpCharacters(playerID) {
		if def := cat.Card(pc.CardID); def != nil && def.Name == name {
			return true
		}
	}
	return false
}

func leaderNameContains(gs *GameState, cat *catalog.Catalog, playerID, sub string) bool {
	def := gs.CurrentLeaderDef(cat, playerID)
	return def != nil && strings.Contains(def.Name, sub)
}

func fieldContainsName(gs *GameState, cat *catalog.Catalog, playerID, name string) bool {
	for _, z := range catalog.FieldZones {
		for _, pc := range gs.ZoneCards(playerID, z) {
			if pc.IsFaceDown {
				continue
			}
			if def := cat.Card(pc.CardID); def != nil && strings.Contains(def.Name, name) {
				return true
			}
		}
	}
	return false
}

func handCount(gs *GameState, playerID string) int {
	p, ok := gs.Players[playerID]
	if !ok {
		return 0
	}
	return len(p.Deck.Hand)
}

func compareCount(have int, op string, want int) bool {
	switch op {
	case ">", "moreThan":
		return have > want
	case "<", "lessThan":
		return have < want
	case ">=":
		return have >= want
	case "<=":
		return have <= want
	case "==", "=", "":
		return have == want
	default:
		return false
	}
}

// Targets enumerates the placed cards a rule acts on, honoring the rule's
// owner, zone list, filters and limit. Face-down cards are never targets.
func Targets(gs *GameState, cat *catalog.Catalog, rule catalog.EffectRule, sourcePlayer string) []TargetRef {
	var owners []string
	switch rule.Target.Owner {
	case catalog.OwnerSelf:
		owners = []string{sourcePlayer}
	case catalog.OwnerOpponent:
		owners = []string{gs.Opponent(sourcePlayer)}
	case catalog.OwnerBoth:
		owners = []string{sourcePlayer, gs.Opponent(sourcePlayer)}
	default:
		owners = []string{sourcePlayer}
	}

	zones := rule.Target.Zones
	if len(zones) == 0 {
		zones = catalog.CharacterZones
	}

	var out []TargetRef
	for _, owner := range owners {
		if owner == "" {
			continue
		}
		for _, z := range zones {
			for _, pc := range gs.ZoneCards(owner, z) {
				if pc.IsFaceDown {
					continue
				}
				def := cat.Card(pc.CardID)
				if def == nil || !matchFilters(def, rule.Target.Filters) {
					continue
				}
				out = append(out, TargetRef{PlayerID: owner, Zone: z, CardID: pc.CardID})
				if rule.Target.Limit > 0 && len(out) >= rule.Target.Limit {
					return out
				}
			}
		}
	}
	return out
}

func matchFilters(def *catalog.CardDef, filters []catalog.Filter) bool {
	for _, f := range filters {
		switch f.Type {
		case catalog.FilterHasTrait:
			if !def.HasTrait(f.Value) {
				return false
			}
		case catalog.FilterHasGameType:
			if len(f.Values) > 0 {
				if !containsString(f.Values, def.GameType) {
					return false
				}
			} else if def.GameType != f.Value {
				return false
			}
		case catalog.FilterGameTypeOr:
			if !containsString(f.Values, def.GameType) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

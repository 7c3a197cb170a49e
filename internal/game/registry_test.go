package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/politicard/politicard/internal/catalog"
)

func TestEffectPriorityClasses(t *testing.T) {
	assert.Equal(t, PriorityDisableOpponentCards, EffectPriority(catalog.EffectSilenceOnSummon))
	assert.Equal(t, PriorityDisableOpponentCards, EffectPriority(catalog.EffectPreventPlay))
	assert.Equal(t, PriorityNullification, EffectPriority(catalog.EffectNeutralizeEffect))
	assert.Equal(t, PriorityModification, EffectPriority(catalog.EffectSetPower))
	assert.Equal(t, PriorityModification, EffectPriority(catalog.EffectTotalPowerNerf))
	assert.Equal(t, PriorityZoneRestriction, EffectPriority(catalog.EffectZoneRestriction))
	assert.Equal(t, PriorityPowerBoost, EffectPriority(catalog.EffectPowerBoost))
	assert.Equal(t, PriorityPowerBoost, EffectPriority(catalog.EffectPowerNerf))
	assert.Equal(t, PriorityDefault, EffectPriority(catalog.EffectDrawCard))
}

func TestConditionsHandCount(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}, Hand: []string{"c-1"}},
		DeckState{Leaders: []string{"s-2"}, Hand: []string{"c-17", "c-18", "c-19"}},
	)

	ruleWith := func(cond catalog.Condition) catalog.EffectRule {
		return catalog.EffectRule{
			Trigger: catalog.Trigger{Event: catalog.EventAlways, Conditions: []catalog.Condition{cond}},
		}
	}

	// p2 holds 3 cards.
	assert.True(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondOpponentHandCountMoreThan, Count: 2,
	}), "p1"))
	assert.False(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondOpponentHandCountMoreThan, Count: 3,
	}), "p1"))
	assert.True(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondOpponentHandCount, Operator: ">=", Count: 3,
	}), "p1"))
	assert.True(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondOpponentHandCount, Operator: "==", Count: 3,
	}), "p1"))
	assert.False(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondOpponentHandCount, Operator: "<", Count: 3,
	}), "p1"))
}

func TestConditionsFieldAndLeader(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}},
		DeckState{Leaders: []string{"s-2"}},
	)
	require.NoError(t, e.PlaceInjected(gs, "p1", "c-1", catalog.ZoneTop, false))

	ruleWith := func(cond catalog.Condition) catalog.EffectRule {
		return catalog.EffectRule{
			Trigger: catalog.Trigger{Event: catalog.EventAlways, Conditions: []catalog.Condition{cond}},
		}
	}

	assert.True(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondSelfHasCharacterWithName, Value: "鐵腕總統",
	}), "p1"))
	assert.True(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondOpponentHasCharacterWithName, Value: "鐵腕總統",
	}), "p2"))
	// Leader names match by substring.
	assert.True(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondSelfHasLeader, Value: "巨星",
	}), "p1"))
	assert.True(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondOpponentLeader, Value: "巨星",
	}), "p2"))
	assert.True(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondZoneEmpty, Zone: catalog.ZoneLeft,
	}), "p1"))
	assert.False(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondZoneEmpty, Zone: catalog.ZoneTop,
	}), "p1"))
	assert.True(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondAllyFieldContainsName, Value: "總統",
	}), "p1"))
	assert.True(t, ConditionsMet(gs, e.cat, ruleWith(catalog.Condition{
		Type: catalog.CondOpponentFieldContainsName, Value: "總統",
	}), "p2"))
}

func TestConditionOrAndUnknown(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}},
		DeckState{Leaders: []string{"s-2"}},
	)

	orRule := catalog.EffectRule{Trigger: catalog.Trigger{
		Event: catalog.EventAlways,
		Conditions: []catalog.Condition{{
			Type: catalog.CondOr,
			Conditions: []catalog.Condition{
				{Type: catalog.CondSelfHasCharacterWithName, Value: "不存在"},
				{Type: catalog.CondSelfHasLeader, Value: "巨星"},
			},
		}},
	}}
	assert.True(t, ConditionsMet(gs, e.cat, orRule, "p1"))

	// Unknown condition types fail closed.
	unknown := catalog.EffectRule{Trigger: catalog.Trigger{
		Event:      catalog.EventAlways,
		Conditions: []catalog.Condition{{Type: "somethingNew"}},
	}}
	assert.False(t, ConditionsMet(gs, e.cat, unknown, "p1"))
}

func TestTargetsSkipsFaceDownAndHonorsFilters(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}},
		DeckState{Leaders: []string{"s-2"}},
	)
	require.NoError(t, e.PlaceInjected(gs, "p1", "c-1", catalog.ZoneTop, false))
	require.NoError(t, e.PlaceInjected(gs, "p1", "c-3", catalog.ZoneLeft, false))
	require.NoError(t, e.PlaceInjected(gs, "p1", "c-2", catalog.ZoneRight, true))

	all := catalog.EffectRule{Target: catalog.TargetSpec{Owner: catalog.OwnerSelf}}
	got := Targets(gs, e.cat, all, "p1")
	require.Len(t, got, 2, "face-down cards are never targets")
	assert.Equal(t, "c-1", got[0].CardID)
	assert.Equal(t, "c-3", got[1].CardID)

	filtered := catalog.EffectRule{Target: catalog.TargetSpec{
		Owner:   catalog.OwnerSelf,
		Filters: []catalog.Filter{{Type: catalog.FilterHasTrait, Value: "愛國者"}},
	}}
	got = Targets(gs, e.cat, filtered, "p1")
	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].CardID)

	opp := catalog.EffectRule{Target: catalog.TargetSpec{Owner: catalog.OwnerOpponent}}
	assert.Empty(t, Targets(gs, e.cat, opp, "p1"))
	got = Targets(gs, e.cat, opp, "p2")
	assert.Len(t, got, 2)
}

func TestTargetsLimit(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}},
		DeckState{Leaders: []string{"s-2"}},
	)
	require.NoError(t, e.PlaceInjected(gs, "p1", "c-1", catalog.ZoneTop, false))
	require.NoError(t, e.PlaceInjected(gs, "p1", "c-2", catalog.ZoneLeft, false))

	rule := catalog.EffectRule{Target: catalog.TargetSpec{Owner: catalog.OwnerSelf, Limit: 1}}
	got := Targets(gs, e.cat, rule, "p1")
	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].CardID)
}

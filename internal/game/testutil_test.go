package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/event"
)

// testBase is the frozen wall clock every test engine starts from.
var testBase = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// testCatalog builds the in-memory card set the engine tests run against.
// The numbers mirror the shipped data files: s-1 boosts right-wing characters
// by 45, s-2 boosts everything by 40, and so on.
func testCatalog() *catalog.Catalog {
	char := func(id, name, gameType string, power int, traits ...string) *catalog.CardDef {
		return &catalog.CardDef{
			ID: id, Name: name, CardType: catalog.CardTypeCharacter,
			GameType: gameType, Power: power, Traits: traits,
		}
	}
	rules := func(def *catalog.CardDef, rr ...catalog.EffectRule) *catalog.CardDef {
		def.Effects = &catalog.EffectSet{Rules: rr}
		return def
	}
	continuous := func(effect catalog.EffectSpec, target catalog.TargetSpec) catalog.EffectRule {
		return catalog.EffectRule{
			Kind:    catalog.KindContinuous,
			Trigger: catalog.Trigger{Event: catalog.EventAlways},
			Target:  target,
			Effect:  effect,
		}
	}
	onSummon := func(effect catalog.EffectSpec, target catalog.TargetSpec) catalog.EffectRule {
		return catalog.EffectRule{
			Kind:    catalog.KindTriggered,
			Trigger: catalog.Trigger{Event: catalog.EventOnSummon},
			Target:  target,
			Effect:  effect,
		}
	}

	cards := []*catalog.CardDef{
		// Leaders.
		{
			ID: "s-1", Name: "右翼巨星", CardType: catalog.CardTypeLeader,
			InitialPoint: 60,
			ZoneCompatibility: map[string][]string{
				"top":   {"右翼", "自由", "經濟"},
				"left":  {catalog.RestrictionAll},
				"right": {catalog.RestrictionAll},
			},
			Effects: &catalog.EffectSet{Rules: []catalog.EffectRule{continuous(
				catalog.EffectSpec{Type: catalog.EffectPowerBoost, Value: 45},
				catalog.TargetSpec{Owner: catalog.OwnerSelf, Filters: []catalog.Filter{
					{Type: catalog.FilterGameTypeOr, Values: []string{"右翼"}},
				}},
			)}},
		},
		{
			ID: "s-2", Name: "大聯盟主席", CardType: catalog.CardTypeLeader,
			InitialPoint: 50,
			ZoneCompatibility: map[string][]string{
				"top":   {catalog.RestrictionAll},
				"left":  {catalog.RestrictionAll},
				"right": {catalog.RestrictionAll},
			},
			Effects: &catalog.EffectSet{Rules: []catalog.EffectRule{continuous(
				catalog.EffectSpec{Type: catalog.EffectPowerBoost, Value: 40},
				catalog.TargetSpec{Owner: catalog.OwnerSelf},
			)}},
		},
		{ID: "s-3", Name: "軍師閣下", CardType: catalog.CardTypeLeader, InitialPoint: 55},
		{ID: "s-4", Name: "街頭旗手", CardType: catalog.CardTypeLeader, InitialPoint: 45},

		// Characters.
		char("c-1", "鐵腕總統", "右翼", 100, "右翼", "愛國者"),
		char("c-2", "國安顧問", "右翼", 60, "右翼"),
		rules(char("c-3", "開明學者", "自由", 50, "自由", "理想主義者"),
			onSummon(catalog.EffectSpec{Type: catalog.EffectDrawCard, Value: 1},
				catalog.TargetSpec{Owner: catalog.OwnerSelf})),
		char("c-4", "黨鞭", "右翼", 40, "右翼"),
		char("c-5", "金融大亨", "經濟", 55, "經濟", "經濟學者"),
		char("c-6", "退役將軍", "右翼", 65, "右翼", "愛國者"),
		char("c-7", "名嘴主播", "媒體", 45, "媒體", "媒體人"),
		rules(char("c-9", "幕僚長", "右翼", 85, "右翼"),
			onSummon(catalog.EffectSpec{
				Type: catalog.EffectSearchCard, SearchCount: 3, SelectCount: 1,
				CardTypeFilter: catalog.CardTypeSP, Destination: catalog.DestSPZone,
			}, catalog.TargetSpec{Owner: catalog.OwnerSelf})),
		char("c-10", "鋼鐵部長", "右翼", 85, "右翼"),
		char("c-11", "社運健將", "草根", 50, "草根", "民粹"),
		rules(char("c-12", "封殺令推手", "左翼", 55, "左翼"),
			continuous(catalog.EffectSpec{Type: catalog.EffectSilenceOnSummon},
				catalog.TargetSpec{Owner: catalog.OwnerOpponent})),
		char("c-13", "地方樁腳", "草根", 40, "草根"),
		char("c-14", "工運老將", "左翼", 60, "左翼", "改革派"),
		char("c-17", "工會領袖", "左翼", 70, "左翼", "改革派"),
		char("c-18", "社福議員", "左翼", 50, "左翼"),
		char("c-19", "鄉里意見領袖", "草根", 45, "草根", "民粹"),
		rules(char("c-20", "抹黑專家", "左翼", 60, "左翼"),
			onSummon(catalog.EffectSpec{Type: catalog.EffectPowerNerf, Value: 20, SelectCount: 1},
				catalog.TargetSpec{Owner: catalog.OwnerOpponent})),
		rules(char("c-24", "圍堵戰略家", "右翼", 55, "右翼"),
			continuous(catalog.EffectSpec{
				Type: catalog.EffectZoneRestriction, Zone: catalog.ZoneTop, Allowed: []string{"右翼"},
			}, catalog.TargetSpec{Owner: catalog.OwnerOpponent})),
		rules(char("c-25", "人才獵頭", "右翼", 55, "右翼"),
			onSummon(catalog.EffectSpec{
				Type: catalog.EffectSearchCard, SearchCount: 2, SelectCount: 1,
				CardTypeFilter: catalog.CardTypeHelp, Destination: catalog.DestHelpZone,
			}, catalog.TargetSpec{Owner: catalog.OwnerSelf})),
		char("c-30", "草根新星", "草根", 50, "草根", "民粹"),

		// Help cards.
		rules(&catalog.CardDef{ID: "h-1", Name: "智囊團", CardType: catalog.CardTypeHelp, Traits: []string{catalog.TraitAll}},
			continuous(catalog.EffectSpec{Type: catalog.EffectPowerBoost, Value: 15},
				catalog.TargetSpec{Owner: catalog.OwnerSelf})),
		rules(&catalog.CardDef{ID: "h-2", Name: "輿論突襲", CardType: catalog.CardTypeHelp, Traits: []string{catalog.TraitAll}},
			catalog.EffectRule{
				Kind:        catalog.KindTriggered,
				Trigger:     catalog.Trigger{Event: catalog.EventOnPlay},
				Target:      catalog.TargetSpec{Owner: catalog.OwnerOpponent},
				Effect:      catalog.EffectSpec{Type: catalog.EffectSetPower, Value: 0, SelectCount: 1},
				Unremovable: true,
			}),
		rules(&catalog.CardDef{ID: "h-3", Name: "獻金網絡", CardType: catalog.CardTypeHelp, Traits: []string{catalog.TraitAll}},
			catalog.EffectRule{
				Kind:    catalog.KindTriggered,
				Trigger: catalog.Trigger{Event: catalog.EventOnPlay},
				Target:  catalog.TargetSpec{Owner: catalog.OwnerSelf},
				Effect:  catalog.EffectSpec{Type: catalog.EffectDrawCard, Value: 2},
			}),
		rules(&catalog.CardDef{ID: "h-4", Name: "輿論操作", CardType: catalog.CardTypeHelp, Traits: []string{catalog.TraitAll}},
			continuous(catalog.EffectSpec{Type: catalog.EffectPowerNerf, Value: 10},
				catalog.TargetSpec{Owner: catalog.OwnerOpponent})),
		{
			ID: "h-5", Name: "鐵桿後援會", CardType: catalog.CardTypeHelp, Traits: []string{catalog.TraitAll},
			Effects: &catalog.EffectSet{Rules: []catalog.EffectRule{{
				Kind:        catalog.KindContinuous,
				Trigger:     catalog.Trigger{Event: catalog.EventAlways},
				Target:      catalog.TargetSpec{Owner: catalog.OwnerSelf},
				Effect:      catalog.EffectSpec{Type: catalog.EffectPowerBoost, Value: 10},
				Unremovable: true,
			}}},
		},

		// SP cards.
		rules(&catalog.CardDef{ID: "sp-1", Name: "緊急動員令", CardType: catalog.CardTypeSP, Traits: []string{catalog.TraitAll}},
			continuous(catalog.EffectSpec{Type: catalog.EffectTotalPowerNerf, Value: 20},
				catalog.TargetSpec{Owner: catalog.OwnerOpponent})),
		rules(&catalog.CardDef{ID: "sp-2", Name: "全面動員", CardType: catalog.CardTypeSP, Traits: []string{catalog.TraitAll}},
			continuous(catalog.EffectSpec{Type: catalog.EffectPowerBoost, Value: 20},
				catalog.TargetSpec{Owner: catalog.OwnerSelf})),
		rules(&catalog.CardDef{ID: "sp-3", Name: "封口令", CardType: catalog.CardTypeSP, Traits: []string{catalog.TraitAll}},
			continuous(catalog.EffectSpec{Type: catalog.EffectDisableComboBonus},
				catalog.TargetSpec{Owner: catalog.OwnerOpponent})),
		rules(&catalog.CardDef{ID: "sp-4", Name: "最後一搏", CardType: catalog.CardTypeSP, Traits: []string{catalog.TraitAll}},
			catalog.EffectRule{
				Kind:    catalog.KindTriggered,
				Trigger: catalog.Trigger{Event: catalog.EventFinalCalculation},
				Target: catalog.TargetSpec{Owner: catalog.OwnerSelf, Filters: []catalog.Filter{
					{Type: catalog.FilterHasTrait, Value: "民粹"},
				}},
				Effect: catalog.EffectSpec{Type: catalog.EffectPowerBoost, Value: 30},
			}),
	}

	combos := catalog.ComboTable{
		catalog.ComboAllSameType:      {Bonus: 30},
		catalog.ComboAllDifferentType: {Bonus: 20},
		catalog.ComboHighPowerTrio:    {Bonus: 40},
		catalog.ComboTraitSynergy:     {Bonus: 25},
		catalog.ComboBalancedPower:    {Bonus: 15},
	}
	return catalog.NewFromDefs(cards, combos)
}

func newTestEngine() *Engine {
	return NewEngine(testCatalog()).WithClock(func() time.Time { return testBase })
}

// mainPhaseGame builds a two-player game already in the main phase, leaders
// recorded, p1 to act on turn 1.
func mainPhaseGame(t *testing.T, e *Engine, p1, p2 DeckState) *GameState {
	t.Helper()
	gs := NewGameState("g-test")
	gs.Seed = 7
	gs.AddPlayer("p1", p1)
	gs.AddPlayer("p2", p2)
	gs.FirstPlayer = "p1"
	require.NoError(t, e.recordLeaderPlay(gs, "p1"))
	require.NoError(t, e.recordLeaderPlay(gs, "p2"))
	gs.Phase = PhaseMain
	gs.CurrentTurn = 1
	gs.CurrentPlayer = "p1"
	require.NoError(t, e.Simulate(gs))
	return gs
}

func play(field, card int) Action {
	return Action{Type: ActionPlayCard, FieldIdx: field, CardIdx: card}
}

func playBack(field, card int) Action {
	return Action{Type: ActionPlayCardBack, FieldIdx: field, CardIdx: card}
}

// requireCode asserts the error carries the given engine code.
func requireCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, CodeOf(err), "got %v", err)
}

func lastEventOfType(gs *GameState, typ event.Type) *event.Event {
	evs := gs.Events.OfType(typ)
	if len(evs) == 0 {
		return nil
	}
	return &evs[len(evs)-1]
}

// fakeStore is a minimal in-package GameStore for orchestrator tests; the
// real backends live in the store package, which cannot be imported here.
type fakeStore struct {
	games map[string]*GameState
}

func newFakeStore() *fakeStore {
	return &fakeStore{games: map[string]*GameState{}}
}

func (s *fakeStore) Load(_ context.Context, gameID string) (*GameState, error) {
	gs, ok := s.games[gameID]
	if !ok {
		return nil, Errf(ErrCodeGameNotFound, "game %s not found", gameID)
	}
	return gs, nil
}

func (s *fakeStore) Save(_ context.Context, gs *GameState) error {
	s.games[gs.ID] = gs
	return nil
}

func (s *fakeStore) Delete(_ context.Context, gameID string) error {
	delete(s.games, gameID)
	return nil
}

func (s *fakeStore) List(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids, nil
}

package game

import (
	"math"
	"sort"

	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/event"
)

// Zone aliases the catalog's zone vocabulary; the two packages share it.
type Zone = catalog.Zone

// Phase is the game-flow phase of a room.
type Phase string

const (
	PhaseWaiting Phase = "WAITING"     // room open, players joining
	PhaseSetup   Phase = "SETUP_PHASE" // hands dealt, redraw window
	PhaseDraw    Phase = "DRAW_PHASE"
	PhaseMain    Phase = "MAIN_PHASE"
	PhaseSP      Phase = "SP_PHASE"
	PhaseBattle  Phase = "BATTLE_PHASE"
	PhaseGameEnd Phase = "GAME_END"
)

// GameEndThreshold is the cumulative victory-point total that ends the game.
const GameEndThreshold = 50

// InitialHandSize is the number of cards dealt when a game starts.
const InitialHandSize = 5

// ActionType is the inbound action vocabulary.
type ActionType string

const (
	ActionPlayCard     ActionType = "PlayCard"
	ActionPlayCardBack ActionType = "PlayCardBack"
	ActionSelectCard   ActionType = "SelectCard"
	ActionPass         ActionType = "Pass"
)

// Action is the inbound action envelope.
type Action struct {
	Type            ActionType `json:"type"`
	FieldIdx        int        `json:"field_idx"`
	CardIdx         int        `json:"card_idx"`
	SelectionID     string     `json:"selectionId,omitempty"`
	SelectedCardIDs []string   `json:"selectedCardIds,omitempty"`
}

// PlacedCard is a card instance sitting in a zone.
type PlacedCard struct {
	CardID       string `json:"cardId"`
	IsFaceDown   bool   `json:"isFaceDown"`
	ValueOnField int    `json:"valueOnField"`
	Owner        string `json:"owner"`
	Zone         Zone   `json:"zone"`
}

// DeckState is a player's in-game deck: leader rotation, main deck and hand.
type DeckState struct {
	Leaders          []string `json:"leader"`
	CurrentLeaderIdx int      `json:"currentLeaderIdx"`
	MainDeck         []string `json:"mainDeck"`
	Hand             []string `json:"hand"`
}

// TurnAction records one play a player made, for the should-update-turn rule.
type TurnAction struct {
	Turn   float64    `json:"turn"`
	Type   ActionType `json:"type"`
	CardID string     `json:"cardId,omitempty"`
	Zone   Zone       `json:"zone,omitempty"`
}

// DisabledCard identifies a card whose effects are suppressed.
type DisabledCard struct {
	CardID string `json:"cardId"`
	Zone   Zone   `json:"zone"`
}

// TargetRef points at a placed card.
type TargetRef struct {
	PlayerID string `json:"playerId"`
	Zone     Zone   `json:"zone"`
	CardID   string `json:"cardId"`
}

// ActiveEffect is one effect record currently in force, as staged by the
// simulator.
type ActiveEffect struct {
	SourceCardID   string             `json:"sourceCardId"`
	SourcePlayerID string             `json:"sourcePlayerId"`
	Rule           catalog.EffectRule `json:"rule"`
	Priority       int                `json:"priority"`
	Unremovable    bool               `json:"unremovable"`
	Enabled        bool               `json:"enabled"`

	// Target is set for applied (APPLY_*) effects, whose target was chosen
	// interactively and recorded in the play sequence.
	Target *TargetRef `json:"target,omitempty"`
}

// Special-state keys set by the simulator.
const (
	StateZonePlacementFreedom = "zonePlacementFreedom"
	StateForcedSPPlay         = "forcedSpPlay"
	StateDisableComboBonus    = "disableComboBonus"
	StatePreventPlay          = "preventPlay"
)

// FieldEffects is the per-player derived state computed by the simulator.
// It is never hand-edited; every mutation path re-runs the replay.
type FieldEffects struct {
	ZoneRestrictions      map[Zone][]string `json:"zoneRestrictions"`
	ActiveEffects         []ActiveEffect    `json:"activeEffects"`
	CalculatedPowers      map[string]int    `json:"calculatedPowers"`
	DisabledCards         []DisabledCard    `json:"disabledCards"`
	VictoryPointModifiers int               `json:"victoryPointModifiers"`
	SpecialStates         map[string]bool   `json:"specialStates"`
}

// NewFieldEffects returns the default derived state: every zone open to all
// factions, nothing computed.
func NewFieldEffects() *FieldEffects {
	fe := &FieldEffects{
		ZoneRestrictions: make(map[Zone][]string, len(catalog.FieldZones)),
		ActiveEffects:    []ActiveEffect{},
		CalculatedPowers: map[string]int{},
		DisabledCards:    []DisabledCard{},
		SpecialStates:    map[string]bool{},
	}
	for _, z := range catalog.FieldZones {
		fe.ZoneRestrictions[z] = []string{catalog.RestrictionAll}
	}
	return fe
}

// IsDisabled reports whether the given card's effects are suppressed.
func (fe *FieldEffects) IsDisabled(cardID string) bool {
	for _, d := range fe.DisabledCards {
		if d.CardID == cardID {
			return true
		}
	}
	return false
}

// PlayerState is everything owned by one player.
type PlayerState struct {
	ID            string        `json:"id"`
	Deck          DeckState     `json:"deck"`
	FieldEffects  *FieldEffects `json:"fieldEffects"`
	TurnActions   []TurnAction  `json:"turnActions"`
	Redrawn       bool          `json:"redrawn"`
	Ready         bool          `json:"ready"`
	SPPassed      bool          `json:"spPassed,omitempty"`
	PlayerPoint   int           `json:"playerPoint"`
	VictoryPoints int           `json:"victoryPoints"`
}

// ActedOnTurn reports whether the player took a play action on the given turn.
func (p *PlayerState) ActedOnTurn(turn float64) bool {
	for _, ta := range p.TurnActions {
		if ta.Turn == turn {
			return true
		}
	}
	return false
}

// PendingAction gates the game while an interactive choice is open.
type PendingAction struct {
	Type        string `json:"type"` // "cardSelection"
	SelectionID string `json:"selectionId"`
	PlayerID    string `json:"playerId"`
	CreatedAt   int64  `json:"createdAt"`
}

// PendingActionCardSelection is the only pending-action type.
const PendingActionCardSelection = "cardSelection"

// CardSelection is an open interactive choice.
type CardSelection struct {
	ID              string      `json:"selectionId"`
	PlayerID        string      `json:"playerId"`
	SourceCardID    string      `json:"sourceCardId"`
	EffectType      string      `json:"effectType"`            // searchCard, neutralizeEffect, setPower, powerBoost, powerNerf
	EffectValue     int         `json:"effectValue,omitempty"` // operand for field-target effects
	Unremovable     bool        `json:"unremovable,omitempty"` // the source rule locks its result
	Destination     string      `json:"destination,omitempty"` // for deck search
	SelectCount     int         `json:"selectCount"`
	SearchedCards   []string    `json:"searchedCards,omitempty"`   // deck search: cards taken off the top, in drawn order
	EligibleCards   []string    `json:"eligibleCards,omitempty"`   // deck search: subset passing the card-type filter
	EligibleTargets []TargetRef `json:"eligibleTargets,omitempty"` // field target: placed cards that may be chosen
	CreatedAt       int64       `json:"createdAt"`
}

// NeutralizationRecord is one entry of the append-only neutralization audit log.
type NeutralizationRecord struct {
	SourceCardID   string  `json:"sourceCardId"`
	SourcePlayerID string  `json:"sourcePlayerId"`
	TargetCardID   string  `json:"targetCardId"`
	TargetPlayerID string  `json:"targetPlayerId"`
	Turn           float64 `json:"turn"`
}

// GameState is the complete state of one room.
type GameState struct {
	ID              string                            `json:"id"`
	Phase           Phase                             `json:"phase"`
	Round           int                               `json:"round"`
	CurrentTurn     float64                           `json:"currentTurn"`
	CurrentPlayer   string                            `json:"currentPlayer"`
	FirstPlayer     string                            `json:"firstPlayer"`
	Players         map[string]*PlayerState           `json:"players"`
	Zones           map[string]map[Zone][]*PlacedCard `json:"zones"`
	Sequence        *PlaySequence                     `json:"playSequence"`
	PendingAction   *PendingAction                    `json:"pendingPlayerAction,omitempty"`
	Selections      map[string]*CardSelection         `json:"pendingCardSelections,omitempty"`
	Events          *event.Stream                     `json:"eventStream"`
	Winner          string                            `json:"winner,omitempty"`
	Neutralizations []NeutralizationRecord            `json:"neutralizationHistory"`
	Seed            int64                             `json:"seed,omitempty"`
}

// NewGameState creates an empty room in the waiting phase.
func NewGameState(id string) *GameState {
	return &GameState{
		ID:              id,
		Phase:           PhaseWaiting,
		Round:           1,
		Players:         map[string]*PlayerState{},
		Zones:           map[string]map[Zone][]*PlacedCard{},
		Sequence:        NewPlaySequence(),
		Selections:      map[string]*CardSelection{},
		Events:          event.NewStream(),
		Neutralizations: []NeutralizationRecord{},
	}
}

// AddPlayer registers a player with the given deck. The zones map gains an
// empty entry per field zone plus the leader zone.
func (gs *GameState) AddPlayer(id string, deck DeckState) *PlayerState {
	p := &PlayerState{
		ID:           id,
		Deck:         deck,
		FieldEffects: NewFieldEffects(),
	}
	gs.Players[id] = p
	zones := make(map[Zone][]*PlacedCard, len(catalog.FieldZones)+1)
	for _, z := range catalog.FieldZones {
		zones[z] = []*PlacedCard{}
	}
	zones[catalog.ZoneLeader] = []*PlacedCard{}
	gs.Zones[id] = zones
	return p
}

// PlayerIDs returns both player IDs in lexicographic order.
func (gs *GameState) PlayerIDs() []string {
	ids := make([]string, 0, len(gs.Players))
	for id := range gs.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Opponent returns the other player's ID.
func (gs *GameState) Opponent(playerID string) string {
	for id := range gs.Players {
		if id != playerID {
			return id
		}
	}
	return ""
}

// ZoneCards returns the cards in a player's zone.
func (gs *GameState) ZoneCards(playerID string, zone Zone) []*PlacedCard {
	zones, ok := gs.Zones[playerID]
	if !ok {
		return nil
	}
	return zones[zone]
}

// FaceUpCharacter returns the face-up card in a character zone, or nil.
func (gs *GameState) FaceUpCharacter(playerID string, zone Zone) *PlacedCard {
	for _, pc := range gs.ZoneCards(playerID, zone) {
		if !pc.IsFaceDown {
			return pc
		}
	}
	return nil
}

// FaceUpCharacters returns all face-up cards across a player's character zones.
func (gs *GameState) FaceUpCharacters(playerID string) []*PlacedCard {
	var out []*PlacedCard
	for _, z := range catalog.CharacterZones {
		if pc := gs.FaceUpCharacter(playerID, z); pc != nil {
			out = append(out, pc)
		}
	}
	return out
}

// FindPlaced locates a placed card anywhere on a player's field.
func (gs *GameState) FindPlaced(playerID, cardID string) *PlacedCard {
	zones, ok := gs.Zones[playerID]
	if !ok {
		return nil
	}
	for _, z := range append(append([]Zone{}, catalog.FieldZones...), catalog.ZoneLeader) {
		for _, pc := range zones[z] {
			if pc.CardID == cardID {
				return pc
			}
		}
	}
	return nil
}

// ActiveLeader returns the face-up leader in a player's leader zone, or nil.
func (gs *GameState) ActiveLeader(playerID string) *PlacedCard {
	for _, pc := range gs.ZoneCards(playerID, catalog.ZoneLeader) {
		if !pc.IsFaceDown {
			return pc
		}
	}
	return nil
}

// CurrentLeaderDef resolves a player's current leader definition from the
// catalog, following the deck's leader list and currentLeaderIdx.
func (gs *GameState) CurrentLeaderDef(cat *catalog.Catalog, playerID string) *catalog.CardDef {
	p, ok := gs.Players[playerID]
	if !ok {
		return nil
	}
	return cat.Leader(p.Deck.Leaders, p.Deck.CurrentLeaderIdx)
}

// TurnOwner returns the player a given half-integer turn belongs to: whole
// numbers belong to the first player, halves to the other.
func (gs *GameState) TurnOwner(turn float64) string {
	if turn == math.Trunc(turn) {
		return gs.FirstPlayer
	}
	return gs.Opponent(gs.FirstPlayer)
}

// DrawCard moves the top card of a player's main deck to their hand. Empty
// deck is a no-op that returns "".
func (gs *GameState) DrawCard(playerID string) string {
	p, ok := gs.Players[playerID]
	if !ok || len(p.Deck.MainDeck) == 0 {
		return ""
	}
	card := p.Deck.MainDeck[0]
	p.Deck.MainDeck = p.Deck.MainDeck[1:]
	p.Deck.Hand = append(p.Deck.Hand, card)
	return card
}

// RemoveFromHand removes the card at the given hand index and returns its ID.
func (gs *GameState) RemoveFromHand(playerID string, idx int) string {
	p, ok := gs.Players[playerID]
	if !ok || idx < 0 || idx >= len(p.Deck.Hand) {
		return ""
	}
	card := p.Deck.Hand[idx]
	p.Deck.Hand = append(p.Deck.Hand[:idx], p.Deck.Hand[idx+1:]...)
	return card
}

// RemoveFromDeck removes one occurrence of cardID from the main deck.
func (gs *GameState) RemoveFromDeck(playerID, cardID string) bool {
	p, ok := gs.Players[playerID]
	if !ok {
		return false
	}
	for i, id := range p.Deck.MainDeck {
		if id == cardID {
			p.Deck.MainDeck = append(p.Deck.MainDeck[:i], p.Deck.MainDeck[i+1:]...)
			return true
		}
	}
	return false
}

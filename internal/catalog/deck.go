package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Deck size limits from the deck-file contract.
const (
	MinDeckCards = 20
	MaxDeckCards = 30
)

// Deck is a named list of main-deck card IDs plus an ordered leader list.
type Deck struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Cards    []string `json:"cards"`
	Leader   []string `json:"leader"`
	MinCards int      `json:"minCards,omitempty"`
	MaxCards int      `json:"maxCards,omitempty"`
}

// Clone returns a deep copy; the cards and leader slices are never aliased.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	out := *d
	out.Cards = append([]string(nil), d.Cards...)
	out.Leader = append([]string(nil), d.Leader...)
	return &out
}

// Validate enforces the deck-file contract: 20..30 main cards, at least one
// leader, and no duplicate IDs within cards or leader.
func (d *Deck) Validate() error {
	min, max := d.MinCards, d.MaxCards
	if min == 0 {
		min = MinDeckCards
	}
	if max == 0 {
		max = MaxDeckCards
	}
	if len(d.Cards) < min || len(d.Cards) > max {
		return fmt.Errorf("deck %q has %d cards, want %d..%d", d.ID, len(d.Cards), min, max)
	}
	if len(d.Leader) < 1 {
		return fmt.Errorf("deck %q has no leaders", d.ID)
	}
	if dup := firstDuplicate(d.Cards); dup != "" {
		return fmt.Errorf("deck %q has duplicate card %q", d.ID, dup)
	}
	if dup := firstDuplicate(d.Leader); dup != "" {
		return fmt.Errorf("deck %q has duplicate leader %q", d.ID, dup)
	}
	return nil
}

func firstDuplicate(ids []string) string {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return ""
}

// PlayerDecks is one player's entry in the deck file.
type PlayerDecks struct {
	ActiveDeck string           `json:"activeDeck"`
	Decks      map[string]*Deck `json:"decks"`
}

// DeckFile is the top-level structure of player_decks.json.
type DeckFile struct {
	PlayerDecks map[string]*PlayerDecks `json:"playerDecks"`
}

// LoadDeckFile parses and validates a deck file.
func LoadDeckFile(path string) (*DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var df DeckFile
	if err := json.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck file: %w", err)
	}
	for playerID, pd := range df.PlayerDecks {
		for _, deck := range pd.Decks {
			if err := deck.Validate(); err != nil {
				return nil, fmt.Errorf("player %s: %w", playerID, err)
			}
		}
		if pd.ActiveDeck != "" {
			if _, ok := pd.Decks[pd.ActiveDeck]; !ok {
				return nil, fmt.Errorf("player %s: active deck %q not defined", playerID, pd.ActiveDeck)
			}
		}
	}
	return &df, nil
}

// ActiveDeck returns a clone of the player's active deck, or nil.
func (df *DeckFile) ActiveDeck(playerID string) *Deck {
	pd, ok := df.PlayerDecks[playerID]
	if !ok || pd.ActiveDeck == "" {
		return nil
	}
	return pd.Decks[pd.ActiveDeck].Clone()
}

// Package catalog loads the immutable card, leader, combo and deck tables and
// answers lookups for the rules engine. The catalog is initialized once at
// startup and shared read-only across games.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// File names expected inside the catalog data directory.
const (
	CharacterCardsFile = "character_cards.json"
	UtilityCardsFile   = "utility_cards.json"
	LeaderCardsFile    = "leader_cards.json"
	PlayerDecksFile    = "player_decks.json"
)

type characterFile struct {
	Cards  []*CardDef `json:"cards"`
	Combos ComboTable `json:"combos"`
}

type utilityFile struct {
	Cards []*CardDef `json:"cards"`
}

type leaderFile struct {
	Leaders []*CardDef `json:"leaders"`
}

// Catalog holds all immutable card definitions, keyed by card ID.
type Catalog struct {
	cards  map[string]*CardDef
	combos ComboTable
	decks  *DeckFile
	log    *logrus.Logger
}

// Load reads the three card tables and the deck file from dir.
func Load(dir string, log *logrus.Logger) (*Catalog, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := &Catalog{
		cards:  make(map[string]*CardDef),
		combos: ComboTable{},
		log:    log,
	}

	var chars characterFile
	if err := readJSON(filepath.Join(dir, CharacterCardsFile), &chars); err != nil {
		return nil, fmt.Errorf("load character cards: %w", err)
	}
	var utils utilityFile
	if err := readJSON(filepath.Join(dir, UtilityCardsFile), &utils); err != nil {
		return nil, fmt.Errorf("load utility cards: %w", err)
	}
	var leaders leaderFile
	if err := readJSON(filepath.Join(dir, LeaderCardsFile), &leaders); err != nil {
		return nil, fmt.Errorf("load leader cards: %w", err)
	}

	for _, card := range chars.Cards {
		if err := c.add(card); err != nil {
			return nil, err
		}
	}
	for _, card := range utils.Cards {
		if err := c.add(card); err != nil {
			return nil, err
		}
	}
	for _, card := range leaders.Leaders {
		if err := c.add(card); err != nil {
			return nil, err
		}
	}
	c.combos = chars.Combos

	decksPath := filepath.Join(dir, PlayerDecksFile)
	if _, err := os.Stat(decksPath); err == nil {
		decks, err := LoadDeckFile(decksPath)
		if err != nil {
			return nil, fmt.Errorf("load player decks: %w", err)
		}
		c.decks = decks
	}

	log.WithFields(logrus.Fields{
		"cards":  len(c.cards),
		"combos": len(c.combos),
	}).Info("catalog loaded")
	return c, nil
}

// NewFromDefs builds a catalog from in-memory definitions. Used by tests and
// by the scenario runner.
func NewFromDefs(cards []*CardDef, combos ComboTable) *Catalog {
	c := &Catalog{
		cards:  make(map[string]*CardDef, len(cards)),
		combos: combos,
		log:    logrus.StandardLogger(),
	}
	if c.combos == nil {
		c.combos = ComboTable{}
	}
	for _, card := range cards {
		c.cards[card.ID] = card
	}
	return c
}

func (c *Catalog) add(card *CardDef) error {
	if card.ID == "" {
		return fmt.Errorf("catalog card %q has no id", card.Name)
	}
	if _, dup := c.cards[card.ID]; dup {
		return fmt.Errorf("duplicate card id %q in catalog", card.ID)
	}
	c.cards[card.ID] = card
	return nil
}

// Card looks up a card definition by ID. A missing ID returns nil after
// logging a warning; callers must handle absence without crashing.
func (c *Catalog) Card(id string) *CardDef {
	card, ok := c.cards[id]
	if !ok {
		c.log.WithField("cardId", id).Warn("card not found in catalog")
		return nil
	}
	return card
}

// Has reports whether the catalog knows the given card ID.
func (c *Catalog) Has(id string) bool {
	_, ok := c.cards[id]
	return ok
}

// Leader returns the leader definition at the given position of a leader list,
// or nil if the index is out of range or the card is not a leader.
func (c *Catalog) Leader(leaderIDs []string, idx int) *CardDef {
	if idx < 0 || idx >= len(leaderIDs) {
		return nil
	}
	card := c.Card(leaderIDs[idx])
	if card == nil || card.CardType != CardTypeLeader {
		return nil
	}
	return card
}

// Combos returns the combo bonus table.
func (c *Catalog) Combos() ComboTable {
	return c.combos
}

// Len returns the number of card definitions loaded.
func (c *Catalog) Len() int {
	return len(c.cards)
}

// PlayerDeck returns a deep clone of the active deck for the given player, or
// nil if no deck file was loaded or the player has none.
func (c *Catalog) PlayerDeck(playerID string) *Deck {
	if c.decks == nil {
		return nil
	}
	return c.decks.ActiveDeck(playerID)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

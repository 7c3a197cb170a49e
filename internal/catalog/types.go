package catalog

// Zone names the board positions a card can occupy.
type Zone string

const (
	ZoneTop    Zone = "TOP"
	ZoneLeft   Zone = "LEFT"
	ZoneRight  Zone = "RIGHT"
	ZoneHelp   Zone = "HELP"
	ZoneSP     Zone = "SP"
	ZoneLeader Zone = "LEADER"
)

// CharacterZones are the three zones that hold face-up characters.
var CharacterZones = []Zone{ZoneTop, ZoneLeft, ZoneRight}

// FieldZones are the five playable zones, in field-index order (0..4).
var FieldZones = []Zone{ZoneTop, ZoneLeft, ZoneRight, ZoneHelp, ZoneSP}

// ZoneByIndex maps a wire field index (0..4) to a zone, or "" if out of range.
func ZoneByIndex(idx int) Zone {
	if idx < 0 || idx >= len(FieldZones) {
		return ""
	}
	return FieldZones[idx]
}

// Card categories as they appear in the catalog JSON.
const (
	CardTypeCharacter = "character"
	CardTypeHelp      = "help"
	CardTypeSP        = "sp"
	CardTypeLeader    = "leader"
)

// TraitAll is the universal trait that satisfies any zone restriction.
const TraitAll = "all"

// RestrictionAll is the sentinel meaning a zone accepts every faction.
const RestrictionAll = "ALL"

// Effect rule kinds.
const (
	KindContinuous = "continuous"
	KindTriggered  = "triggered"
)

// Trigger events.
const (
	EventAlways           = "always"
	EventOnSummon         = "onSummon"
	EventOnPlay           = "onPlay"
	EventSPPhase          = "spPhase"
	EventFinalCalculation = "finalCalculation"
)

// Effect types.
const (
	EffectPowerBoost           = "powerBoost"
	EffectPowerNerf            = "powerNerf"
	EffectSetPower             = "setPower"
	EffectModifyPower          = "modifyPower"
	EffectNeutralizeEffect     = "neutralizeEffect"
	EffectSilenceOnSummon      = "silenceOnSummon"
	EffectZonePlacementFreedom = "zonePlacementFreedom"
	EffectDisableComboBonus    = "disableComboBonus"
	EffectTotalPowerNerf       = "totalPowerNerf"
	EffectDrawCard             = "drawCard"
	EffectDiscardRandomCard    = "discardRandomCard"
	EffectSearchCard           = "searchCard"
	EffectForcePlaySP          = "forcePlaySP"
	EffectPreventPlay          = "preventPlay"
	EffectZoneRestriction      = "zoneRestriction"
)

// Target owners.
const (
	OwnerSelf     = "self"
	OwnerOpponent = "opponent"
	OwnerBoth     = "both"
)

// Search-effect destinations.
const (
	DestHand                = "hand"
	DestSPZone              = "spZone"
	DestHelpZone            = "helpZone"
	DestConditionalHelpZone = "conditionalHelpZone"
)

// Condition is a declarative predicate on the game snapshot. The Type field
// selects which of the remaining fields are meaningful.
type Condition struct {
	Type       string      `json:"type"`
	Value      string      `json:"value,omitempty"`      // name / substring operand
	Operator   string      `json:"operator,omitempty"`   // for opponentHandCount
	Count      int         `json:"count,omitempty"`      // numeric operand
	Zone       Zone        `json:"zone,omitempty"`       // for zoneEmpty
	Conditions []Condition `json:"conditions,omitempty"` // for compound "or"
}

// Condition types.
const (
	CondSelfHasCharacterWithName     = "selfHasCharacterWithName"
	CondSelfHasLeader                = "selfHasLeader"
	CondOpponentHasCharacterWithName = "opponentHasCharacterWithName"
	CondOpponentLeader               = "opponentLeader"
	CondOpponentHandCountMoreThan    = "opponentHandCountMoreThan"
	CondOpponentHandCount            = "opponentHandCount"
	CondZoneEmpty                    = "zoneEmpty"
	CondAllyFieldContainsName        = "allyFieldContainsName"
	CondOpponentFieldContainsName    = "opponentFieldContainsName"
	CondOr                           = "or"
)

// Filter narrows target enumeration by card attributes.
type Filter struct {
	Type   string   `json:"type"`
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Filter types.
const (
	FilterHasTrait    = "hasTrait"
	FilterHasGameType = "hasGameType"
	FilterGameTypeOr  = "gameTypeOr"
)

// Trigger describes when a rule fires.
type Trigger struct {
	Event      string      `json:"event"`
	Conditions []Condition `json:"conditions,omitempty"`
}

// TargetSpec describes which placed cards a rule acts on.
type TargetSpec struct {
	Owner   string   `json:"owner"`
	Zones   []Zone   `json:"zones,omitempty"`
	Filters []Filter `json:"filters,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

// EffectSpec describes what a rule does to its targets.
type EffectSpec struct {
	Type           string `json:"type"`
	Value          int    `json:"value,omitempty"`
	Destination    string `json:"destination,omitempty"`
	SearchCount    int    `json:"searchCount,omitempty"`
	SelectCount    int    `json:"selectCount,omitempty"`
	CardTypeFilter string `json:"cardTypeFilter,omitempty"`

	// zoneRestriction operands: the zone being narrowed and the faction set
	// it is narrowed to.
	Zone    Zone     `json:"zone,omitempty"`
	Allowed []string `json:"allowed,omitempty"`
}

// EffectRule is one declarative effect on a card. Effects are data, not code:
// the engine dispatches on EffectSpec.Type against a fixed enumeration.
type EffectRule struct {
	Kind        string     `json:"kind"`
	Trigger     Trigger    `json:"trigger"`
	Target      TargetSpec `json:"target"`
	Effect      EffectSpec `json:"effect"`
	Description string     `json:"description,omitempty"`
	Unremovable bool       `json:"unremovable,omitempty"`
}

// EffectSet wraps a card's rule list (mirrors the JSON shape `effects.rules`).
type EffectSet struct {
	Rules []EffectRule `json:"rules"`
}

// CardDef is an immutable card definition from the catalog.
type CardDef struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	CardType string     `json:"cardType"`
	GameType string     `json:"gameType"`
	Power    int        `json:"power"`
	Traits   []string   `json:"traits"`
	Effects  *EffectSet `json:"effects,omitempty"`

	// Leader-only fields.
	InitialPoint      int                 `json:"initialPoint,omitempty"`
	ZoneCompatibility map[string][]string `json:"zoneCompatibility,omitempty"`
}

// Rules returns the card's effect rules, or nil if it has none.
func (c *CardDef) Rules() []EffectRule {
	if c == nil || c.Effects == nil {
		return nil
	}
	return c.Effects.Rules
}

// HasTrait reports whether the card carries the given trait.
func (c *CardDef) HasTrait(trait string) bool {
	for _, t := range c.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// ComboRule is one entry of the combo table.
type ComboRule struct {
	Bonus       int    `json:"bonus"`
	Description string `json:"description,omitempty"`
}

// Combo names recognized by the battle resolver.
const (
	ComboAllSameType      = "all_same_type"
	ComboAllDifferentType = "all_different_type"
	ComboHighPowerTrio    = "high_power_trio"
	ComboTraitSynergy     = "trait_synergy"
	ComboBalancedPower    = "balanced_power"
)

// ComboTable maps combo name to its rule.
type ComboTable map[string]ComboRule

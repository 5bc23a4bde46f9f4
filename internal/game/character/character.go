// Package character defines the player character and enemy combatant models
// consumed by the combat engine, plus the YAML loaders for their content
// definitions.
package character

import (
	"fmt"
	"strings"
)

// AbilityScores holds the six ability score values for a combatant.
type AbilityScores struct {
	Strength     int
	Dexterity    int
	Constitution int
	Intelligence int
	Wisdom       int
	Charisma     int
}

// Modifier computes the standard ability modifier with floor division:
// floor((score - 10) / 2). Scores below 10 yield negative modifiers.
func Modifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// DefaultCriticalRange is the natural d20 value that crits when neither the
// character nor the weapon narrows the range.
const DefaultCriticalRange = 20

// Character represents the single player-controlled combatant. Its lifetime
// exceeds any one encounter; the combat engine references it, never owns it.
type Character struct {
	Name  string
	Class string
	Level int

	Experience int

	MaxHP     int
	CurrentHP int

	MaxMana     int
	CurrentMana int

	// ArmorClass already reflects equipped armor, shield, and stance bonuses;
	// combat compares attack totals against it as-is.
	ArmorClass      int
	BaseAttackBonus int

	// CritRange overrides DefaultCriticalRange when > 0. Weapon crit ranges
	// take precedence over both.
	CritRange int

	Abilities AbilityScores

	// KnownSpells lists spell keys the character may cast.
	KnownSpells []string

	Equipment Equipment
}

// IsAlive reports whether the character has hit points remaining.
func (c *Character) IsAlive() bool { return c.CurrentHP > 0 }

// TakeDamage reduces hit points by amount, flooring at zero, and returns the
// amount actually applied.
//
// Precondition: amount >= 0.
func (c *Character) TakeDamage(amount int) int {
	applied := amount
	if applied > c.CurrentHP {
		applied = c.CurrentHP
	}
	c.CurrentHP -= applied
	return applied
}

// Heal restores hit points up to MaxHP and returns the amount actually
// restored.
//
// Precondition: amount >= 0.
func (c *Character) Heal(amount int) int {
	healed := amount
	if c.CurrentHP+healed > c.MaxHP {
		healed = c.MaxHP - c.CurrentHP
	}
	c.CurrentHP += healed
	return healed
}

// GainExperience adds amount to the character's experience total.
//
// Precondition: amount >= 0.
func (c *Character) GainExperience(amount int) {
	c.Experience += amount
}

// StatModifier returns the ability modifier for the named stat. Unknown stat
// names yield 0.
func (c *Character) StatModifier(stat string) int {
	switch strings.ToLower(stat) {
	case "strength", "str":
		return Modifier(c.Abilities.Strength)
	case "dexterity", "dex":
		return Modifier(c.Abilities.Dexterity)
	case "constitution", "con":
		return Modifier(c.Abilities.Constitution)
	case "intelligence", "int":
		return Modifier(c.Abilities.Intelligence)
	case "wisdom", "wis":
		return Modifier(c.Abilities.Wisdom)
	case "charisma", "cha":
		return Modifier(c.Abilities.Charisma)
	default:
		return 0
	}
}

// CriticalRange returns the character's base critical threshold. Equipped
// weapon ranges are resolved by the combat engine, not here.
func (c *Character) CriticalRange() int {
	if c.CritRange > 0 {
		return c.CritRange
	}
	return DefaultCriticalRange
}

// KnowsSpell reports whether key is in the character's known spell list.
func (c *Character) KnowsSpell(key string) bool {
	for _, s := range c.KnownSpells {
		if strings.EqualFold(s, key) {
			return true
		}
	}
	return false
}

// SpendMana consumes amount mana. Returns false, leaving mana unchanged,
// when the character has less than amount available.
func (c *Character) SpendMana(amount int) bool {
	if amount > c.CurrentMana {
		return false
	}
	c.CurrentMana -= amount
	return true
}

// RestoreMana adds amount mana, capped at MaxMana, and returns the amount
// actually restored.
func (c *Character) RestoreMana(amount int) int {
	restored := amount
	if c.CurrentMana+restored > c.MaxMana {
		restored = c.MaxMana - c.CurrentMana
	}
	c.CurrentMana += restored
	return restored
}

// HPString renders current/max hit points for status lines.
func (c *Character) HPString() string {
	return fmt.Sprintf("%d/%d", c.CurrentHP, c.MaxHP)
}

package spell

import (
	"fmt"
	"strings"

	"github.com/mk-git-0/roguecity/internal/game/character"
	"github.com/mk-git-0/roguecity/internal/game/dice"
)

// Spell is one castable spell definition.
type Spell struct {
	// Key is the canonical lookup key: lowercase, underscores for spaces.
	Key string
	// Name is the display name.
	Name     string
	ManaCost int
	School   string
	// Message is the flavour line reported on a successful cast.
	Message string
	Effect  Effect
}

// Book resolves spell names to definitions and gates casting on spell
// knowledge and mana. It never mutates a cast's target; applying the effect
// is the combat engine's job.
type Book struct {
	spells map[string]*Spell
}

// NewBook creates a Book pre-populated with the stock spells. Lua scripts
// loaded afterwards may add to it but not replace existing keys.
func NewBook() *Book {
	b := &Book{spells: make(map[string]*Spell)}
	for _, s := range builtins() {
		b.spells[s.Key] = s
	}
	return b
}

func builtins() []*Spell {
	return []*Spell{
		{
			Key: "magic_missile", Name: "Magic Missile", ManaCost: 3, School: "evocation",
			Message: "Glowing darts streak toward the target.",
			Effect:  Damage{Notation: "3d4+3"},
		},
		{
			Key: "fireball", Name: "Fireball", ManaCost: 8, School: "evocation",
			Message: "A roaring sphere of flame detonates.",
			Effect:  Damage{Notation: "6d6"},
		},
		{
			Key: "heal", Name: "Heal", ManaCost: 4, School: "restoration",
			Message: "Soothing light knits the wounds closed.",
			Effect:  Healing{Notation: "1d8+2"},
		},
		{
			Key: "full_restoration", Name: "Full Restoration", ManaCost: 12, School: "restoration",
			Message: "A wave of holy energy restores the body completely.",
			Effect:  Healing{Full: true},
		},
		{
			Key: "shield", Name: "Shield", ManaCost: 3, School: "abjuration",
			Message: "A shimmering barrier forms.",
			Effect:  Buff{Stat: "armor_class", Amount: 4, Rounds: 5},
		},
		{
			Key: "turn_undead", Name: "Turn Undead", ManaCost: 5, School: "holy",
			Message: "Searing radiance floods the battlefield.",
			Effect:  TurnUndead{},
		},
	}
}

// Key canonicalises a spell name: lowercased, spaces collapsed to
// underscores. "Magic Missile" and "magic_missile" resolve identically.
func Key(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Resolve returns the spell registered under name, if any.
func (b *Book) Resolve(name string) (*Spell, bool) {
	s, ok := b.spells[Key(name)]
	return s, ok
}

// Len returns the number of registered spells.
func (b *Book) Len() int { return len(b.spells) }

// add registers s, rejecting duplicate keys and invalid definitions.
func (b *Book) add(s *Spell) error {
	if err := validate(s); err != nil {
		return err
	}
	if _, exists := b.spells[s.Key]; exists {
		return fmt.Errorf("spell: duplicate key %q", s.Key)
	}
	b.spells[s.Key] = s
	return nil
}

func validate(s *Spell) error {
	if s.Key == "" {
		return fmt.Errorf("spell: key must not be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("spell %q: name must not be empty", s.Key)
	}
	if s.ManaCost < 0 {
		return fmt.Errorf("spell %q: mana_cost must be >= 0, got %d", s.Key, s.ManaCost)
	}
	switch eff := s.Effect.(type) {
	case Damage:
		if _, err := dice.Parse(eff.Notation); err != nil {
			return fmt.Errorf("spell %q: %w", s.Key, err)
		}
	case Healing:
		if !eff.Full {
			if _, err := dice.Parse(eff.Notation); err != nil {
				return fmt.Errorf("spell %q: %w", s.Key, err)
			}
		}
	case Buff:
		if eff.Stat == "" {
			return fmt.Errorf("spell %q: buff stat must not be empty", s.Key)
		}
	case TurnUndead:
		if eff.DC < 0 || eff.DC > 20 {
			return fmt.Errorf("spell %q: turn dc must be 0-20, got %d", s.Key, eff.DC)
		}
	case nil:
		return fmt.Errorf("spell %q: effect must not be nil", s.Key)
	default:
		return fmt.Errorf("spell %q: unknown effect type %T", s.Key, eff)
	}
	return nil
}

// Cast verifies that caster knows name and can pay its mana cost, consumes
// the mana, and returns the spell's message and effect descriptor. The
// returned effect is a description only; nothing has been applied yet.
//
// Postcondition: ok is false iff the cast was refused, in which case message
// explains why and no mana was spent.
func (b *Book) Cast(caster *character.Character, name string) (ok bool, message string, effect Effect) {
	s, found := b.Resolve(name)
	if !found {
		return false, fmt.Sprintf("You have never heard of a spell called %q.", name), nil
	}
	if !caster.KnowsSpell(s.Key) {
		return false, fmt.Sprintf("You do not know %s.", s.Name), nil
	}
	if !caster.SpendMana(s.ManaCost) {
		return false, fmt.Sprintf("You need %d mana to cast %s.", s.ManaCost, s.Name), nil
	}
	return true, s.Message, s.Effect
}

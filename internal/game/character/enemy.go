package character

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mk-git-0/roguecity/internal/game/dice"
)

// CreatureTypeUndead marks enemies vulnerable to turn-undead effects.
const CreatureTypeUndead = "undead"

// LootEntry is one row of an enemy's loot table.
type LootEntry struct {
	// Item is the display name of the dropped item.
	Item string `yaml:"item"`
	// Chance is the drop probability in percent (1-100).
	Chance int `yaml:"chance"`
}

// LootDrop is a concrete dropped item with a unique instance ID.
type LootDrop struct {
	InstanceID string
	Name       string
}

// EnemyTemplate is the static definition of an enemy type loaded from YAML.
type EnemyTemplate struct {
	ID              string      `yaml:"id"`
	Name            string      `yaml:"name"`
	MaxHP           int         `yaml:"max_hp"`
	ArmorClass      int         `yaml:"armor_class"`
	AttackBonus     int         `yaml:"attack_bonus"`
	DamageDice      string      `yaml:"damage_dice"`
	ExperienceValue int         `yaml:"experience_value"`
	CreatureType    string      `yaml:"creature_type"`
	Loot            []LootEntry `yaml:"loot"`
}

// Validate checks that the EnemyTemplate satisfies its invariants.
func (t *EnemyTemplate) Validate() error {
	var errs []string
	if t.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if t.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if t.MaxHP < 1 {
		errs = append(errs, fmt.Sprintf("max_hp must be >= 1, got %d", t.MaxHP))
	}
	if t.DamageDice == "" {
		errs = append(errs, "damage_dice must not be empty")
	} else if _, err := dice.Parse(t.DamageDice); err != nil {
		errs = append(errs, fmt.Sprintf("damage_dice: %v", err))
	}
	if t.ExperienceValue < 0 {
		errs = append(errs, fmt.Sprintf("experience_value must be >= 0, got %d", t.ExperienceValue))
	}
	for i, entry := range t.Loot {
		if entry.Item == "" {
			errs = append(errs, fmt.Sprintf("loot[%d].item must not be empty", i))
		}
		if entry.Chance < 1 || entry.Chance > 100 {
			errs = append(errs, fmt.Sprintf("loot[%d].chance must be 1-100, got %d", i, entry.Chance))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("enemy %q invalid: %s", t.ID, strings.Join(errs, "; "))
	}
	return nil
}

// LoadEnemyTemplates reads every *.yaml file in dir into a map keyed by
// template ID. Files are processed in lexicographic order; duplicate IDs are
// an error.
func LoadEnemyTemplates(dir string) (map[string]*EnemyTemplate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading enemies dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && isYAML(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	templates := make(map[string]*EnemyTemplate)
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading enemy file %q: %w", path, err)
		}
		var t EnemyTemplate
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("parsing enemy file %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if _, exists := templates[t.ID]; exists {
			return nil, fmt.Errorf("%s: duplicate enemy id %q", path, t.ID)
		}
		templates[t.ID] = &t
	}

	if len(templates) == 0 {
		return nil, errors.New("no enemy definitions found in " + dir)
	}
	return templates, nil
}

// Enemy is a live combatant instantiated from an EnemyTemplate.
type Enemy struct {
	Name            string
	MaxHP           int
	CurrentHP       int
	ArmorClass      int
	AttackBonus     int
	DamageDice      string
	ExperienceValue int
	CreatureType    string

	loot []LootEntry

	// CombatID is assigned by the combat engine for the duration of one
	// encounter and cleared when the encounter ends.
	CombatID string
}

// NewEnemy instantiates a fresh Enemy at full health from template.
//
// Precondition: template must have passed Validate.
func NewEnemy(template *EnemyTemplate) *Enemy {
	loot := make([]LootEntry, len(template.Loot))
	copy(loot, template.Loot)
	return &Enemy{
		Name:            template.Name,
		MaxHP:           template.MaxHP,
		CurrentHP:       template.MaxHP,
		ArmorClass:      template.ArmorClass,
		AttackBonus:     template.AttackBonus,
		DamageDice:      template.DamageDice,
		ExperienceValue: template.ExperienceValue,
		CreatureType:    template.CreatureType,
		loot:            loot,
	}
}

// IsAlive reports whether the enemy has hit points remaining.
func (e *Enemy) IsAlive() bool { return e.CurrentHP > 0 }

// IsUndead reports whether the enemy's creature type is undead.
func (e *Enemy) IsUndead() bool {
	return strings.EqualFold(e.CreatureType, CreatureTypeUndead)
}

// TakeDamage reduces hit points by amount, flooring at zero, and returns the
// amount actually applied.
//
// Precondition: amount >= 0.
func (e *Enemy) TakeDamage(amount int) int {
	applied := amount
	if applied > e.CurrentHP {
		applied = e.CurrentHP
	}
	e.CurrentHP -= applied
	return applied
}

// intSource is the subset of the dice source used for loot rolls. A local
// interface avoids importing the dice package from the model layer.
type intSource interface {
	Intn(n int) int
}

// RollLoot rolls each loot table entry once and returns the drops, in table
// order, each with a fresh instance ID.
//
// Precondition: src must be non-nil.
func (e *Enemy) RollLoot(src intSource) []LootDrop {
	var drops []LootDrop
	for _, entry := range e.loot {
		// d100 against the percent chance; Intn(100)+1 is uniform in 1-100.
		if src.Intn(100)+1 <= entry.Chance {
			drops = append(drops, LootDrop{
				InstanceID: uuid.NewString(),
				Name:       entry.Item,
			})
		}
	}
	return drops
}

// HPString renders current/max hit points for status lines.
func (e *Enemy) HPString() string {
	return fmt.Sprintf("%d/%d", e.CurrentHP, e.MaxHP)
}

// HPPercent returns remaining hit points as a whole percentage of MaxHP.
func (e *Enemy) HPPercent() int {
	if e.MaxHP == 0 {
		return 0
	}
	return e.CurrentHP * 100 / e.MaxHP
}

package character

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mk-git-0/roguecity/internal/game/dice"
)

// Weapon defines the static combat properties of a weapon loaded from YAML.
type Weapon struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	DamageDice string `yaml:"damage_dice"`
	// DamageBonus is a flat bonus folded into the damage roll.
	DamageBonus int `yaml:"damage_bonus"`
	// AttackBonus is added to the wielder's attack roll.
	AttackBonus int `yaml:"attack_bonus"`
	// CritRange overrides the wielder's critical threshold when > 0.
	// Lower values crit more often; the natural range is 1-20.
	CritRange int `yaml:"crit_range"`
	// AttacksPerTurn counts attack slots this weapon grants a dual-wielder.
	// 0 is treated as 1.
	AttacksPerTurn int `yaml:"attacks_per_turn"`
}

// EffectiveAttacksPerTurn returns AttacksPerTurn floored at 1.
func (w *Weapon) EffectiveAttacksPerTurn() int {
	if w.AttacksPerTurn < 1 {
		return 1
	}
	return w.AttacksPerTurn
}

// Validate checks that the Weapon satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (w *Weapon) Validate() error {
	var errs []string
	if w.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if w.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if w.DamageDice == "" {
		errs = append(errs, "damage_dice must not be empty")
	} else if _, err := dice.Parse(w.DamageDice); err != nil {
		errs = append(errs, fmt.Sprintf("damage_dice: %v", err))
	}
	if w.CritRange != 0 && (w.CritRange < 1 || w.CritRange > 20) {
		errs = append(errs, fmt.Sprintf("crit_range must be 1-20 or 0, got %d", w.CritRange))
	}
	if w.AttacksPerTurn < 0 {
		errs = append(errs, fmt.Sprintf("attacks_per_turn must be >= 0, got %d", w.AttacksPerTurn))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q invalid: %s", w.ID, strings.Join(errs, "; "))
	}
	return nil
}

// LoadWeapons reads every *.yaml file in dir into a map keyed by weapon ID.
// Files are processed in lexicographic order; duplicate IDs are an error.
//
// Precondition: dir must be a readable directory.
func LoadWeapons(dir string) (map[string]*Weapon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading weapons dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && isYAML(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	weapons := make(map[string]*Weapon)
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading weapon file %q: %w", path, err)
		}
		var w Weapon
		if err := yaml.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("parsing weapon file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if _, exists := weapons[w.ID]; exists {
			return nil, fmt.Errorf("%s: duplicate weapon id %q", path, w.ID)
		}
		weapons[w.ID] = &w
	}

	if len(weapons) == 0 {
		return nil, errors.New("no weapon definitions found in " + dir)
	}
	return weapons, nil
}

func isYAML(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

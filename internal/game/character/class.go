package character

import "strings"

// Class identifiers. Content files and commands refer to classes by these
// lowercase names.
const (
	ClassBard        = "bard"
	ClassDruid       = "druid"
	ClassGypsy       = "gypsy"
	ClassKnight      = "knight"
	ClassMage        = "mage"
	ClassMissionary  = "missionary"
	ClassMystic      = "mystic"
	ClassNecromancer = "necromancer"
	ClassNinja       = "ninja"
	ClassPaladin     = "paladin"
	ClassRanger      = "ranger"
	ClassRogue       = "rogue"
	ClassThief       = "thief"
	ClassWarlock     = "warlock"
	ClassWarrior     = "warrior"
	ClassWitchhunter = "witchhunter"
)

// Class capability allow-lists. Combat abilities are gated on these tables
// rather than on per-character flags so a class change never leaves stale
// capabilities behind.
var (
	spellcasterClasses = map[string]bool{
		ClassBard:        true,
		ClassDruid:       true,
		ClassGypsy:       true,
		ClassMage:        true,
		ClassMissionary:  true,
		ClassMystic:      true,
		ClassNecromancer: true,
		ClassPaladin:     true,
		ClassRanger:      true,
		ClassWarlock:     true,
		ClassWitchhunter: true,
	}

	// finesseClasses substitute dexterity for strength in melee damage.
	finesseClasses = map[string]bool{
		ClassNinja: true,
		ClassRogue: true,
		ClassThief: true,
	}

	defensiveStanceClasses = map[string]bool{
		ClassKnight:  true,
		ClassPaladin: true,
		ClassWarrior: true,
	}

	blockClasses = map[string]bool{
		ClassKnight:      true,
		ClassMissionary:  true,
		ClassPaladin:     true,
		ClassWarrior:     true,
		ClassWitchhunter: true,
	}

	parryClasses = map[string]bool{
		ClassKnight:  true,
		ClassNinja:   true,
		ClassRogue:   true,
		ClassThief:   true,
		ClassWarrior: true,
	}

	dualWieldClasses = map[string]bool{
		ClassNinja:   true,
		ClassRanger:  true,
		ClassRogue:   true,
		ClassWarrior: true,
	}

	chargeClasses = map[string]bool{
		ClassKnight:  true,
		ClassPaladin: true,
		ClassRanger:  true,
		ClassWarrior: true,
	}

	turnUndeadClasses = map[string]bool{
		ClassMissionary: true,
		ClassPaladin:    true,
	}
)

// IsSpellcaster reports whether class can cast spells.
func IsSpellcaster(class string) bool { return spellcasterClasses[normalize(class)] }

// UsesFinesse reports whether class substitutes DEX for STR in melee damage.
func UsesFinesse(class string) bool { return finesseClasses[normalize(class)] }

// CanDefensiveStance reports whether class may enter a defensive stance.
func CanDefensiveStance(class string) bool { return defensiveStanceClasses[normalize(class)] }

// CanBlock reports whether class may block with a shield.
func CanBlock(class string) bool { return blockClasses[normalize(class)] }

// CanParry reports whether class may parry with a weapon.
func CanParry(class string) bool { return parryClasses[normalize(class)] }

// CanDualWield reports whether class may fight with two weapons.
func CanDualWield(class string) bool { return dualWieldClasses[normalize(class)] }

// CanCharge reports whether class may perform a charge attack.
func CanCharge(class string) bool { return chargeClasses[normalize(class)] }

// CanTurnUndead reports whether class may turn undead.
func CanTurnUndead(class string) bool { return turnUndeadClasses[normalize(class)] }

func normalize(class string) string {
	return strings.ToLower(strings.TrimSpace(class))
}

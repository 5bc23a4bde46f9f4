// Package spell implements the spell service: a book of spell definitions
// (built-in or Lua-scripted) that resolves a spell name into a typed effect
// descriptor for the combat engine to apply.
package spell

// Effect is the tagged union of spell effect descriptors. The combat engine
// switches exhaustively over the concrete types; adding a new effect type is
// a compile-visible change.
type Effect interface {
	isEffect()
}

// Damage deals Notation damage to an enemy target.
type Damage struct {
	// Notation is the damage dice, e.g. "3d4+3".
	Notation string
}

// Healing restores hit points to the caster or an ally.
type Healing struct {
	// Notation is the healing dice, ignored when Full is set.
	Notation string
	// Full restores the target to maximum hit points.
	Full bool
}

// Buff describes a stat adjustment. The combat engine currently logs buffs
// without feeding them into combat math; the descriptor carries the full
// shape so a stat engine can consume it later.
type Buff struct {
	// Stat names the adjusted statistic, e.g. "armor_class".
	Stat string
	// Amount is the signed adjustment.
	Amount int
	// Rounds is the nominal duration in combat rounds.
	Rounds int
}

// TurnUndead forces a saving throw on every living enemy; undead that fail
// are destroyed outright.
type TurnUndead struct {
	// DC is the d20 saving-throw threshold. 0 defers to the engine's
	// configured default.
	DC int
}

func (Damage) isEffect()     {}
func (Healing) isEffect()    {}
func (Buff) isEffect()       {}
func (TurnUndead) isEffect() {}

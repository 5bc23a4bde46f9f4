package combat

import (
	"fmt"

	"github.com/mk-git-0/roguecity/internal/game/character"
)

// EnterDefensiveStance toggles the defensive stance flag for the character.
// While active, attacks suffer a -2 penalty; the armor class bonus is
// reflected by the character model itself. Gated on class and an Active
// encounter. Returns the new flag state; false on any gate failure.
func (e *Engine) EnterDefensiveStance() bool {
	active := false
	e.run(func() {
		if e.state != StateActive {
			e.sink.Error("You are not in combat.")
			return
		}
		if !character.CanDefensiveStance(e.char.Class) {
			e.sink.Error(fmt.Sprintf("A %s cannot enter a defensive stance.", e.char.Class))
			return
		}
		mods := e.modifiersFor(e.char.Name)
		mods.DefensiveStance = !mods.DefensiveStance
		active = mods.DefensiveStance
		if active {
			e.sink.Info("You enter a defensive stance. (+2 AC, -2 attack)")
		} else {
			e.sink.Info("You relax out of your defensive stance.")
		}
	})
	return active
}

// AttemptBlock toggles the blocking flag. Requires a shield-trained class
// with a shield equipped and an Active encounter.
func (e *Engine) AttemptBlock() bool {
	active := false
	e.run(func() {
		if e.state != StateActive {
			e.sink.Error("You are not in combat.")
			return
		}
		if !character.CanBlock(e.char.Class) {
			e.sink.Error(fmt.Sprintf("A %s does not know how to block.", e.char.Class))
			return
		}
		if !e.char.Equipment.HasShield() {
			e.sink.Error("You need a shield to block.")
			return
		}
		mods := e.modifiersFor(e.char.Name)
		mods.Blocking = !mods.Blocking
		active = mods.Blocking
		if active {
			e.sink.Info("You raise your shield to block. (+2 AC vs melee)")
		} else {
			e.sink.Info("You lower your shield.")
		}
	})
	return active
}

// AttemptParry toggles the parrying flag. Requires a parry-trained class
// with a weapon in the main hand and an Active encounter.
func (e *Engine) AttemptParry() bool {
	active := false
	e.run(func() {
		if e.state != StateActive {
			e.sink.Error("You are not in combat.")
			return
		}
		if !character.CanParry(e.char.Class) {
			e.sink.Error(fmt.Sprintf("A %s does not know how to parry.", e.char.Class))
			return
		}
		if e.char.Equipment.MainHand() == nil {
			e.sink.Error("You need a weapon to parry.")
			return
		}
		mods := e.modifiersFor(e.char.Name)
		mods.Parrying = !mods.Parrying
		active = mods.Parrying
		if active {
			e.sink.Info("You ready your weapon to parry. (+1 AC vs melee)")
		} else {
			e.sink.Info("You stop parrying.")
		}
	})
	return active
}

// ToggleDualWield toggles the dual-wield flag. Requires a dual-wield-capable
// class with two weapons equipped and an Active encounter. The extra attack
// slots come from the equipped weapons themselves; this toggle only tracks
// the declared style for narration and status.
func (e *Engine) ToggleDualWield() bool {
	active := false
	e.run(func() {
		if e.state != StateActive {
			e.sink.Error("You are not in combat.")
			return
		}
		if !character.CanDualWield(e.char.Class) {
			e.sink.Error(fmt.Sprintf("A %s cannot fight with two weapons.", e.char.Class))
			return
		}
		if len(e.char.Equipment.AllWeapons()) < 2 {
			e.sink.Error("You need two weapons to dual-wield.")
			return
		}
		mods := e.modifiersFor(e.char.Name)
		mods.DualWielding = !mods.DualWielding
		active = mods.DualWielding
		if active {
			e.sink.Info("You take up a two-weapon fighting style. (extra off-hand attacks)")
		} else {
			e.sink.Info("You return to a single-weapon style.")
		}
	})
	return active
}

// AttemptChargeAttack performs a charging attack: +2 attack and +4 damage on
// a single immediate attack resolution against the named (or default)
// target. Unlike the other stances this resolves an attack rather than
// toggling a persistent flag; the charge bonus is consumed by that attack.
func (e *Engine) AttemptChargeAttack(targetName string) bool {
	ok := false
	e.run(func() {
		if e.state != StateActive {
			e.sink.Error("You are not in combat.")
			return
		}
		if !e.char.IsAlive() {
			e.sink.Error("You are in no condition to fight.")
			return
		}
		if !character.CanCharge(e.char.Class) {
			e.sink.Error(fmt.Sprintf("A %s cannot charge.", e.char.Class))
			return
		}
		target := e.resolveTarget(targetName)
		if target == nil {
			if targetName != "" {
				e.sink.Error(fmt.Sprintf("There is no %s to attack.", targetName))
			} else {
				e.sink.Error("There are no enemies to attack.")
			}
			return
		}

		e.sink.Combat(fmt.Sprintf("You charge at the %s! (+2 attack, +4 damage)", target.Name))
		e.modifiersFor(e.char.Name).Charging = true
		e.resolveCharacterAttack(target)
		ok = true
	})
	return ok
}

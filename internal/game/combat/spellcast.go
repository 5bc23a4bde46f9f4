package combat

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mk-git-0/roguecity/internal/game/character"
	"github.com/mk-git-0/roguecity/internal/game/spell"
)

// CastSpellInCombat casts spellName and applies its effect inside the
// current encounter: damage against a resolved target (an enemy, or the
// caster via the "self"/"me"/"ally" keywords), healing on the caster, buffs
// (currently narration only), or turn-undead against every living enemy.
// Mana is only spent once all class gates have passed and, for damage
// spells, the target has resolved. Returns false on any gate or cast
// refusal.
func (e *Engine) CastSpellInCombat(spellName, targetName string) bool {
	ok := false
	e.run(func() {
		ok = e.castSpellLocked(spellName, targetName)
	})
	return ok
}

func (e *Engine) castSpellLocked(spellName, targetName string) bool {
	if e.state != StateActive {
		e.sink.Error("You are not in combat.")
		return false
	}
	if !e.char.IsAlive() {
		e.sink.Error("You are in no condition to cast spells.")
		return false
	}
	if !character.IsSpellcaster(e.char.Class) {
		e.sink.Error(fmt.Sprintf("A %s cannot cast spells.", e.char.Class))
		return false
	}

	// Gates that depend on the resolved spell run before Cast so a refused
	// attempt costs no mana: turn undead has its own class gate on top of
	// spellcasting, and damage spells must resolve their target first.
	if resolved, found := e.book.Resolve(spellName); found {
		switch resolved.Effect.(type) {
		case spell.TurnUndead:
			if !character.CanTurnUndead(e.char.Class) {
				e.sink.Error(fmt.Sprintf("A %s cannot turn undead.", e.char.Class))
				return false
			}
		case spell.Damage:
			if !e.spellTargetsSelf(targetName) && e.resolveTarget(targetName) == nil {
				if targetName != "" {
					e.sink.Error(fmt.Sprintf("There is no %s to target.", targetName))
				} else {
					e.sink.Error("There are no enemies to target.")
				}
				return false
			}
		}
	}

	ok, message, effect := e.book.Cast(e.char, spellName)
	if !ok {
		e.sink.Error(message)
		return false
	}

	e.sink.Success(fmt.Sprintf("You cast %s!", spellName))
	if message != "" {
		e.sink.Info(message)
	}

	switch eff := effect.(type) {
	case spell.Damage:
		return e.applyDamageSpell(eff, targetName)
	case spell.Healing:
		e.applyHealingSpell(eff)
	case spell.Buff:
		e.sink.Info(fmt.Sprintf("Your %s is bolstered by %+d for %d rounds.", eff.Stat, eff.Amount, eff.Rounds))
	case spell.TurnUndead:
		e.applyTurnUndead(eff)
	}
	return true
}

// spellTargetsSelf reports whether targetName names the caster during spell
// target resolution: the "self"/"me"/"ally" keywords or the character's own
// name.
func (e *Engine) spellTargetsSelf(targetName string) bool {
	switch strings.ToLower(targetName) {
	case "self", "me", "ally":
		return true
	}
	return targetName != "" && strings.EqualFold(targetName, e.char.Name)
}

// applyDamageSpell resolves a damage effect against a single target, which
// may be the caster when the target keywords name them. Spell damage carries
// no critical doubling; the minimum-1 floor still applies. Death is checked
// exactly as in melee resolution.
func (e *Engine) applyDamageSpell(eff spell.Damage, targetName string) bool {
	if e.spellTargetsSelf(targetName) {
		return e.applyDamageSpellToSelf(eff)
	}
	target := e.resolveTarget(targetName)
	if target == nil {
		if targetName != "" {
			e.sink.Error(fmt.Sprintf("There is no %s to target.", targetName))
		} else {
			e.sink.Error("There are no enemies to target.")
		}
		return false
	}

	damage, err := e.roller.RollWithContext(eff.Notation, e.char.Name, "spell_damage")
	if err != nil {
		e.logger.Error("spell damage roll failed", zap.Error(err))
		return false
	}
	if damage < 1 {
		damage = 1
	}
	e.sink.Combat(fmt.Sprintf("The spell strikes the %s for %d damage!", target.Name, damage))

	target.TakeDamage(damage)
	if target.IsAlive() {
		e.sink.Combat(fmt.Sprintf("The %s has %s HP remaining (%d%%).", target.Name, target.HPString(), target.HPPercent()))
		return true
	}
	e.handleEnemyDeath(target)
	return true
}

func (e *Engine) applyDamageSpellToSelf(eff spell.Damage) bool {
	damage, err := e.roller.RollWithContext(eff.Notation, e.char.Name, "spell_damage")
	if err != nil {
		e.logger.Error("spell damage roll failed", zap.Error(err))
		return false
	}
	if damage < 1 {
		damage = 1
	}
	e.sink.Combat(fmt.Sprintf("The spell strikes you for %d damage!", damage))

	e.char.TakeDamage(damage)
	if !e.char.IsAlive() {
		e.sink.Critical("You have been defeated!")
		e.endCombatLocked(false)
	}
	return true
}

// applyHealingSpell restores the caster's hit points: the full missing
// amount for Full effects, otherwise a dice roll.
func (e *Engine) applyHealingSpell(eff spell.Healing) {
	amount := e.char.MaxHP - e.char.CurrentHP
	if !eff.Full {
		rolled, err := e.roller.RollWithContext(eff.Notation, e.char.Name, "healing")
		if err != nil {
			e.logger.Error("healing roll failed", zap.Error(err))
			return
		}
		amount = rolled
	}
	healed := e.char.Heal(amount)
	e.sink.Success(fmt.Sprintf("You recover %d hit points. (%s HP)", healed, e.char.HPString()))
}

// applyTurnUndead forces a d20 save against the DC on every living enemy,
// iterating a snapshot in creation order. Undead that fail the save are
// destroyed outright; everything else shrugs it off.
func (e *Engine) applyTurnUndead(eff spell.TurnUndead) {
	dc := eff.DC
	if dc <= 0 {
		dc = e.opts.TurnUndeadDC
	}

	snapshot := make([]*character.Enemy, 0, len(e.enemyOrder))
	for _, combatID := range e.enemyOrder {
		if enemy := e.enemies[combatID]; enemy != nil && enemy.IsAlive() {
			snapshot = append(snapshot, enemy)
		}
	}

	for _, enemy := range snapshot {
		if e.state != StateActive {
			return
		}
		save, err := e.roller.RollWithContext("1d20", enemy.CombatID, "turn_undead_save")
		if err != nil {
			e.logger.Error("turn undead save failed", zap.Error(err))
			continue
		}
		if !enemy.IsUndead() || save >= dc {
			e.sink.Combat(fmt.Sprintf("The %s resists the turning!", enemy.Name))
			continue
		}

		e.sink.Critical(fmt.Sprintf("The %s is destroyed by holy power!", enemy.Name))
		enemy.TakeDamage(enemy.CurrentHP)
		e.xpGained += enemy.ExperienceValue
		e.lootGained = append(e.lootGained, enemy.RollLoot(e.roller.Source())...)
	}

	if e.state == StateActive && !e.anyEnemyAlive() {
		e.endCombatLocked(true)
	}
}

package combat

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mk-git-0/roguecity/internal/game/character"
	"github.com/mk-git-0/roguecity/internal/game/dice"
	"github.com/mk-git-0/roguecity/internal/game/scheduler"
	"github.com/mk-git-0/roguecity/internal/game/spell"
)

// Options tunes the combat engine.
type Options struct {
	// UnarmedDice is the damage dice for attacks without a weapon.
	UnarmedDice string
	// UnarmedPenalty is the flat damage penalty folded into unarmed attacks.
	UnarmedPenalty int
	// AutoCombatInterval is the delay, in seconds, between automatic attacks.
	AutoCombatInterval float64
	// FleeEnabled switches FleeCombat from fixed failure to a d20 check.
	FleeEnabled bool
	// FleeDC is the d20 threshold for a flee attempt when FleeEnabled.
	FleeDC int
	// TurnUndeadDC is the saving-throw DC for turn-undead effects that do
	// not carry their own.
	TurnUndeadDC int
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		UnarmedDice:        "1d4",
		UnarmedPenalty:     -2,
		AutoCombatInterval: 2.0,
		FleeEnabled:        false,
		FleeDC:             12,
		TurnUndeadDC:       13,
	}
}

// Engine owns at most one active encounter at a time and resolves its turns
// synchronously: a full turn (all player attacks, then every surviving
// enemy's counter-attack) completes within one call. The scheduler is used
// only for time-deferred events orthogonal to the turn itself: auto-combat
// continuation and respawns.
//
// All exported methods are safe for concurrent use; the mutex gives each
// turn exclusive access to the encounter and its combatants.
type Engine struct {
	sched    *scheduler.Scheduler
	roller   *dice.Roller
	book     *spell.Book
	sink     Sink
	observer EncounterObserver
	opts     Options
	logger   *zap.Logger

	mu            sync.Mutex
	state         State
	encounterID   string
	char          *character.Character
	enemies       map[string]*character.Enemy
	enemyOrder    []string
	enemyCounter  int
	round         int
	xpGained      int
	lootGained    []character.LootDrop
	autoCombat    bool
	modifiers     map[string]*Modifiers
	pendingResult *Result
}

// NewEngine creates a combat Engine in the Inactive state.
//
// Precondition: sched, roller, book, sink, and logger must be non-nil.
// observer may be nil (end-of-combat notifications are skipped).
func NewEngine(sched *scheduler.Scheduler, roller *dice.Roller, book *spell.Book, sink Sink, observer EncounterObserver, opts Options, logger *zap.Logger) *Engine {
	return &Engine{
		sched:     sched,
		roller:    roller,
		book:      book,
		sink:      sink,
		observer:  observer,
		opts:      opts,
		logger:    logger,
		enemies:   make(map[string]*character.Enemy),
		modifiers: make(map[string]*Modifiers),
	}
}

// IsActive reports whether an encounter is in progress.
func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateActive
}

// run executes fn under the encounter lock, then delivers any end-of-combat
// notification produced by fn with the lock released, so the observer may
// call back into the engine.
func (e *Engine) run(fn func()) {
	e.mu.Lock()
	fn()
	pending := e.pendingResult
	e.pendingResult = nil
	e.mu.Unlock()

	if pending != nil && e.observer != nil {
		e.observer.EncounterEnded(*pending)
	}
}

// StartCombat begins an encounter between char and enemies.
//
// Precondition violations (an encounter already Active, no enemies, dead
// character) return false with no state change.
// Postcondition: on success the state is Active, every enemy carries a
// sequential combat ID in creation order, and the banner line was emitted.
func (e *Engine) StartCombat(char *character.Character, enemies []*character.Enemy) bool {
	started := false
	e.run(func() {
		started = e.startCombatLocked(char, enemies)
	})
	return started
}

func (e *Engine) startCombatLocked(char *character.Character, enemies []*character.Enemy) bool {
	if e.state != StateInactive {
		return false
	}
	if char == nil || !char.IsAlive() || len(enemies) == 0 {
		return false
	}

	e.encounterID = uuid.NewString()
	e.char = char
	e.enemies = make(map[string]*character.Enemy, len(enemies))
	e.enemyOrder = e.enemyOrder[:0]
	e.enemyCounter = 0
	for _, enemy := range enemies {
		combatID := fmt.Sprintf("enemy_%d", e.enemyCounter)
		e.enemyCounter++
		enemy.CombatID = combatID
		e.enemies[combatID] = enemy
		e.enemyOrder = append(e.enemyOrder, combatID)
	}

	e.state = StateActive
	e.round = 1
	e.xpGained = 0
	e.lootGained = nil
	e.autoCombat = false
	e.modifiers = make(map[string]*Modifiers)

	if len(enemies) == 1 {
		e.sink.Combat(fmt.Sprintf("A %s appears!", enemies[0].Name))
	} else {
		names := make([]string, len(enemies))
		for i, enemy := range enemies {
			names[i] = enemy.Name
		}
		e.sink.Combat(fmt.Sprintf("Enemies appear: %s!", strings.Join(names, ", ")))
	}

	e.logger.Info("combat started",
		zap.String("encounter_id", e.encounterID),
		zap.String("character", char.Name),
		zap.Int("enemies", len(enemies)),
	)
	return true
}

// EndCombat tears down the current encounter and returns its summary.
// A call while Inactive is a no-op returning an empty Result.
func (e *Engine) EndCombat(victory bool) Result {
	var result Result
	e.run(func() {
		result = e.endCombatLocked(victory)
	})
	return result
}

func (e *Engine) endCombatLocked(victory bool) Result {
	if e.state == StateInactive {
		return Result{}
	}

	// Cancel every deferred action tagged with the character or a combat ID
	// before clearing state, so no stale timer can fire into the torn-down
	// encounter.
	e.sched.CancelActorActions(e.char.Name)
	for _, combatID := range e.enemyOrder {
		e.sched.CancelActorActions(combatID)
	}

	defeated := 0
	for _, enemy := range e.enemies {
		if !enemy.IsAlive() {
			defeated++
		}
	}

	result := Result{
		Victory:          victory,
		Rounds:           e.round,
		ExperienceGained: e.xpGained,
		Loot:             append([]character.LootDrop(nil), e.lootGained...),
		EnemiesDefeated:  defeated,
	}

	if victory {
		e.state = StateVictory
	} else {
		e.state = StateDefeat
	}

	if victory && e.xpGained > 0 {
		e.char.GainExperience(e.xpGained)
		e.sink.Success(fmt.Sprintf("You gain %d experience points!", e.xpGained))
	}
	if len(e.lootGained) > 0 {
		names := make([]string, len(e.lootGained))
		for i, drop := range e.lootGained {
			names[i] = drop.Name
		}
		e.sink.Success(fmt.Sprintf("You find: %s", strings.Join(names, ", ")))
	}

	e.logger.Info("combat ended",
		zap.String("encounter_id", e.encounterID),
		zap.Bool("victory", victory),
		zap.Int("rounds", result.Rounds),
		zap.Int("experience", result.ExperienceGained),
		zap.Int("enemies_defeated", result.EnemiesDefeated),
	)

	for _, enemy := range e.enemies {
		enemy.CombatID = ""
	}
	e.state = StateInactive
	e.encounterID = ""
	e.char = nil
	e.enemies = make(map[string]*character.Enemy)
	e.enemyOrder = nil
	e.enemyCounter = 0
	e.round = 0
	e.xpGained = 0
	e.lootGained = nil
	e.autoCombat = false
	e.modifiers = make(map[string]*Modifiers)

	e.pendingResult = &result
	return result
}

// AttackEnemy resolves one full combat turn: every player attack slot
// against the named (or default) target, then one counter-attack from each
// surviving enemy. Returns false without resolving anything when the
// preconditions fail.
func (e *Engine) AttackEnemy(targetName string) bool {
	ok := false
	e.run(func() {
		ok = e.attackEnemyLocked(targetName)
	})
	return ok
}

func (e *Engine) attackEnemyLocked(targetName string) bool {
	if e.state != StateActive {
		e.sink.Error("You are not in combat.")
		return false
	}
	if !e.char.IsAlive() {
		e.sink.Error("You are in no condition to fight.")
		return false
	}
	if e.resolveTarget(targetName) == nil {
		if targetName != "" {
			e.sink.Error(fmt.Sprintf("There is no %s to attack.", targetName))
		} else {
			e.sink.Error("There are no enemies to attack.")
		}
		return false
	}

	// Player phase: the target is re-resolved for every attack slot so a
	// dual-wielder keeps swinging after the first target dies.
	for i := 0; i < e.attacksPerTurn(); i++ {
		target := e.resolveTarget(targetName)
		if target == nil {
			break
		}
		e.resolveCharacterAttack(target)
		if e.state != StateActive {
			return true
		}
	}

	// Enemy phase: iterate a snapshot in creation order so a death during
	// the phase cannot skip or duplicate another enemy's attack.
	snapshot := make([]*character.Enemy, 0, len(e.enemyOrder))
	for _, combatID := range e.enemyOrder {
		snapshot = append(snapshot, e.enemies[combatID])
	}
	for _, enemy := range snapshot {
		if e.state != StateActive || !e.char.IsAlive() {
			break
		}
		if enemy == nil || !enemy.IsAlive() {
			continue
		}
		e.resolveEnemyAttack(enemy)
	}

	if e.state == StateActive {
		e.round++
	}
	return true
}

// attacksPerTurn returns the number of player attack slots this turn: 1 for
// ordinary setups, or the sum of each equipped weapon's attacks-per-turn for
// a dual-wield-capable class holding two weapons. Never less than 1.
func (e *Engine) attacksPerTurn() int {
	weapons := e.char.Equipment.AllWeapons()
	if !character.CanDualWield(e.char.Class) || len(weapons) < 2 {
		return 1
	}
	total := 0
	for _, w := range weapons {
		total += w.EffectiveAttacksPerTurn()
	}
	if total < 1 {
		total = 1
	}
	return total
}

// resolveTarget finds the attack target among living enemies in creation
// order. An empty name selects the first living enemy. A non-empty name
// matches, in priority order: exact (case-insensitive), then substring in
// either direction.
func (e *Engine) resolveTarget(name string) *character.Enemy {
	if name == "" {
		for _, combatID := range e.enemyOrder {
			if enemy := e.enemies[combatID]; enemy != nil && enemy.IsAlive() {
				return enemy
			}
		}
		return nil
	}

	want := strings.ToLower(name)
	for _, combatID := range e.enemyOrder {
		enemy := e.enemies[combatID]
		if enemy == nil || !enemy.IsAlive() {
			continue
		}
		if strings.ToLower(enemy.Name) == want {
			return enemy
		}
	}
	for _, combatID := range e.enemyOrder {
		enemy := e.enemies[combatID]
		if enemy == nil || !enemy.IsAlive() {
			continue
		}
		have := strings.ToLower(enemy.Name)
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return enemy
		}
	}
	return nil
}

// resolveCharacterAttack executes one player attack against target: attack
// roll vs armor class, damage with the minimum-1 floor applied before any
// critical doubling, then death and victory accounting.
func (e *Engine) resolveCharacterAttack(target *character.Enemy) {
	mods := e.modifiersFor(e.char.Name)
	weapon := e.char.Equipment.MainHand()

	attackBonus := e.char.BaseAttackBonus
	critRange := e.char.CriticalRange()
	if weapon != nil {
		attackBonus += weapon.AttackBonus
		if weapon.CritRange > 0 {
			critRange = weapon.CritRange
		}
	}
	if mods.DefensiveStance {
		attackBonus -= 2
	}
	charging := mods.Charging
	if charging {
		attackBonus += 2
		mods.Charging = false
	}

	total, _, crit, err := e.roller.AttackRoll(dice.WithBonus("1d20", attackBonus), critRange)
	if err != nil {
		e.logger.Error("attack roll failed", zap.Error(err))
		return
	}

	// Meeting the armor class is a hit.
	if total < target.ArmorClass {
		e.sink.Combat(fmt.Sprintf("You miss the %s!", target.Name))
		return
	}

	baseDice := e.opts.UnarmedDice
	bonus := e.opts.UnarmedPenalty
	if weapon != nil {
		baseDice = weapon.DamageDice
		bonus = weapon.DamageBonus
	}
	stat := "strength"
	if character.UsesFinesse(e.char.Class) {
		stat = "dexterity"
	}
	bonus += e.char.StatModifier(stat)
	if charging {
		bonus += 4
	}

	damage, err := e.roller.RollWithContext(dice.WithBonus(baseDice, bonus), e.char.Name, "damage")
	if err != nil {
		e.logger.Error("damage roll failed", zap.Error(err))
		return
	}
	if damage < 1 {
		damage = 1
	}
	if crit {
		damage *= 2
		e.sink.Critical(fmt.Sprintf("Critical hit! You attack the %s for %d damage!", target.Name, damage))
	} else {
		e.sink.Combat(fmt.Sprintf("You attack the %s for %d damage!", target.Name, damage))
	}

	target.TakeDamage(damage)
	if target.IsAlive() {
		e.sink.Combat(fmt.Sprintf("The %s has %s HP remaining (%d%%).", target.Name, target.HPString(), target.HPPercent()))
		return
	}
	e.handleEnemyDeath(target)
}

// handleEnemyDeath logs the kill, banks experience and loot, and ends the
// encounter when no enemy remains alive.
func (e *Engine) handleEnemyDeath(enemy *character.Enemy) {
	e.sink.Critical(fmt.Sprintf("The %s dies!", enemy.Name))
	e.xpGained += enemy.ExperienceValue
	e.lootGained = append(e.lootGained, enemy.RollLoot(e.roller.Source())...)

	if !e.anyEnemyAlive() {
		e.endCombatLocked(true)
	}
}

func (e *Engine) anyEnemyAlive() bool {
	for _, enemy := range e.enemies {
		if enemy.IsAlive() {
			return true
		}
	}
	return false
}

// resolveEnemyAttack executes one enemy attack against the character,
// mirroring the player resolution with the enemy's fixed attack bonus,
// damage dice, and the default critical threshold.
func (e *Engine) resolveEnemyAttack(enemy *character.Enemy) {
	total, _, crit, err := e.roller.AttackRoll(
		dice.WithBonus("1d20", enemy.AttackBonus),
		character.DefaultCriticalRange,
	)
	if err != nil {
		e.logger.Error("enemy attack roll failed", zap.Error(err))
		return
	}

	if total < e.char.ArmorClass {
		e.sink.Combat(fmt.Sprintf("The %s misses you!", enemy.Name))
		return
	}

	damage, err := e.roller.RollWithContext(enemy.DamageDice, enemy.CombatID, "damage")
	if err != nil {
		e.logger.Error("enemy damage roll failed", zap.Error(err))
		return
	}
	if damage < 1 {
		damage = 1
	}
	if crit {
		damage *= 2
		e.sink.Critical(fmt.Sprintf("Critical hit! The %s attacks you for %d damage!", enemy.Name, damage))
	} else {
		e.sink.Error(fmt.Sprintf("The %s attacks you for %d damage!", enemy.Name, damage))
	}

	e.char.TakeDamage(damage)
	if !e.char.IsAlive() {
		e.sink.Critical("You have been defeated!")
		e.endCombatLocked(false)
	}
}

// modifiersFor returns the encounter-scoped modifier flags for actorID,
// creating them on first use.
func (e *Engine) modifiersFor(actorID string) *Modifiers {
	mods, ok := e.modifiers[actorID]
	if !ok {
		mods = &Modifiers{}
		e.modifiers[actorID] = mods
	}
	return mods
}

// ToggleAutoCombat flips the auto-combat toggle. While enabled, a
// scheduler action re-attacks the default target at the configured
// interval; disabling (or the encounter ending) cancels the chain. Returns
// the new toggle state; false when not in combat.
func (e *Engine) ToggleAutoCombat() bool {
	enabled := false
	e.run(func() {
		if e.state != StateActive {
			e.sink.Error("You are not in combat.")
			return
		}
		e.autoCombat = !e.autoCombat
		enabled = e.autoCombat

		if e.autoCombat {
			e.sink.Info("Auto-combat enabled - attacking automatically.")
			e.scheduleAutoAttackLocked()
		} else {
			e.sink.Info("Auto-combat disabled.")
			e.sched.CancelActorActions(e.char.Name)
		}
	})
	return enabled
}

func (e *Engine) scheduleAutoAttackLocked() {
	e.sched.ScheduleAction(e.char.Name, "auto_attack", e.opts.AutoCombatInterval, nil, e.autoAttack)
}

// autoAttack is the scheduler callback driving auto-combat. Each fire
// schedules its own successor, but only while the encounter is still active
// and the toggle is still set. A one-shot chain cannot outlive the
// encounter: when the attack itself ends combat, no successor is queued, so
// endCombat's CancelActorActions leaves nothing behind to fire into the
// next encounter.
func (e *Engine) autoAttack(_ *scheduler.TimedAction) {
	e.run(func() {
		if e.state != StateActive || !e.autoCombat || !e.char.IsAlive() {
			return
		}
		e.attackEnemyLocked("")
		if e.state == StateActive && e.autoCombat {
			e.scheduleAutoAttackLocked()
		}
	})
}

// FleeCombat attempts to escape the encounter. Under the default policy the
// attempt always fails with a fixed message; when Options.FleeEnabled is set
// it becomes a d20 check against Options.FleeDC, and success ends the
// encounter as a non-victory without applying rewards.
func (e *Engine) FleeCombat() bool {
	fled := false
	e.run(func() {
		if e.state != StateActive {
			e.sink.Error("You are not in combat.")
			return
		}
		if !e.opts.FleeEnabled {
			e.sink.Error("You cannot flee from this battle!")
			return
		}

		roll, err := e.roller.RollWithContext("1d20", e.char.Name, "flee")
		if err != nil {
			e.logger.Error("flee roll failed", zap.Error(err))
			return
		}
		if roll < e.opts.FleeDC {
			e.sink.Error("You fail to escape!")
			return
		}
		e.sink.Success("You flee from combat!")
		e.endCombatLocked(false)
		fled = true
	})
	return fled
}

// ScheduleRespawn queues spawn to run after delay seconds, tagged with
// actorID so it participates in actor-level cancellation.
//
// Precondition: delay >= 0; spawn must be non-nil.
func (e *Engine) ScheduleRespawn(actorID string, delay float64, spawn func()) {
	e.sched.ScheduleAction(actorID, "respawn", delay, nil, func(_ *scheduler.TimedAction) {
		spawn()
	})
}

// CombatStatus returns a snapshot of the current encounter. The Active field
// is false when no encounter exists, in which case the rest is zero.
func (e *Engine) CombatStatus() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateActive {
		return Status{Active: false, State: e.state.String()}
	}

	status := Status{
		Active:     true,
		State:      e.state.String(),
		Round:      e.round,
		AutoCombat: e.autoCombat,
		PlayerHP:   e.char.HPString(),
	}
	for _, combatID := range e.enemyOrder {
		enemy := e.enemies[combatID]
		status.Enemies = append(status.Enemies, EnemyStatus{
			Name:  enemy.Name,
			HP:    enemy.HPString(),
			Alive: enemy.IsAlive(),
		})
		if enemy.IsAlive() {
			status.LivingEnemies++
		}
	}
	return status
}

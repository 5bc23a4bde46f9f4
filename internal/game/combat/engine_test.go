package combat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mk-git-0/roguecity/internal/game/character"
	"github.com/mk-git-0/roguecity/internal/game/combat"
	"github.com/mk-git-0/roguecity/internal/game/dice"
	"github.com/mk-git-0/roguecity/internal/game/scheduler"
	"github.com/mk-git-0/roguecity/internal/game/spell"
	"github.com/mk-git-0/roguecity/internal/testutil"
)

// fakeClock is a manually-advanced clock for scheduler determinism.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(seconds float64) {
	c.now = c.now.Add(time.Duration(seconds * float64(time.Second)))
}

// resultRecorder captures observer notifications.
type resultRecorder struct {
	results []combat.Result
}

func (r *resultRecorder) EncounterEnded(res combat.Result) {
	r.results = append(r.results, res)
}

// harness bundles the engine with its scripted source and recorders.
type harness struct {
	engine   *combat.Engine
	sink     *testutil.RecorderSink
	observer *resultRecorder
	sched    *scheduler.Scheduler
	clock    *fakeClock
}

func newHarness(t *testing.T, opts combat.Options, faces ...int) *harness {
	t.Helper()
	clock := newFakeClock()
	sched := scheduler.New(zap.NewNop(), scheduler.WithClock(clock.Now))
	roller := dice.NewRoller(testutil.NewFixedSource(faces...), zap.NewNop())
	sink := &testutil.RecorderSink{}
	observer := &resultRecorder{}
	engine := combat.NewEngine(sched, roller, spell.NewBook(), sink, observer, opts, zap.NewNop())
	return &harness{engine: engine, sink: sink, observer: observer, sched: sched, clock: clock}
}

func newWarrior() *character.Character {
	return &character.Character{
		Name:            "Aldric",
		Class:           character.ClassWarrior,
		Level:           2,
		MaxHP:           20,
		CurrentHP:       20,
		ArmorClass:      12,
		BaseAttackBonus: 3,
		Abilities:       character.AbilityScores{Strength: 10, Dexterity: 10},
	}
}

func newGoblin() *character.Enemy {
	return character.NewEnemy(&character.EnemyTemplate{
		ID: "goblin", Name: "goblin", MaxHP: 8, ArmorClass: 12,
		AttackBonus: 2, DamageDice: "1d4+1", ExperienceValue: 25,
	})
}

func newSkeleton() *character.Enemy {
	return character.NewEnemy(&character.EnemyTemplate{
		ID: "skeleton", Name: "skeleton", MaxHP: 10, ArmorClass: 13,
		AttackBonus: 2, DamageDice: "1d6", ExperienceValue: 35,
		CreatureType: "undead",
	})
}

// TestStartCombat verifies combat ID assignment, the banner, and the
// single-encounter invariant.
func TestStartCombat(t *testing.T) {
	h := newHarness(t, combat.DefaultOptions(), 1)
	hero := newWarrior()
	goblin, skeleton := newGoblin(), newSkeleton()

	require.True(t, h.engine.StartCombat(hero, []*character.Enemy{goblin, skeleton}))
	assert.True(t, h.engine.IsActive())
	assert.Equal(t, "enemy_0", goblin.CombatID)
	assert.Equal(t, "enemy_1", skeleton.CombatID)
	assert.Contains(t, h.sink.Combats[0], "Enemies appear")

	assert.False(t, h.engine.StartCombat(hero, []*character.Enemy{newGoblin()}),
		"a second encounter while one is active must be refused")
}

// TestStartCombat_Preconditions verifies refusal on empty enemies and a dead
// character.
func TestStartCombat_Preconditions(t *testing.T) {
	h := newHarness(t, combat.DefaultOptions(), 1)

	assert.False(t, h.engine.StartCombat(newWarrior(), nil))

	dead := newWarrior()
	dead.CurrentHP = 0
	assert.False(t, h.engine.StartCombat(dead, []*character.Enemy{newGoblin()}))
}

// TestAttackEnemy_NotInCombat verifies the inactive gate.
func TestAttackEnemy_NotInCombat(t *testing.T) {
	h := newHarness(t, combat.DefaultOptions(), 1)
	assert.False(t, h.engine.AttackEnemy(""))
	assert.Contains(t, h.sink.Errors, "You are not in combat.")
}

// TestAttackEnemy_HitOnExactArmorClass verifies that meeting the armor class
// is a hit and one below is a miss.
func TestAttackEnemy_HitOnExactArmorClass(t *testing.T) {
	// Player: natural 9 + 3 = 12 == AC 12, hit. Unarmed damage face 3:
	// 3 - 2 = 1. Goblin counter: natural 5 + 2 = 7 < 12, miss.
	h := newHarness(t, combat.DefaultOptions(), 9, 3, 5)
	goblin := newGoblin()
	require.True(t, h.engine.StartCombat(newWarrior(), []*character.Enemy{goblin}))

	require.True(t, h.engine.AttackEnemy(""))
	assert.Contains(t, h.sink.Combats, "You attack the goblin for 1 damage!")
	assert.Equal(t, 7, goblin.CurrentHP)
	assert.Contains(t, h.sink.Combats, "The goblin misses you!")
}

func TestAttackEnemy_MissBelowArmorClass(t *testing.T) {
	// Player: natural 8 + 3 = 11 < AC 12, miss. Goblin counter: miss too.
	h := newHarness(t, combat.DefaultOptions(), 8, 5)
	goblin := newGoblin()
	require.True(t, h.engine.StartCombat(newWarrior(), []*character.Enemy{goblin}))

	require.True(t, h.engine.AttackEnemy(""))
	assert.Contains(t, h.sink.Combats, "You miss the goblin!")
	assert.Equal(t, 8, goblin.CurrentHP)
}

// TestAttackEnemy_DamageFloor verifies damage below 1 clamps to 1.
func TestAttackEnemy_DamageFloor(t *testing.T) {
	// Unarmed 1d4-2 with a face of 1 is -1 raw; applied damage must be 1.
	h := newHarness(t, combat.DefaultOptions(), 15, 1, 5)
	goblin := newGoblin()
	require.True(t, h.engine.StartCombat(newWarrior(), []*character.Enemy{goblin}))

	require.True(t, h.engine.AttackEnemy(""))
	assert.Contains(t, h.sink.Combats, "You attack the goblin for 1 damage!")
	assert.Equal(t, 7, goblin.CurrentHP)
}

// TestAttackEnemy_CriticalDoublesAfterFloor verifies the minimum-1 floor is
// applied before critical doubling: a crit never deals less than 2.
func TestAttackEnemy_CriticalDoublesAfterFloor(t *testing.T) {
	// Natural 20 crits; unarmed damage face 1 floors to 1, then doubles.
	h := newHarness(t, combat.DefaultOptions(), 20, 1, 5)
	goblin := newGoblin()
	require.True(t, h.engine.StartCombat(newWarrior(), []*character.Enemy{goblin}))

	require.True(t, h.engine.AttackEnemy(""))
	assert.Contains(t, h.sink.Criticals, "Critical hit! You attack the goblin for 2 damage!")
	assert.Equal(t, 6, goblin.CurrentHP)
}

// TestAttackEnemy_WeaponCritRange verifies a weapon's widened critical range
// overrides the character default.
func TestAttackEnemy_WeaponCritRange(t *testing.T) {
	// Rapier crits on 18. Natural 18 + 3 = 21 hits; damage face 4 doubles
	// to 8, killing the goblin and ending combat before any counter.
	h := newHarness(t, combat.DefaultOptions(), 18, 4)
	hero := newWarrior()
	hero.Equipment.EquipMainHand(&character.Weapon{
		ID: "rapier", Name: "Rapier", DamageDice: "1d8", CritRange: 18,
	})
	goblin := newGoblin()
	require.True(t, h.engine.StartCombat(hero, []*character.Enemy{goblin}))

	require.True(t, h.engine.AttackEnemy(""))
	assert.Contains(t, h.sink.Criticals, "Critical hit! You attack the goblin for 8 damage!")
	assert.False(t, goblin.IsAlive())
}

// TestAttackEnemy_WeaponNotationWithModifier verifies a weapon authored
// with an embedded modifier in its damage dice still rolls: the modifier is
// merged with the stat and weapon bonuses instead of producing notation the
// dice service rejects.
func TestAttackEnemy_WeaponNotationWithModifier(t *testing.T) {
	// Attack 15 + 3 = 18 vs AC 12 hits; damage 1d6+2 face 4 = 6.
	h := newHarness(t, combat.DefaultOptions(), 15, 4, 1, 1)
	hero := newWarrior()
	hero.Equipment.EquipMainHand(&character.Weapon{
		ID: "broadsword", Name: "Broadsword", DamageDice: "1d6+2",
	})
	goblin := newGoblin()
	require.True(t, h.engine.StartCombat(hero, []*character.Enemy{goblin}))

	require.True(t, h.engine.AttackEnemy(""))
	assert.Contains(t, h.sink.Combats, "You attack the goblin for 6 damage!")
	assert.Equal(t, 2, goblin.CurrentHP)
}

// TestAttackEnemy_FinesseUsesDexterity verifies rogues fold the dexterity
// modifier into damage instead of strength.
func TestAttackEnemy_FinesseUsesDexterity(t *testing.T) {
	// Dex 16 (+3), Str 10 (0). Dagger 1d4 face 2 -> 2 + 3 = 5 damage.
	h := newHarness(t, combat.DefaultOptions(), 15, 2, 5)
	rogue := newWarrior()
	rogue.Class = character.ClassRogue
	rogue.Abilities.Dexterity = 16
	rogue.Equipment.EquipMainHand(&character.Weapon{ID: "dagger", Name: "Dagger", DamageDice: "1d4"})
	goblin := newGoblin()
	require.True(t, h.engine.StartCombat(rogue, []*character.Enemy{goblin}))

	require.True(t, h.engine.AttackEnemy(""))
	assert.Contains(t, h.sink.Combats, "You attack the goblin for 5 damage!")
}

// TestAttackEnemy_DualWieldAttackCount verifies weapons granting 2 and 1
// attacks produce exactly 3 player attacks in one turn.
func TestAttackEnemy_DualWieldAttackCount(t *testing.T) {
	// Every player attack misses (natural 1) so all three slots resolve
	// against the same living target; the ogre then misses back.
	h := newHarness(t, combat.DefaultOptions(), 1)
	ranger := newWarrior()
	ranger.Class = character.ClassRanger
	ranger.Equipment.EquipMainHand(&character.Weapon{ID: "dagger", Name: "Dagger", DamageDice: "1d4", AttacksPerTurn: 2})
	ranger.Equipment.EquipOffHand(&character.Weapon{ID: "sword", Name: "Sword", DamageDice: "1d6", AttacksPerTurn: 1})
	ogre := character.NewEnemy(&character.EnemyTemplate{
		ID: "ogre", Name: "ogre", MaxHP: 30, ArmorClass: 25, AttackBonus: 1, DamageDice: "1d8",
	})
	require.True(t, h.engine.StartCombat(ranger, []*character.Enemy{ogre}))

	require.True(t, h.engine.AttackEnemy(""))

	misses := 0
	for _, line := range h.sink.Combats {
		if line == "You miss the ogre!" {
			misses++
		}
	}
	assert.Equal(t, 3, misses, "dual-wield with 2+1 attacks must swing three times")
}

// TestAttackEnemy_SingleAttackWithoutDualWieldClass verifies non-dual-wield
// classes get one attack regardless of weapon data.
func TestAttackEnemy_SingleAttackWithoutDualWieldClass(t *testing.T) {
	h := newHarness(t, combat.DefaultOptions(), 1)
	knight := newWarrior()
	knight.Class = character.ClassKnight
	knight.Equipment.EquipMainHand(&character.Weapon{ID: "dagger", Name: "Dagger", DamageDice: "1d4", AttacksPerTurn: 2})
	knight.Equipment.EquipOffHand(&character.Weapon{ID: "sword", Name: "Sword", DamageDice: "1d6"})
	ogre := character.NewEnemy(&character.EnemyTemplate{
		ID: "ogre", Name: "ogre", MaxHP: 30, ArmorClass: 25, AttackBonus: 1, DamageDice: "1d8",
	})
	require.True(t, h.engine.StartCombat(knight, []*character.Enemy{ogre}))

	require.True(t, h.engine.AttackEnemy(""))

	misses := 0
	for _, line := range h.sink.Combats {
		if line == "You miss the ogre!" {
			misses++
		}
	}
	assert.Equal(t, 1, misses)
}

// TestAttackEnemy_EnemyPhaseCreationOrder verifies every surviving enemy
// counter-attacks exactly once, in creation order.
func TestAttackEnemy_EnemyPhaseCreationOrder(t *testing.T) {
	// Player misses; both enemies miss back (faces of 1 throughout).
	h := newHarness(t, combat.DefaultOptions(), 1)
	goblin, skeleton := newGoblin(), newSkeleton()
	require.True(t, h.engine.StartCombat(newWarrior(), []*character.Enemy{goblin, skeleton}))

	require.True(t, h.engine.AttackEnemy(""))

	var enemyMisses []string
	for _, line := range h.sink.Combats {
		if line == "The goblin misses you!" || line == "The skeleton misses you!" {
			enemyMisses = append(enemyMisses, line)
		}
	}
	assert.Equal(t, []string{"The goblin misses you!", "The skeleton misses you!"}, enemyMisses)
}

// TestAttackEnemy_TargetResolution verifies exact, substring, and failed
// target matching.
func TestAttackEnemy_TargetResolution(t *testing.T) {
	h := newHarness(t, combat.DefaultOptions(), 1)
	goblin := newGoblin()
	orc := character.NewEnemy(&character.EnemyTemplate{
		ID: "orc", Name: "orc warrior", MaxHP: 15, ArmorClass: 25, AttackBonus: 1, DamageDice: "1d8",
	})
	require.True(t, h.engine.StartCombat(newWarrior(), []*character.Enemy{goblin, orc}))

	require.True(t, h.engine.AttackEnemy("GOBLIN"), "exact match is case-insensitive")
	require.True(t, h.engine.AttackEnemy("orc"), "partial name matches by substring")
	require.True(t, h.engine.AttackEnemy("the orc warrior chief"), "enemy name inside the input matches")

	assert.False(t, h.engine.AttackEnemy("dragon"))
	assert.Contains(t, h.sink.Errors, "There is no dragon to attack.")
}

// TestAttackEnemy_Victory verifies the kill path: death line, experience,
// loot, observer notification, and full state reset.
func TestAttackEnemy_Victory(t *testing.T) {
	// Natural 20 crits; sword 1d8 face 4 doubles to 8, exactly the goblin's
	// HP. Loot d100 face 1 beats the 30% chance.
	h := newHarness(t, combat.DefaultOptions(), 20, 4, 1)
	hero := newWarrior()
	hero.Equipment.EquipMainHand(&character.Weapon{ID: "sword", Name: "Sword", DamageDice: "1d8"})
	goblin := character.NewEnemy(&character.EnemyTemplate{
		ID: "goblin", Name: "goblin", MaxHP: 8, ArmorClass: 12,
		AttackBonus: 2, DamageDice: "1d4+1", ExperienceValue: 25,
		Loot: []character.LootEntry{{Item: "rusty dagger", Chance: 30}},
	})
	require.True(t, h.engine.StartCombat(hero, []*character.Enemy{goblin}))

	require.True(t, h.engine.AttackEnemy(""))

	assert.Contains(t, h.sink.Criticals, "The goblin dies!")
	assert.Contains(t, h.sink.Successes, "You gain 25 experience points!")
	assert.Contains(t, h.sink.Successes, "You find: rusty dagger")
	assert.Equal(t, 25, hero.Experience)

	require.Len(t, h.observer.results, 1, "the observer fires exactly once")
	res := h.observer.results[0]
	assert.True(t, res.Victory)
	assert.Equal(t, 25, res.ExperienceGained)
	assert.Equal(t, 1, res.EnemiesDefeated)
	require.Len(t, res.Loot, 1)
	assert.Equal(t, "rusty dagger", res.Loot[0].Name)

	assert.False(t, h.engine.IsActive())
	assert.Empty(t, goblin.CombatID, "combat IDs are cleared on teardown")
}

// TestAttackEnemy_Defeat verifies the character death path ends the
// encounter as a loss with no rewards.
func TestAttackEnemy_Defeat(t *testing.T) {
	// Player misses (1); goblin rolls natural 20: crit for (4+1)*2 = 10,
	// enough to drop a 10 HP hero.
	h := newHarness(t, combat.DefaultOptions(), 1, 20, 4)
	hero := newWarrior()
	hero.CurrentHP = 10
	require.True(t, h.engine.StartCombat(hero, []*character.Enemy{newGoblin()}))

	require.True(t, h.engine.AttackEnemy(""))

	assert.False(t, hero.IsAlive())
	assert.Contains(t, h.sink.Criticals, "Critical hit! The goblin attacks you for 10 damage!")
	assert.Contains(t, h.sink.Criticals, "You have been defeated!")

	require.Len(t, h.observer.results, 1)
	assert.False(t, h.observer.results[0].Victory)
	assert.Zero(t, hero.Experience, "a loss grants no experience")
	assert.False(t, h.engine.IsActive())
}

// TestAttackEnemy_RoundTripScenario replays a full first round against a
// goblin with every roll scripted.
func TestAttackEnemy_RoundTripScenario(t *testing.T) {
	// Hero 20 HP, AC 12, +3 unarmed. Goblin 8 HP, AC 12, +2, 1d4+1.
	// Round 1: natural 20 crits, unarmed face 4 -> (4-2)*2 = 4 damage;
	// goblin natural 10 + 2 = 12 hits, face 2 -> 3 damage.
	h := newHarness(t, combat.DefaultOptions(), 20, 4, 10, 2)
	hero := newWarrior()
	goblin := newGoblin()
	require.True(t, h.engine.StartCombat(hero, []*character.Enemy{goblin}))

	require.True(t, h.engine.AttackEnemy(""))

	assert.Contains(t, h.sink.Criticals, "Critical hit! You attack the goblin for 4 damage!")
	assert.Equal(t, 4, goblin.CurrentHP)
	assert.Contains(t, h.sink.Combats, "The goblin has 4/8 HP remaining (50%).")
	assert.Contains(t, h.sink.Errors, "The goblin attacks you for 3 damage!")
	assert.Equal(t, 17, hero.CurrentHP)

	status := h.engine.CombatStatus()
	assert.True(t, status.Active)
	assert.Equal(t, 2, status.Round, "a completed turn advances the round")
	assert.Equal(t, "17/20", status.PlayerHP)
	require.Len(t, status.Enemies, 1)
	assert.Equal(t, "4/8", status.Enemies[0].HP)
}

// TestEndCombat verifies the explicit teardown path and the inactive no-op.
func TestEndCombat(t *testing.T) {
	h := newHarness(t, combat.DefaultOptions(), 1)

	assert.Equal(t, combat.Result{}, h.engine.EndCombat(false), "ending while inactive is a no-op")
	assert.Empty(t, h.observer.results)

	require.True(t, h.engine.StartCombat(newWarrior(), []*character.Enemy{newGoblin()}))
	res := h.engine.EndCombat(false)
	assert.False(t, res.Victory)
	assert.Equal(t, 1, res.Rounds)
	assert.False(t, h.engine.IsActive())
	require.Len(t, h.observer.results, 1)
}

// TestFleeCombat_DefaultAlwaysFails verifies the stock policy: fleeing is
// refused with a fixed message and combat continues.
func TestFleeCombat_DefaultAlwaysFails(t *testing.T) {
	h := newHarness(t, combat.DefaultOptions(), 20)
	require.True(t, h.engine.StartCombat(newWarrior(), []*character.Enemy{newGoblin()}))

	assert.False(t, h.engine.FleeCombat())
	assert.Contains(t, h.sink.Errors, "You cannot flee from this battle!")
	assert.True(t, h.engine.IsActive(), "a failed flee leaves the encounter active")
}

// TestFleeCombat_DiceCheckWhenEnabled verifies the optional escape check.
func TestFleeCombat_DiceCheckWhenEnabled(t *testing.T) {
	opts := combat.DefaultOptions()
	opts.FleeEnabled = true
	opts.FleeDC = 12

	t.Run("failure below DC", func(t *testing.T) {
		h := newHarness(t, opts, 11)
		require.True(t, h.engine.StartCombat(newWarrior(), []*character.Enemy{newGoblin()}))
		assert.False(t, h.engine.FleeCombat())
		assert.Contains(t, h.sink.Errors, "You fail to escape!")
		assert.True(t, h.engine.IsActive())
	})

	t.Run("success at DC", func(t *testing.T) {
		h := newHarness(t, opts, 12)
		require.True(t, h.engine.StartCombat(newWarrior(), []*character.Enemy{newGoblin()}))
		assert.True(t, h.engine.FleeCombat())
		assert.Contains(t, h.sink.Successes, "You flee from combat!")
		assert.False(t, h.engine.IsActive())
		require.Len(t, h.observer.results, 1)
		assert.False(t, h.observer.results[0].Victory, "fleeing is not a victory")
	})
}

// TestToggleAutoCombat verifies the recurring attack chain fires through the
// scheduler and dies with the encounter.
func TestToggleAutoCombat(t *testing.T) {
	// All faces 1: every attack on both sides misses, so combat persists.
	h := newHarness(t, combat.DefaultOptions(), 1)
	ogre := character.NewEnemy(&character.EnemyTemplate{
		ID: "ogre", Name: "ogre", MaxHP: 30, ArmorClass: 25, AttackBonus: 0, DamageDice: "1d8",
	})
	hero := newWarrior()
	hero.ArmorClass = 25
	require.True(t, h.engine.StartCombat(hero, []*character.Enemy{ogre}))

	assert.True(t, h.engine.ToggleAutoCombat())
	assert.Contains(t, h.sink.Infos, "Auto-combat enabled - attacking automatically.")

	require.Equal(t, 1, h.engine.CombatStatus().Round)

	h.clock.Advance(2.0)
	h.sched.ProcessReadyActions()
	assert.Equal(t, 2, h.engine.CombatStatus().Round, "an auto-attack resolves a full round")

	h.clock.Advance(2.0)
	h.sched.ProcessReadyActions()
	assert.Equal(t, 3, h.engine.CombatStatus().Round)

	assert.False(t, h.engine.ToggleAutoCombat(), "toggling again disables")
	h.clock.Advance(10)
	h.sched.ProcessReadyActions()
	assert.Equal(t, 3, h.engine.CombatStatus().Round, "disabled auto-combat must not fire")
}

// TestAutoCombat_CancelledByCombatEnd verifies ending the encounter cancels
// the pending auto-attack chain.
func TestAutoCombat_CancelledByCombatEnd(t *testing.T) {
	h := newHarness(t, combat.DefaultOptions(), 1)
	require.True(t, h.engine.StartCombat(newWarrior(), []*character.Enemy{newGoblin()}))
	h.engine.ToggleAutoCombat()
	require.NotZero(t, h.sched.QueueSize())

	h.engine.EndCombat(false)
	assert.Zero(t, h.sched.QueueSize(), "teardown must cancel the auto-attack chain")

	h.clock.Advance(10)
	assert.Empty(t, h.sched.ProcessReadyActions())
}

// TestAutoCombat_KillLeavesNoStaleTimer verifies that an auto-attack which
// itself wins the encounter queues no successor: teardown leaves the queue
// empty, and a following encounter advances exactly one round per interval.
func TestAutoCombat_KillLeavesNoStaleTimer(t *testing.T) {
	// Auto-attack: 10+3 = 13 vs AC 10 hits; min-1 damage kills the 1 HP rat.
	// Every later face repeats 3, so both sides miss against AC 25.
	h := newHarness(t, combat.DefaultOptions(), 10, 3)
	hero := newWarrior()
	hero.ArmorClass = 25
	rat := character.NewEnemy(&character.EnemyTemplate{
		ID: "rat", Name: "rat", MaxHP: 1, ArmorClass: 10, DamageDice: "1d2", ExperienceValue: 5,
	})
	require.True(t, h.engine.StartCombat(hero, []*character.Enemy{rat}))
	require.True(t, h.engine.ToggleAutoCombat())

	h.clock.Advance(2.0)
	h.sched.ProcessReadyActions()
	require.False(t, h.engine.IsActive(), "the auto-attack wins the encounter")
	assert.Zero(t, h.sched.QueueSize(), "no auto-attack may survive teardown")

	ogre := character.NewEnemy(&character.EnemyTemplate{
		ID: "ogre", Name: "ogre", MaxHP: 30, ArmorClass: 25, DamageDice: "1d8",
	})
	require.True(t, h.engine.StartCombat(hero, []*character.Enemy{ogre}))
	require.True(t, h.engine.ToggleAutoCombat())

	h.clock.Advance(2.0)
	h.sched.ProcessReadyActions()
	assert.Equal(t, 2, h.engine.CombatStatus().Round, "one interval resolves exactly one round")
}

// TestScheduleRespawn verifies the respawn hook fires through the scheduler.
func TestScheduleRespawn(t *testing.T) {
	h := newHarness(t, combat.DefaultOptions(), 1)

	spawned := false
	h.engine.ScheduleRespawn("goblin_spawner", 30.0, func() { spawned = true })

	h.clock.Advance(29)
	h.sched.ProcessReadyActions()
	assert.False(t, spawned)

	h.clock.Advance(2)
	h.sched.ProcessReadyActions()
	assert.True(t, spawned)
}

// TestCombatStatus_Inactive verifies the empty snapshot.
func TestCombatStatus_Inactive(t *testing.T) {
	h := newHarness(t, combat.DefaultOptions(), 1)
	status := h.engine.CombatStatus()
	assert.False(t, status.Active)
	assert.Equal(t, "inactive", status.State)
	assert.Empty(t, status.Enemies)
}

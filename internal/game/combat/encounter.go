package combat

import "github.com/mk-git-0/roguecity/internal/game/character"

// State is the encounter lifecycle state.
type State int

const (
	// StateInactive means no encounter exists.
	StateInactive State = iota
	// StateActive means an encounter is in progress. Player and enemy turn
	// phases are transient within a single synchronous call, never persisted.
	StateActive
	// StateVictory is the terminal state when every enemy is defeated.
	StateVictory
	// StateDefeat is the terminal state when the character falls.
	StateDefeat
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActive:
		return "active"
	case StateVictory:
		return "victory"
	case StateDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Modifiers holds the transient combat-scoped stance flags for one actor.
// They are owned by the encounter, keyed by actor ID, and cleared when the
// encounter ends, never written onto the character model.
type Modifiers struct {
	DefensiveStance bool
	Blocking        bool
	Parrying        bool
	DualWielding    bool
	// Charging marks the next attack as a charge; consumed by that attack.
	Charging bool
}

// Result summarises a completed encounter.
type Result struct {
	Victory          bool
	Rounds           int
	ExperienceGained int
	Loot             []character.LootDrop
	EnemiesDefeated  int
}

// EncounterObserver is notified when an encounter ends, letting the
// surrounding game state machine transition out of combat mode.
//
// EncounterEnded is invoked after the engine has fully torn down the
// encounter and released its lock; implementations may call back into the
// engine.
type EncounterObserver interface {
	EncounterEnded(Result)
}

// EnemyStatus is one enemy's line in a status snapshot.
type EnemyStatus struct {
	Name  string
	HP    string
	Alive bool
}

// Status is a point-in-time snapshot of the encounter.
type Status struct {
	Active        bool
	State         string
	Round         int
	AutoCombat    bool
	PlayerHP      string
	Enemies       []EnemyStatus
	LivingEnemies int
}

// Package config provides Viper-based configuration loading for the game engine.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mk-git-0/roguecity/internal/game/dice"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SchedulerConfig holds action scheduler settings.
type SchedulerConfig struct {
	// TickInterval is how often the game loop pumps ProcessReadyActions.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// ReadyTolerance is the slack, in seconds, within which an actor's next
	// action counts as ready. Absorbs floating-point and measurement jitter.
	ReadyTolerance float64 `mapstructure:"ready_tolerance"`
}

// CombatConfig holds combat engine tuning.
type CombatConfig struct {
	// AutoCombatInterval is the delay, in seconds, between automatic attacks
	// while auto-combat is enabled.
	AutoCombatInterval float64 `mapstructure:"auto_combat_interval"`
	// UnarmedDice is the damage dice rolled when no weapon is equipped.
	UnarmedDice string `mapstructure:"unarmed_dice"`
	// UnarmedPenalty is the flat damage penalty applied to unarmed attacks.
	UnarmedPenalty int `mapstructure:"unarmed_penalty"`
	// FleeEnabled switches FleeCombat from the fixed always-fail policy to a
	// dice-based escape check.
	FleeEnabled bool `mapstructure:"flee_enabled"`
	// FleeDC is the d20 threshold a flee attempt must meet when FleeEnabled.
	FleeDC int `mapstructure:"flee_dc"`
	// TurnUndeadDC is the saving-throw DC for turn-undead spell effects when
	// the spell itself does not specify one.
	TurnUndeadDC int `mapstructure:"turn_undead_dc"`
	// RespawnDelay is the scheduler delay applied to enemy respawn entries.
	RespawnDelay time.Duration `mapstructure:"respawn_delay"`
}

// ContentConfig holds paths to data definition directories.
type ContentConfig struct {
	// WeaponsDir is the directory of weapon YAML definitions.
	WeaponsDir string `mapstructure:"weapons_dir"`
	// EnemiesDir is the directory of enemy YAML templates.
	EnemiesDir string `mapstructure:"enemies_dir"`
	// SpellsDir is the directory of Lua spell scripts; empty = built-in book only.
	SpellsDir string `mapstructure:"spells_dir"`
	// ScriptInstructionLimit caps Lua opcodes per spell script load.
	// 0 uses the scripting package default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Combat    CombatConfig    `mapstructure:"combat"`
	Content   ContentConfig   `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScheduler(c.Scheduler); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateScheduler(s SchedulerConfig) error {
	var errs []string
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("scheduler.tick_interval must be > 0, got %s", s.TickInterval))
	}
	if s.ReadyTolerance < 0 {
		errs = append(errs, fmt.Sprintf("scheduler.ready_tolerance must be >= 0, got %g", s.ReadyTolerance))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.AutoCombatInterval <= 0 {
		errs = append(errs, fmt.Sprintf("combat.auto_combat_interval must be > 0, got %g", c.AutoCombatInterval))
	}
	if c.UnarmedDice == "" {
		errs = append(errs, "combat.unarmed_dice must not be empty")
	} else if _, err := dice.Parse(c.UnarmedDice); err != nil {
		errs = append(errs, fmt.Sprintf("combat.unarmed_dice: %v", err))
	}
	if c.UnarmedPenalty > 0 {
		errs = append(errs, fmt.Sprintf("combat.unarmed_penalty must be <= 0, got %d", c.UnarmedPenalty))
	}
	if c.FleeEnabled && (c.FleeDC < 1 || c.FleeDC > 20) {
		errs = append(errs, fmt.Sprintf("combat.flee_dc must be 1-20 when flee is enabled, got %d", c.FleeDC))
	}
	if c.TurnUndeadDC < 1 || c.TurnUndeadDC > 20 {
		errs = append(errs, fmt.Sprintf("combat.turn_undead_dc must be 1-20, got %d", c.TurnUndeadDC))
	}
	if c.RespawnDelay < 0 {
		errs = append(errs, "combat.respawn_delay must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ROGUE_ prefix
	v.SetEnvPrefix("ROGUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the built-in configuration used when no config file is given.
//
// Postcondition: Default().Validate() == nil.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshalling defaults cannot fail: every key is set in setDefaults.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("scheduler.tick_interval", "100ms")
	v.SetDefault("scheduler.ready_tolerance", 0.01)

	v.SetDefault("combat.auto_combat_interval", 2.0)
	v.SetDefault("combat.unarmed_dice", "1d4")
	v.SetDefault("combat.unarmed_penalty", -2)
	v.SetDefault("combat.flee_enabled", false)
	v.SetDefault("combat.flee_dc", 12)
	v.SetDefault("combat.turn_undead_dc", 13)
	v.SetDefault("combat.respawn_delay", "30s")

	v.SetDefault("content.weapons_dir", "content/weapons")
	v.SetDefault("content.enemies_dir", "content/enemies")
	v.SetDefault("content.spells_dir", "content/spells")
	v.SetDefault("content.script_instruction_limit", 0)
}

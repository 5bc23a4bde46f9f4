// Package main provides the game server binary: it loads configuration and
// content, wires the dice roller, action scheduler, spell book, and combat
// engine together, and pumps the scheduler until shut down.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mk-git-0/roguecity/internal/config"
	"github.com/mk-git-0/roguecity/internal/game/character"
	"github.com/mk-git-0/roguecity/internal/game/combat"
	"github.com/mk-git-0/roguecity/internal/game/dice"
	"github.com/mk-git-0/roguecity/internal/game/scheduler"
	"github.com/mk-git-0/roguecity/internal/game/spell"
	"github.com/mk-git-0/roguecity/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	weaponsDir := flag.String("weapons-dir", "", "path to weapon YAML definitions directory; overrides config")
	enemiesDir := flag.String("enemies-dir", "", "path to enemy YAML templates directory; overrides config")
	spellsDir := flag.String("spells-dir", "", "path to Lua spell scripts directory; overrides config")
	demo := flag.Bool("demo", false, "run a scripted demo encounter after startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *weaponsDir != "" {
		cfg.Content.WeaponsDir = *weaponsDir
	}
	if *enemiesDir != "" {
		cfg.Content.EnemiesDir = *enemiesDir
	}
	if *spellsDir != "" {
		cfg.Content.SpellsDir = *spellsDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	roller := dice.NewRoller(dice.NewCryptoSource(), logger)

	loadStart := time.Now()
	weapons, err := character.LoadWeapons(cfg.Content.WeaponsDir)
	if err != nil {
		logger.Fatal("loading weapons", zap.Error(err))
	}
	enemies, err := character.LoadEnemyTemplates(cfg.Content.EnemiesDir)
	if err != nil {
		logger.Fatal("loading enemy templates", zap.Error(err))
	}
	book := spell.NewBook()
	if cfg.Content.SpellsDir != "" {
		if err := book.LoadDir(cfg.Content.SpellsDir, cfg.Content.ScriptInstructionLimit, logger); err != nil {
			logger.Fatal("loading spell scripts", zap.Error(err))
		}
	}
	logger.Info("content loaded",
		zap.Int("weapons", len(weapons)),
		zap.Int("enemy_templates", len(enemies)),
		zap.Int("spells", book.Len()),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	sched := scheduler.New(logger, scheduler.WithReadyTolerance(cfg.Scheduler.ReadyTolerance))
	engine := combat.NewEngine(sched, roller, book, combat.NewZapSink(logger), nil, combat.Options{
		UnarmedDice:        cfg.Combat.UnarmedDice,
		UnarmedPenalty:     cfg.Combat.UnarmedPenalty,
		AutoCombatInterval: cfg.Combat.AutoCombatInterval,
		FleeEnabled:        cfg.Combat.FleeEnabled,
		FleeDC:             cfg.Combat.FleeDC,
		TurnUndeadDC:       cfg.Combat.TurnUndeadDC,
	}, logger)

	logger.Info("game server started",
		zap.Duration("startup", time.Since(start)),
		zap.Duration("tick_interval", cfg.Scheduler.TickInterval),
	)

	if *demo {
		runDemo(engine, weapons, enemies, logger)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Scheduler.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sched.ProcessReadyActions()
		case sig := <-sigc:
			logger.Info("shutting down", zap.String("signal", sig.String()))
			if engine.IsActive() {
				engine.EndCombat(false)
			}
			sched.ClearAllActions()
			return
		}
	}
}

// runDemo spins up a sample character against two enemy templates and lets
// auto-combat resolve the fight through the scheduler pump.
func runDemo(engine *combat.Engine, weapons map[string]*character.Weapon, templates map[string]*character.EnemyTemplate, logger *zap.Logger) {
	hero := &character.Character{
		Name:            "Aldric",
		Class:           character.ClassWarrior,
		Level:           3,
		MaxHP:           28,
		CurrentHP:       28,
		ArmorClass:      15,
		BaseAttackBonus: 4,
		Abilities:       character.AbilityScores{Strength: 16, Dexterity: 12, Constitution: 14, Intelligence: 10, Wisdom: 10, Charisma: 10},
	}
	if sword, ok := weapons["short_sword"]; ok {
		hero.Equipment.EquipMainHand(sword)
	}

	var foes []*character.Enemy
	for _, id := range []string{"goblin", "skeleton"} {
		if tmpl, ok := templates[id]; ok {
			foes = append(foes, character.NewEnemy(tmpl))
		}
	}
	if len(foes) == 0 {
		logger.Warn("demo skipped: no goblin or skeleton template found")
		return
	}

	if !engine.StartCombat(hero, foes) {
		logger.Warn("demo skipped: combat failed to start")
		return
	}
	engine.ToggleAutoCombat()
}

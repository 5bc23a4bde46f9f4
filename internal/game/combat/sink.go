// Package combat implements the turn-resolution state machine for encounters:
// attack rolls, damage, critical hits, multi-attack sequences, spell effects,
// stance modifiers, and encounter termination.
package combat

import "go.uber.org/zap"

// Sink receives human-readable combat narration, partitioned by intent.
// Calls are one-way and fire-and-forget; the engine never reads anything
// back from its sink.
type Sink interface {
	// Info reports neutral system messages (toggles, buffs).
	Info(msg string)
	// Success reports favourable outcomes (experience, loot, healing).
	Success(msg string)
	// Error reports recoverable user errors and damage taken.
	Error(msg string)
	// Combat reports encounter banners and attack narration.
	Combat(msg string)
	// Critical reports emphasised events: crits, kills, deaths.
	Critical(msg string)
}

// ZapSink narrates combat through a structured logger, tagging each line
// with its channel.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a Sink backed by logger.
//
// Precondition: logger must be non-nil.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

func (s *ZapSink) Info(msg string)    { s.logger.Info(msg, zap.String("channel", "info")) }
func (s *ZapSink) Success(msg string) { s.logger.Info(msg, zap.String("channel", "success")) }
func (s *ZapSink) Error(msg string)   { s.logger.Info(msg, zap.String("channel", "error")) }
func (s *ZapSink) Combat(msg string)  { s.logger.Info(msg, zap.String("channel", "combat")) }
func (s *ZapSink) Critical(msg string) {
	s.logger.Info(msg, zap.String("channel", "critical"))
}

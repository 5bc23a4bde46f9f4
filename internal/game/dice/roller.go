package dice

import (
	"fmt"

	"go.uber.org/zap"
)

// Roller wraps a Source and logger so every roll leaves an audit trail.
// All rolls are logged at debug level with notation, dice values, modifier,
// and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source { return r.src }

// Roll parses and evaluates notation, returning the total.
func (r *Roller) Roll(notation string) (int, error) {
	return r.RollWithContext(notation, "", "")
}

// RollWithContext rolls notation and tags the audit log entry with the actor
// and purpose labels. Empty labels are omitted from the log entry.
func (r *Roller) RollWithContext(notation, actor, purpose string) (int, error) {
	expr, err := Parse(notation)
	if err != nil {
		return 0, err
	}
	result := Roll(expr, r.src)

	fields := []zap.Field{
		zap.String("notation", result.Notation),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	}
	if actor != "" {
		fields = append(fields, zap.String("actor", actor))
	}
	if purpose != "" {
		fields = append(fields, zap.String("purpose", purpose))
	}
	r.logger.Debug("dice roll", fields...)

	return result.Total(), nil
}

// AttackRoll rolls an attack using notation and checks the natural die
// against criticalThreshold. Attack rolls must use exactly one die, so the
// natural result is unambiguous.
//
// Postcondition: crit is true iff the natural die >= criticalThreshold.
func (r *Roller) AttackRoll(notation string, criticalThreshold int) (total, natural int, crit bool, err error) {
	expr, err := Parse(notation)
	if err != nil {
		return 0, 0, false, err
	}
	if expr.Count != 1 {
		return 0, 0, false, fmt.Errorf("dice: attack rolls require a single die, got %q", notation)
	}

	result := Roll(expr, r.src)
	natural = result.Dice[0]
	total = result.Total()
	crit = natural >= criticalThreshold

	r.logger.Debug("attack roll",
		zap.String("notation", result.Notation),
		zap.Int("natural", natural),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", total),
		zap.Int("critical_threshold", criticalThreshold),
		zap.Bool("critical", crit),
	)

	return total, natural, crit, nil
}

// AdvantageRoll rolls notation twice and keeps the higher total.
func (r *Roller) AdvantageRoll(notation string) (int, error) {
	first, err := r.Roll(notation)
	if err != nil {
		return 0, err
	}
	second, err := r.Roll(notation)
	if err != nil {
		return 0, err
	}
	if second > first {
		return second, nil
	}
	return first, nil
}

// DisadvantageRoll rolls notation twice and keeps the lower total.
func (r *Roller) DisadvantageRoll(notation string) (int, error) {
	first, err := r.Roll(notation)
	if err != nil {
		return 0, err
	}
	second, err := r.Roll(notation)
	if err != nil {
		return 0, err
	}
	if second < first {
		return second, nil
	}
	return first, nil
}

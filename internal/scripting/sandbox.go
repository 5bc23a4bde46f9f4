// Package scripting constructs sandboxed GopherLua states for content
// scripts. It knows nothing about game domain types; callers register their
// own modules on the returned state.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// script execution when the caller does not configure an override.
const DefaultInstructionLimit = 100_000

// opcodeBudget is a context.Context that cancels itself after Done() has been
// called limit times. GopherLua's main loop calls Done() once per opcode,
// which turns this into an exact instruction-count limit.
type opcodeBudget struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done returns the cancellation channel, decrementing the remaining budget.
// When the budget reaches zero the context cancels, terminating the VM on
// the next opcode boundary.
func (b *opcodeBudget) Done() <-chan struct{} {
	if b.remaining.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

func newOpcodeBudget(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &opcodeBudget{Context: base, cancel: cancel, remaining: rem}, cancel
}

// NewState creates a GopherLua LState with only the safe standard libraries
// loaded (base, table, string, math), the dangerous base globals removed
// (dofile, loadfile, load, collectgarbage, require), and execution capped at
// instLimit opcodes. instLimit <= 0 uses DefaultInstructionLimit.
//
// The caller owns the state and must call both the returned cancel func and
// L.Close when done.
func NewState(instLimit int) (*lua.LState, context.CancelFunc) {
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	ctx, cancel := newOpcodeBudget(limit)
	L.SetContext(ctx)

	return L, cancel
}

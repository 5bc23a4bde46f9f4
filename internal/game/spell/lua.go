package spell

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/mk-git-0/roguecity/internal/scripting"
)

// LoadDir executes every *.lua file in dir inside a fresh sandboxed VM and
// registers the spells they define. Scripts run in lexicographic order and
// call the injected module:
//
//	spell.register{
//	  key = "frost_lance", name = "Frost Lance", mana_cost = 6,
//	  school = "evocation", message = "A spear of ice forms.",
//	  effect = { type = "damage", notation = "2d8+2" },
//	}
//
// Effect tables accept type "damage" (notation), "healing" (notation or
// full=true), "buff" (stat, amount, rounds), and "turn_undead" (dc).
// A script registering an invalid or duplicate spell fails the whole load.
//
// Precondition: dir must be a readable directory; instLimit <= 0 uses the
// scripting package default.
func (b *Book) LoadDir(dir string, instLimit int, logger *zap.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("spell: reading script dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	for _, path := range files {
		if err := b.loadScript(path, instLimit); err != nil {
			return err
		}
		logger.Debug("loaded spell script", zap.String("path", path))
	}
	return nil
}

func (b *Book) loadScript(path string, instLimit int) error {
	L, cancel := scripting.NewState(instLimit)
	defer cancel()
	defer L.Close()

	var regErr error
	mod := L.NewTable()
	L.SetField(mod, "register", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		s, err := spellFromTable(tbl)
		if err == nil {
			err = b.add(s)
		}
		if err != nil && regErr == nil {
			regErr = err
		}
		return 0
	}))
	L.SetGlobal("spell", mod)

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("spell: executing %q: %w", path, err)
	}
	if regErr != nil {
		return fmt.Errorf("spell: %q: %w", path, regErr)
	}
	return nil
}

func spellFromTable(tbl *lua.LTable) (*Spell, error) {
	s := &Spell{
		Key:      strField(tbl, "key"),
		Name:     strField(tbl, "name"),
		ManaCost: intField(tbl, "mana_cost"),
		School:   strField(tbl, "school"),
		Message:  strField(tbl, "message"),
	}
	s.Key = Key(s.Key)

	effTbl, ok := tbl.RawGetString("effect").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("spell %q: effect table missing", s.Key)
	}

	switch effType := strField(effTbl, "type"); effType {
	case "damage":
		s.Effect = Damage{Notation: strField(effTbl, "notation")}
	case "healing":
		s.Effect = Healing{
			Notation: strField(effTbl, "notation"),
			Full:     boolField(effTbl, "full"),
		}
	case "buff":
		s.Effect = Buff{
			Stat:   strField(effTbl, "stat"),
			Amount: intField(effTbl, "amount"),
			Rounds: intField(effTbl, "rounds"),
		}
	case "turn_undead":
		s.Effect = TurnUndead{DC: intField(effTbl, "dc")}
	default:
		return nil, fmt.Errorf("spell %q: unknown effect type %q", s.Key, effType)
	}

	return s, nil
}

func strField(tbl *lua.LTable, key string) string {
	if v, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(v)
	}
	return ""
}

func intField(tbl *lua.LTable, key string) int {
	if v, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(v)
	}
	return 0
}

func boolField(tbl *lua.LTable, key string) bool {
	if v, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(v)
	}
	return false
}

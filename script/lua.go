package script

import (
	"encoding/binary"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/user-none/emdispatch/bank"
	"github.com/user-none/emdispatch/chip"
	"github.com/user-none/emdispatch/macro"
)

// LoadString runs a Lua score and appends what it plays to the timeline.
// Instances are created while the score runs; everything else is recorded.
func (s *Session) LoadString(src string) error {
	return s.load(func(L *lua.LState) error { return L.DoString(src) })
}

// LoadFile runs the Lua score at path.
func (s *Session) LoadFile(path string) error {
	return s.load(func(L *lua.LState) error { return L.DoFile(path) })
}

func (s *Session) load(run func(*lua.LState) error) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return fmt.Errorf("script: open %s: %w", lib.name, err)
		}
	}

	s.register(L)
	if err := run(L); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func (s *Session) register(L *lua.LState) {
	for name, c := range chip.Commands() {
		L.SetGlobal("CMD_"+name, lua.LNumber(c))
	}
	for name, p := range chip.Platforms() {
		L.SetGlobal("PLATFORM_"+strings.ToUpper(name), lua.LNumber(p))
	}
	L.SetGlobal("NOTE_NULL", lua.LNumber(chip.NoteNull))
	L.SetGlobal("NOTE_C4", lua.LNumber(chip.NoteC4))

	for name, fn := range map[string]lua.LGFunction{
		"create":    s.luaCreate,
		"destroy":   s.luaDestroy,
		"cmd":       s.luaCmd,
		"note_on":   s.luaNoteOn,
		"note_off":  s.luaNoteOff,
		"tick":      s.luaTick,
		"rest":      s.luaRest,
		"macro":     s.luaMacro,
		"wave":      s.luaWave,
		"mute":      s.luaMute,
		"poke":      s.luaPoke,
		"tick_rate": s.luaTickRate,
		"tuning":    s.luaTuning,
		"compat":    s.luaCompat,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

// create(platform [, rate]) -> handle. platform is a PLATFORM_* constant
// or a platform name; 0 is returned when no instance could be made.
func (s *Session) luaCreate(L *lua.LState) int {
	var p chip.Platform
	switch v := L.Get(1).(type) {
	case lua.LString:
		var ok bool
		if p, ok = chip.PlatformByName(strings.ToLower(string(v))); !ok {
			L.ArgError(1, "unknown platform "+string(v))
			return 0
		}
	case lua.LNumber:
		p = chip.Platform(v)
	default:
		L.TypeError(1, lua.LTNumber)
		return 0
	}
	rate := L.OptInt(2, s.rate)
	L.Push(lua.LNumber(s.reg.Create(p, rate)))
	return 1
}

// destroy(h)
func (s *Session) luaDestroy(L *lua.LState) int {
	h := L.CheckInt(1)
	s.at(func() { s.reg.Destroy(h) })
	return 0
}

// cmd(h, command, ch [, v1 [, v2]])
func (s *Session) luaCmd(L *lua.LState) int {
	h := L.CheckInt(1)
	c := chip.Command(L.CheckInt(2))
	ch := L.CheckInt(3)
	v1 := L.OptInt(4, 0)
	v2 := L.OptInt(5, 0)
	s.at(func() { s.reg.Dispatch(h, c, ch, v1, v2) })
	return 0
}

// note_on(h, ch, note [, ins])
func (s *Session) luaNoteOn(L *lua.LState) int {
	h := L.CheckInt(1)
	ch := L.CheckInt(2)
	note := L.CheckInt(3)
	ins := L.OptInt(4, -1)
	s.at(func() {
		if ins >= 0 {
			s.reg.Dispatch(h, chip.CmdInstrument, ch, ins, 0)
		}
		s.reg.Dispatch(h, chip.CmdNoteOn, ch, note, 0)
	})
	return 0
}

// note_off(h, ch [, release]). With release the note goes through the
// envelope release instead of being cut.
func (s *Session) luaNoteOff(L *lua.LState) int {
	h := L.CheckInt(1)
	ch := L.CheckInt(2)
	c := chip.CmdNoteOff
	if L.OptBool(3, false) {
		c = chip.CmdNoteOffEnv
	}
	s.at(func() { s.reg.Dispatch(h, c, ch, 0, 0) })
	return 0
}

// tick(h) runs one extra engine tick on h without advancing time.
func (s *Session) luaTick(L *lua.LState) int {
	h := L.CheckInt(1)
	s.at(func() { s.reg.Tick(h) })
	return 0
}

// rest([ticks]) advances time, one tick by default.
func (s *Session) luaRest(L *lua.LState) int {
	n := L.OptInt(1, 1)
	if n < 0 {
		L.ArgError(1, "negative rest")
		return 0
	}
	s.rest(n)
	return 0
}

// macro{ins=, kind=, mode=, open=, delay=, speed=, loop=, rel=, values={...}}
// uploads a macro. kind is a number or a name such as "vol" or "op1.tl";
// mode is a number or "sequence", "adsr", "lfo".
func (s *Session) luaMacro(L *lua.LState) int {
	t := L.CheckTable(1)

	var def macro.Definition
	switch v := t.RawGetString("kind").(type) {
	case lua.LString:
		k, ok := macro.KindByName(string(v))
		if !ok {
			L.ArgError(1, "unknown macro kind "+string(v))
			return 0
		}
		def.Kind = k
	case lua.LNumber:
		def.Kind = macro.Kind(v)
	default:
		L.ArgError(1, "macro needs a kind")
		return 0
	}
	if !def.Kind.Valid() {
		L.ArgError(1, fmt.Sprintf("unknown macro kind %d", def.Kind))
		return 0
	}

	switch v := t.RawGetString("mode").(type) {
	case lua.LString:
		m, ok := modeByName(string(v))
		if !ok {
			L.ArgError(1, "unknown macro mode "+string(v))
			return 0
		}
		def.Mode = m
	case lua.LNumber:
		def.Mode = macro.Mode(v)
	}

	def.Open = uint8(intField(t, "open", 0))
	def.Delay = intField(t, "delay", 0)
	def.Speed = intField(t, "speed", 1)
	// Lua indices are 1-based; 0 means no loop or release point.
	def.Loop = intField(t, "loop", 0) - 1
	def.Rel = intField(t, "rel", 0) - 1

	vals := values(L, t)
	if len(vals) >= macro.MaxLength {
		L.ArgError(1, fmt.Sprintf("macro has %d values, limit %d", len(vals), macro.MaxLength-1))
		return 0
	}
	def.Len = len(vals)
	copy(def.Values[:], vals)

	blob, err := def.MarshalBinary()
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	ins := intField(t, "ins", 0)
	s.at(func() {
		if err := s.reg.SetMacro(ins, blob); err != nil {
			s.logger.Printf("Warning: %v", err)
		}
	})
	return 0
}

// wave{index=, max=, values={...}} uploads a wavetable.
func (s *Session) luaWave(L *lua.LState) int {
	t := L.CheckTable(1)
	vals := values(L, t)
	if len(vals) == 0 || len(vals) > bank.MaxWaveLen {
		L.ArgError(1, fmt.Sprintf("wavetable needs 1 to %d values", bank.MaxWaveLen))
		return 0
	}
	hi := intField(t, "max", 15)

	blob := make([]byte, 0, 8+len(vals)*4)
	blob = binary.LittleEndian.AppendUint32(blob, uint32(len(vals)))
	blob = binary.LittleEndian.AppendUint32(blob, uint32(int32(hi)))
	for _, v := range vals {
		blob = binary.LittleEndian.AppendUint32(blob, uint32(v))
	}
	i := intField(t, "index", 0)
	s.at(func() {
		if err := s.reg.SetWavetable(i, blob); err != nil {
			s.logger.Printf("Warning: %v", err)
		}
	})
	return 0
}

// mute(h, ch [, on])
func (s *Session) luaMute(L *lua.LState) int {
	h := L.CheckInt(1)
	ch := L.CheckInt(2)
	on := L.OptBool(3, true)
	s.at(func() { s.reg.Mute(h, ch, on) })
	return 0
}

// poke(h, addr, val)
func (s *Session) luaPoke(L *lua.LState) int {
	h := L.CheckInt(1)
	addr := L.CheckInt(2)
	val := L.CheckInt(3)
	s.at(func() { s.reg.Poke(h, addr, val) })
	return 0
}

// tick_rate(h, hz) sets the engine tick rate of h. The score is paced by
// the most recent tick rate.
func (s *Session) luaTickRate(L *lua.LState) int {
	h := L.CheckInt(1)
	hz := float64(L.CheckNumber(2))
	if hz <= 0 {
		L.ArgError(2, "tick rate must be positive")
		return 0
	}
	s.at(func() { s.reg.SetTickRate(h, hz) })
	s.recordTickRate(hz)
	return 0
}

// tuning(h, a4)
func (s *Session) luaTuning(L *lua.LState) int {
	h := L.CheckInt(1)
	a4 := float64(L.CheckNumber(2))
	s.at(func() { s.reg.SetTuning(h, a4) })
	return 0
}

// compat(h, flag, val). flag is an index or a flag name such as
// "linearPitch".
func (s *Session) luaCompat(L *lua.LState) int {
	h := L.CheckInt(1)
	var idx int
	switch v := L.Get(2).(type) {
	case lua.LString:
		f, ok := chip.CompatFlagByName(string(v))
		if !ok {
			L.ArgError(2, "unknown compat flag "+string(v))
			return 0
		}
		idx = int(f)
	case lua.LNumber:
		idx = int(v)
	default:
		L.TypeError(2, lua.LTString)
		return 0
	}
	val := compatValue(L, 3)
	s.at(func() { s.reg.SetCompatFlag(h, idx, val) })
	return 0
}

func compatValue(L *lua.LState, n int) int {
	switch v := L.Get(n).(type) {
	case lua.LBool:
		if v {
			return 1
		}
		return 0
	case lua.LNumber:
		return int(v)
	}
	L.TypeError(n, lua.LTNumber)
	return 0
}

func intField(t *lua.LTable, key string, def int) int {
	if v, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(v)
	}
	return def
}

// values reads the values array of t.
func values(L *lua.LState, t *lua.LTable) []int32 {
	vt, ok := t.RawGetString("values").(*lua.LTable)
	if !ok {
		return nil
	}
	out := make([]int32, 0, vt.Len())
	for i := 1; i <= vt.Len(); i++ {
		v, ok := vt.RawGetInt(i).(lua.LNumber)
		if !ok {
			L.ArgError(1, fmt.Sprintf("values[%d] is not a number", i))
			return nil
		}
		out = append(out, int32(v))
	}
	return out
}

func modeByName(name string) (macro.Mode, bool) {
	for _, m := range []macro.Mode{macro.ModeSequence, macro.ModeADSR, macro.ModeLFO} {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}

package engine

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// State is the VM's process-wide last-error slot (ctx.rs's State,
// `error: Arc<Mutex<Option<Error>>>`), shared between every host function
// registered on one Script.
type State struct {
	mu  sync.Mutex
	err error
}

func NewState() *State { return &State{} }

// LastErr returns the message set by the most recent failing host call,
// or nil if none, or it was cleared.
func (s *State) LastErr() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		return nil
	}
	msg := s.err.Error()
	return &msg
}

// SetErr records err as the last error and returns it unchanged, so host
// functions can write `return nil, s.SetErr(err)` at a call site.
func (s *State) SetErr(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return err
}

// ClearErr implements the script-callable `clear_err()`.
func (s *State) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// BlobTable holds strong references to blobs a module has created or been
// handed during its run — the host only ever gives the script an id back,
// never the bytes (SPEC_FULL.md §4.4's "blob table").
type BlobTable struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewBlobTable() *BlobTable {
	return &BlobTable{blobs: make(map[string][]byte)}
}

func (b *BlobTable) Put(id string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[id] = data
}

func (b *BlobTable) Get(id string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[id]
	return data, ok
}

// HostFunc is a single Lua-callable host function, taking already-decoded
// argument Values and returning either a result Value or an error — errors
// are translated by Script.Register into the nil/false-plus-last_err()
// convention SPEC_FULL.md §4.4 specifies, rather than a raised Lua error,
// so scripts keep running after a failed host call.
type HostFunc func(args []Value) (Value, error)

// Script is one loaded module's VM instance: a gopher-lua state plus the
// shared error slot and blob table every registered host function closes
// over (ctx.rs's `ctx()` + Script, merged into one Go type since Go has no
// separate "open a fresh interpreter" step worth splitting out).
type Script struct {
	L     *lua.LState
	State *State
	Blobs *BlobTable
	Meta  Metadata
}

// Load parses code's metadata header and constructs a fresh interpreter
// with no host functions registered yet — callers call Register for each
// host capability they want to expose, mirroring ctx.rs's commented-out
// `runtime::*(&mut lua, state.clone())` call list.
func Load(code string) (*Script, error) {
	meta, err := ParseMetadata(code)
	if err != nil {
		return nil, fmt.Errorf("failed to parse module metadata: %w", err)
	}

	s := &Script{
		L:     lua.NewState(lua.Options{SkipOpenLibs: false}),
		State: NewState(),
		Blobs: NewBlobTable(),
		Meta:  meta,
	}
	return s, nil
}

func (s *Script) Close() {
	s.L.Close()
}

// Register exposes a host function under name. On error, the script sees
// `nil` and must call `last_err()` to retrieve the message — the
// determinism boundary SPEC_FULL.md §4.4 specifies ("host functions that
// can fail set this slot and return a sentinel value").
func (s *Script) Register(name string, fn HostFunc) {
	s.L.SetGlobal(name, s.L.NewFunction(func(L *lua.LState) int {
		argc := L.GetTop()
		args := make([]Value, argc)
		for i := 1; i <= argc; i++ {
			args[i-1] = fromLua(L.Get(i))
		}

		result, err := fn(args)
		if err != nil {
			s.State.SetErr(err)
			L.Push(lua.LNil)
			return 1
		}
		L.Push(toLua(L, result))
		return 1
	}))
}

// RegisterCore wires the always-present state/logging primitives
// (SPEC_FULL.md §4.4's "State" host function group) that do not depend on
// any privileged subsystem, so every Script gets them regardless of which
// optional capabilities a caller also registers.
func (s *Script) RegisterCore(log func(level, msg string)) {
	s.Register("last_err", func(args []Value) (Value, error) {
		if msg := s.State.LastErr(); msg != nil {
			return StringValue(*msg), nil
		}
		return Nil(), nil
	})
	s.Register("clear_err", func(args []Value) (Value, error) {
		s.State.ClearErr()
		return Nil(), nil
	})

	for _, level := range []string{"info", "warn", "error", "debug", "status", "print"} {
		level := level
		s.Register(level, func(args []Value) (Value, error) {
			if len(args) > 0 && args[0].Str != nil {
				log(level, *args[0].Str)
			}
			return Nil(), nil
		})
	}
}

// Run executes code as the module body, with argument bound to the global
// `arg`.
func (s *Script) Run(code string, argument Value) error {
	s.L.SetGlobal("arg", toLua(s.L, argument))
	return s.L.DoString(code)
}

func toLua(L *lua.LState, v Value) lua.LValue {
	switch {
	case v.Nil:
		return lua.LNil
	case v.Bool != nil:
		return lua.LBool(*v.Bool)
	case v.Number != nil:
		return lua.LNumber(*v.Number)
	case v.Str != nil:
		return lua.LString(*v.Str)
	case v.Bytes != nil:
		tbl := L.NewTable()
		for i, b := range v.Bytes {
			tbl.RawSetInt(i+1, lua.LNumber(b))
		}
		return tbl
	case v.Pairs != nil:
		tbl := L.NewTable()
		for _, p := range v.Pairs {
			tbl.RawSet(toLua(L, p.Key), toLua(L, p.Value))
		}
		return tbl
	default:
		return lua.LNil
	}
}

func fromLua(lv lua.LValue) Value {
	switch x := lv.(type) {
	case *lua.LNilType:
		return Nil()
	case lua.LBool:
		return BoolValue(bool(x))
	case lua.LNumber:
		return NumberValue(float64(x))
	case lua.LString:
		return StringValue(string(x))
	case *lua.LTable:
		var pairs []Pair
		x.ForEach(func(k, v lua.LValue) {
			pairs = append(pairs, Pair{Key: fromLua(k), Value: fromLua(v)})
		})
		return Value{Pairs: pairs}
	default:
		return Nil()
	}
}

package plugin

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/lintstorm/internal/checker"
	"github.com/dshills/lintstorm/internal/logging"
)

// Loader runs checker plugin files and collects the definitions they
// declare. One Loader owns one Lua state; definitions with dynamic
// commands keep a reference back to the loader, so it must stay alive (and
// unclosed) as long as its checkers run.
type Loader struct {
	mu     sync.Mutex
	L      *lua.LState
	logger *logging.Logger

	group     string
	collected []*checker.Definition
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the loader's logger.
func WithLoaderLogger(l *logging.Logger) LoaderOption {
	return func(ld *Loader) {
		ld.logger = l
	}
}

// NewLoader creates a loader with a fresh, restricted Lua state.
func NewLoader(opts ...LoaderOption) *Loader {
	ld := &Loader{
		L:      lua.NewState(),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(ld)
	}

	ld.restrict()
	ld.L.SetGlobal("checker", ld.L.NewFunction(ld.checkerFn))
	return ld
}

// Close releases the Lua state. Definitions with dynamic commands must not
// be invoked after Close.
func (ld *Loader) Close() {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	ld.L.Close()
}

// restrict removes the globals that let plugin code load arbitrary code,
// touch the filesystem, or run processes. The os library is replaced by a
// table exposing only the side-effect-free helpers dynamic commands use.
func (ld *Loader) restrict() {
	osLib := ld.L.NewTable()
	if full, ok := ld.L.GetGlobal("os").(*lua.LTable); ok {
		for _, name := range []string{"getenv", "time", "clock", "date", "difftime"} {
			osLib.RawSetString(name, full.RawGetString(name))
		}
	}
	ld.L.SetGlobal("os", osLib)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "package", "debug"} {
		ld.L.SetGlobal(name, lua.LNil)
	}
}

// LoadFile runs one plugin file and returns the definitions it declared.
// The definitions' group is the file path, so reloads can be filtered to
// one plugin.
func (ld *Loader) LoadFile(path string) ([]*checker.Definition, error) {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	ld.group = path
	ld.collected = nil

	if err := ld.L.DoFile(path); err != nil {
		return nil, fmt.Errorf("plugin %s: %w", path, err)
	}

	defs := ld.collected
	ld.collected = nil
	return defs, nil
}

// LoadString runs plugin source held in memory. The group names the
// source for reload filtering.
func (ld *Loader) LoadString(group, source string) ([]*checker.Definition, error) {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	ld.group = group
	ld.collected = nil

	if err := ld.L.DoString(source); err != nil {
		return nil, fmt.Errorf("plugin %s: %w", group, err)
	}

	defs := ld.collected
	ld.collected = nil
	return defs, nil
}

// LoadDir runs every .lua file in a directory, in name order.
func (ld *Loader) LoadDir(dir string) ([]*checker.Definition, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var defs []*checker.Definition
	for _, path := range paths {
		loaded, err := ld.LoadFile(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, loaded...)
	}
	return defs, nil
}

// checkerFn implements the checker() global: it converts the declaration
// table into a Definition. Declaration errors raise a Lua error so the
// plugin file fails loudly at load time.
func (ld *Loader) checkerFn(L *lua.LState) int {
	tbl := L.CheckTable(1)

	def, err := ld.definitionFromTable(tbl)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}

	ld.collected = append(ld.collected, def)
	return 0
}

// definitionFromTable reads a checker declaration table.
func (ld *Loader) definitionFromTable(tbl *lua.LTable) (*checker.Definition, error) {
	name, _ := toGoValue(tbl.RawGetString("name")).(string)
	if name == "" {
		return nil, fmt.Errorf("checker declaration missing name")
	}

	def := &checker.Definition{
		Name:    name,
		Group:   ld.group,
		Outline: true,
	}

	switch langs := toGoValue(tbl.RawGetString("language")).(type) {
	case string:
		def.Languages = []string{langs}
	case []any:
		for _, item := range langs {
			if s, ok := item.(string); ok {
				def.Languages = append(def.Languages, s)
			}
		}
	}

	cmd, err := ld.commandFromValue(tbl.RawGetString("cmd"))
	if err != nil {
		return nil, fmt.Errorf("checker %s: %w", name, err)
	}
	def.Command = cmd

	if v, ok := toGoValue(tbl.RawGetString("regex")).(string); ok {
		def.Pattern = v
	}
	if v, ok := toGoValue(tbl.RawGetString("multiline")).(bool); ok {
		def.Multiline = v
	}
	if v, ok := toGoValue(tbl.RawGetString("tab_width")).(int64); ok {
		def.TabWidth = int(v)
	}
	if v, ok := toGoValue(tbl.RawGetString("selector")).(string); ok {
		def.Selector = v
	}
	if v, ok := toGoValue(tbl.RawGetString("tempfile_suffix")).(string); ok {
		def.TempFileSuffix = v
	}
	if v, ok := toGoValue(tbl.RawGetString("outline")).(bool); ok {
		def.Outline = v
	}
	if v, ok := toGoValue(tbl.RawGetString("defaults")).(map[string]any); ok {
		def.Defaults = v
	}

	return def, nil
}

// commandFromValue converts the cmd field into a Command variant.
func (ld *Loader) commandFromValue(lv lua.LValue) (checker.Command, error) {
	switch v := lv.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LString, *lua.LTable:
		args := toStringList(v)
		if args == nil {
			return nil, fmt.Errorf("cmd table must be a list of strings")
		}
		return checker.StaticCommand(args), nil
	case *lua.LFunction:
		return ld.dynamicCommand(v), nil
	default:
		return nil, fmt.Errorf("cmd must be a string, list, or function")
	}
}

// dynamicCommand wraps a Lua function as a per-invocation command
// producer. The call is serialized through the loader mutex; a Lua error
// resolves to an empty command, which skips the run.
func (ld *Loader) dynamicCommand(fn *lua.LFunction) checker.CommandFunc {
	return func(ctx checker.CommandContext) []string {
		ld.mu.Lock()
		defer ld.mu.Unlock()

		ctxTbl := ld.L.NewTable()
		ctxTbl.RawSetString("filename", lua.LString(ctx.Filename))
		ctxTbl.RawSetString("syntax", lua.LString(ctx.Syntax))
		ctxTbl.RawSetString("settings", toLuaValue(ld.L, ctx.Settings))

		ld.L.Push(fn)
		ld.L.Push(ctxTbl)
		if err := ld.L.PCall(1, 1, nil); err != nil {
			ld.logger.Debug("cmd function failed: %v", err)
			return nil
		}

		ret := ld.L.Get(-1)
		ld.L.Pop(1)
		return toStringList(ret)
	}
}

// fieldsOf splits a command string on whitespace.
func fieldsOf(s string) []string {
	return strings.Fields(s)
}

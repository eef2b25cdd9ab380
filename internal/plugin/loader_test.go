package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/lintstorm/internal/checker"
	"github.com/dshills/lintstorm/internal/logging"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	ld := NewLoader(WithLoaderLogger(logging.Null))
	t.Cleanup(ld.Close)
	return ld
}

func TestLoader_StaticChecker(t *testing.T) {
	ld := newTestLoader(t)

	defs, err := ld.LoadString("test", `
		checker{
			name = "luacheck",
			language = "lua",
			cmd = {"luacheck", "--formatter", "plain", "-"},
			regex = "(?P<line>\\d+):(?P<col>\\d+): (?P<error>.+)",
			tab_width = 4,
			tempfile_suffix = "lua",
			defaults = { max_cyclomatic = 10 },
		}
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("Expected 1 definition, got %d", len(defs))
	}

	def := defs[0]
	if def.Name != "luacheck" || def.Group != "test" {
		t.Errorf("Unexpected identity %s/%s", def.Name, def.Group)
	}
	if len(def.Languages) != 1 || def.Languages[0] != "lua" {
		t.Errorf("Unexpected languages %v", def.Languages)
	}
	args := def.Command.Resolve(checker.CommandContext{})
	if len(args) != 4 || args[0] != "luacheck" {
		t.Errorf("Unexpected command %v", args)
	}
	if def.TabWidth != 4 {
		t.Errorf("Expected tab width 4, got %d", def.TabWidth)
	}
	if def.TempFileSuffix != "lua" {
		t.Errorf("Expected tempfile suffix, got %q", def.TempFileSuffix)
	}
	if !def.Outline {
		t.Error("Expected outline to default on")
	}
	if def.Defaults["max_cyclomatic"] != int64(10) {
		t.Errorf("Unexpected defaults %v", def.Defaults)
	}
}

func TestLoader_CommandString(t *testing.T) {
	ld := newTestLoader(t)

	defs, err := ld.LoadString("test", `
		checker{
			name = "quick",
			language = "sh",
			cmd = "shellcheck --format=gcc -",
			regex = "(?P<line>\\d+)",
		}
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	args := defs[0].Command.Resolve(checker.CommandContext{})
	if len(args) != 3 || args[0] != "shellcheck" {
		t.Errorf("Expected command string split on whitespace, got %v", args)
	}
}

func TestLoader_LanguageList(t *testing.T) {
	ld := newTestLoader(t)

	defs, err := ld.LoadString("test", `
		checker{
			name = "multi",
			language = {"c", "cpp"},
			cmd = "tool",
			regex = "(?P<line>\\d+)",
		}
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	if len(defs[0].Languages) != 2 || defs[0].Languages[1] != "cpp" {
		t.Errorf("Unexpected languages %v", defs[0].Languages)
	}
}

func TestLoader_DynamicCommand(t *testing.T) {
	ld := newTestLoader(t)

	defs, err := ld.LoadString("test", `
		checker{
			name = "dynamic",
			language = "python",
			cmd = function(ctx)
				if ctx.settings.use_strict then
					return {"pytool", "--strict", ctx.filename}
				end
				return {"pytool", ctx.filename}
			end,
			regex = "(?P<line>\\d+)",
		}
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	def := defs[0]
	args := def.Command.Resolve(checker.CommandContext{
		Filename: "a.py",
		Settings: map[string]any{"use_strict": true},
	})
	if len(args) != 3 || args[1] != "--strict" || args[2] != "a.py" {
		t.Errorf("Expected strict args, got %v", args)
	}

	args = def.Command.Resolve(checker.CommandContext{Filename: "b.py"})
	if len(args) != 2 || args[1] != "b.py" {
		t.Errorf("Expected plain args, got %v", args)
	}
}

func TestLoader_DynamicCommandErrorSkips(t *testing.T) {
	ld := newTestLoader(t)

	defs, err := ld.LoadString("test", `
		checker{
			name = "explosive",
			language = "python",
			cmd = function(ctx) error("boom") end,
			regex = "(?P<line>\\d+)",
		}
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	// A failing cmd function resolves to an empty command, which the
	// engine treats as a skip.
	if args := defs[0].Command.Resolve(checker.CommandContext{}); args != nil {
		t.Errorf("Expected nil args from a failing function, got %v", args)
	}
}

func TestLoader_MissingNameFailsLoad(t *testing.T) {
	ld := newTestLoader(t)

	if _, err := ld.LoadString("test", `checker{ language = "go" }`); err == nil {
		t.Error("Expected a load error for a nameless checker")
	}
}

func TestLoader_MultipleDeclarations(t *testing.T) {
	ld := newTestLoader(t)

	defs, err := ld.LoadString("test", `
		checker{ name = "one", language = "go", cmd = "a", regex = "(?P<line>\\d+)" }
		checker{ name = "two", language = "go", cmd = "b", regex = "(?P<line>\\d+)" }
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	if len(defs) != 2 || defs[0].Name != "one" || defs[1].Name != "two" {
		t.Errorf("Expected both declarations collected, got %v", defs)
	}
}

func TestLoader_RestrictedGlobals(t *testing.T) {
	ld := newTestLoader(t)

	if _, err := ld.LoadString("test", `dofile("/etc/passwd")`); err == nil {
		t.Error("Expected dofile to be unavailable")
	}
	if _, err := ld.LoadString("test", `loadstring("return 1")()`); err == nil {
		t.Error("Expected loadstring to be unavailable")
	}
	if _, err := ld.LoadString("test", `io.open("/etc/passwd")`); err == nil {
		t.Error("Expected io to be unavailable")
	}
	if _, err := ld.LoadString("test", `os.execute("true")`); err == nil {
		t.Error("Expected os.execute to be unavailable")
	}
	if _, err := ld.LoadString("test", `require("io")`); err == nil {
		t.Error("Expected require to be unavailable")
	}
}

func TestLoader_RestrictedOSKeepsGetenv(t *testing.T) {
	t.Setenv("LINTSTORM_PLUGIN_FLAG", "on")
	ld := newTestLoader(t)

	defs, err := ld.LoadString("test", `
		checker{
			name = "envy",
			language = "go",
			cmd = function(ctx)
				return {"tool", os.getenv("LINTSTORM_PLUGIN_FLAG")}
			end,
			regex = "(?P<line>\\d+)",
		}
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	args := defs[0].Command.Resolve(checker.CommandContext{})
	if len(args) != 2 || args[1] != "on" {
		t.Errorf("Expected os.getenv to survive the sandbox, got %v", args)
	}
}

func TestLoader_LoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b_second.lua": `checker{ name = "second", language = "go", cmd = "b", regex = "(?P<line>\\d+)" }`,
		"a_first.lua":  `checker{ name = "first", language = "go", cmd = "a", regex = "(?P<line>\\d+)" }`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing plugin: %v", err)
		}
	}

	ld := newTestLoader(t)
	defs, err := ld.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("Expected 2 definitions, got %d", len(defs))
	}
	// Files load in name order.
	if defs[0].Name != "first" || defs[1].Name != "second" {
		t.Errorf("Unexpected order: %s, %s", defs[0].Name, defs[1].Name)
	}
	if defs[0].Group == defs[1].Group {
		t.Error("Expected per-file groups")
	}
}

func TestLoader_RegistersCleanly(t *testing.T) {
	ld := newTestLoader(t)

	defs, err := ld.LoadString("test", `
		checker{
			name = "whole",
			language = "go",
			cmd = "gotool",
			regex = "(?P<line>\\d+):(?P<col>\\d+): (?P<error>.+)",
			multiline = true,
			selector = "source.go.embedded",
			outline = false,
		}
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	reg := checker.NewRegistry(checker.WithLogger(logging.Null))
	if err := reg.Register(defs[0]); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if defs[0].Selector != "source.go.embedded" || defs[0].Outline {
		t.Errorf("Unexpected fields %+v", defs[0])
	}
}

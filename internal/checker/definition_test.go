package checker

import (
	"errors"
	"testing"
)

func TestDefinition_Matches(t *testing.T) {
	def := &Definition{Languages: []string{"Python", "cython"}}

	tests := []struct {
		syntax string
		want   bool
	}{
		{"python", true},
		{"PYTHON", true},
		{"Cython", true},
		{"go", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := def.Matches(tt.syntax); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.syntax, got, tt.want)
		}
	}
}

func TestDefinition_ValidateError(t *testing.T) {
	def := &Definition{Name: "half-built"}

	err := def.Validate()
	if err == nil {
		t.Fatal("Expected a validation error")
	}

	var de *DefinitionError
	if !errors.As(err, &de) || de.Name != "half-built" {
		t.Errorf("Expected DefinitionError naming the checker, got %v", err)
	}
}

func TestStaticCommand_Resolve(t *testing.T) {
	cmd := StaticCommand{"flake8", "--stdin-display-name", "x.py", "-"}

	got := cmd.Resolve(CommandContext{Filename: "ignored"})
	if len(got) != 4 || got[0] != "flake8" {
		t.Errorf("Expected fixed args back, got %v", got)
	}
}

func TestCommandFunc_Resolve(t *testing.T) {
	cmd := CommandFunc(func(ctx CommandContext) []string {
		if ctx.Filename == "" {
			return nil
		}
		return []string{"tool", ctx.Filename}
	})

	if got := cmd.Resolve(CommandContext{}); got != nil {
		t.Errorf("Expected nil for empty filename, got %v", got)
	}
	got := cmd.Resolve(CommandContext{Filename: "a.py"})
	if len(got) != 2 || got[1] != "a.py" {
		t.Errorf("Expected args built from context, got %v", got)
	}
}

func TestDefinition_SettingsFallsBackToDefaults(t *testing.T) {
	def := &Definition{Defaults: map[string]any{"flag": true}}

	s := def.Settings()
	if s["flag"] != true {
		t.Errorf("Expected defaults before recompute, got %v", s)
	}

	// The fallback is a copy; mutating it must not leak into the defaults.
	s["flag"] = false
	if def.Defaults["flag"] != true {
		t.Error("Expected defaults unchanged after caller mutation")
	}
}

func TestDefinition_SettingsPrefersCached(t *testing.T) {
	def := &Definition{Defaults: map[string]any{"flag": true}}
	def.setSettings(map[string]any{"flag": false})

	if def.Settings()["flag"] != false {
		t.Error("Expected cached merged settings to win over defaults")
	}
}

package settings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/lintstorm/internal/checker"
)

// Definitions converts the store's [checkers] tables into checker
// definitions. The group on each definition is set to the config file path
// so reloads can be filtered to config-declared checkers.
//
// Config-declared commands are always static; dynamic commands come from
// Lua plugins.
func (s *Store) Definitions() ([]*checker.Definition, error) {
	names := s.DefinitionNames()
	sort.Strings(names)

	defs := make([]*checker.Definition, 0, len(names))
	for _, name := range names {
		def, err := definitionFromTable(name, s.Definition(name), s.path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// definitionFromTable builds one Definition from a loose config table.
func definitionFromTable(name string, table map[string]any, group string) (*checker.Definition, error) {
	def := &checker.Definition{
		Name:    name,
		Group:   group,
		Outline: true,
	}

	langs, err := stringList(table["language"])
	if err != nil {
		return nil, fmt.Errorf("checker %s: language: %w", name, err)
	}
	def.Languages = langs

	cmd, err := commandValue(table["cmd"])
	if err != nil {
		return nil, fmt.Errorf("checker %s: cmd: %w", name, err)
	}
	def.Command = cmd

	if v, ok := table["regex"].(string); ok {
		def.Pattern = v
	}
	if v, ok := table["multiline"].(bool); ok {
		def.Multiline = v
	}
	if v, ok := intValue(table["tab_width"]); ok {
		def.TabWidth = v
	}
	if v, ok := table["selector"].(string); ok {
		def.Selector = v
	}
	if v, ok := table["tempfile_suffix"].(string); ok {
		def.TempFileSuffix = v
	}
	if v, ok := table["outline"].(bool); ok {
		def.Outline = v
	}
	if v, ok := table["defaults"].(map[string]any); ok {
		def.Defaults = v
	}

	return def, nil
}

// stringList accepts a single string or a list of strings.
func stringList(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{val}, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	case []string:
		return val, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

// commandValue accepts a command string (whitespace-split) or an argument
// list and returns a static command.
func commandValue(v any) (checker.Command, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return checker.StaticCommand(strings.Fields(val)), nil
	default:
		args, err := stringList(v)
		if err != nil {
			return nil, err
		}
		return checker.StaticCommand(args), nil
	}
}

// intValue accepts the integer shapes the TOML and YAML decoders produce.
func intValue(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}

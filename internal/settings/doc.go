// Package settings loads lintstorm configuration and provides effective
// per-checker settings.
//
// Configuration lives in a single TOML or YAML file with two sections:
// [checkers.NAME] tables declare static checker definitions, and
// [linters.NAME] tables hold user setting overrides merged over each
// checker's built-in defaults (overrides win). A missing file is not an
// error; it simply yields no definitions and no overrides.
//
// The Watcher reloads the file on change so checkers can be redefined and
// retuned without restarting the host.
package settings

// Package plugin loads checker definitions from Lua plugin files.
//
// A plugin file calls the global checker() function with a declaration
// table:
//
//	checker {
//	    name = "flake8",
//	    language = "python",
//	    cmd = { "flake8", "--stdin-display-name", "stdin", "-" },
//	    regex = "^stdin:(?P<line>\\d+):(?P<col>\\d+): (?P<type>\\w)\\d+ (?P<error>.+)$",
//	}
//
// cmd may be a string (whitespace-split), a list of arguments, or a Lua
// function receiving a context table (filename, syntax, settings) and
// returning either shape; a function becomes the checker's dynamic
// command, resolved once per invocation. Returning nothing skips the run.
//
// The Lua state is not goroutine-safe, so every call into it, including
// dynamic command resolution during lint passes, is serialized through the
// loader's mutex. Plugin files run in a restricted state with the
// file-loading globals removed.
package plugin

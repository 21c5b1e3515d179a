package executor

import (
	"regexp"
	"strings"
)

// quotedPathPattern matches a leading double-quoted program path with at least
// one back-slash in it, e.g. `"C:\tools\run.exe" -x`.
var quotedPathPattern = regexp.MustCompile(`(?s)^(\s*)"([^"]*\\)([^"]*)"(.*)$`)

// FixWindowsPath rewrites `"<dir>\<file>" <args>` into `cd "<dir>" && "<file>" <args>`
// for cmd.exe, which splits quoted program paths containing spaces. Lines of any
// other shape are returned unchanged with ok false.
func FixWindowsPath(line string) (string, bool) {
	m := quotedPathPattern.FindStringSubmatch(line)

	if m == nil {
		return line, false
	}

	leading, dir, file, rest := m[1], m[2], m[3], m[4]

	if file == "" {
		return line, false
	}

	if trimmed := strings.TrimSuffix(dir, `\`); trimmed != "" && !strings.HasSuffix(trimmed, ":") {
		dir = trimmed
	}

	return leading + `cd "` + dir + `" && "` + file + `"` + rest, true
}

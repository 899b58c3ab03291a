// Package filter classifies orphan processes by their command line.
//
// Both modes are expressed as ordered rule lists so they can be inspected,
// tested and extended without touching the callers.
package filter

import (
	"regexp"
	"strings"
)

// Matcher reports whether a command line satisfies a rule.
type Matcher interface {
	Match(cmd string) bool
}

// Contains matches commands containing the substring anywhere.
type Contains string

func (c Contains) Match(cmd string) bool { return strings.Contains(cmd, string(c)) }

// HasPrefix matches commands starting with the prefix.
type HasPrefix string

func (p HasPrefix) Match(cmd string) bool { return strings.HasPrefix(cmd, string(p)) }

// Pattern matches commands against an anchored regular expression.
type Pattern struct {
	*regexp.Regexp
}

func (p Pattern) Match(cmd string) bool { return p.MatchString(cmd) }

// ShellWith matches shell invocations whose command line also contains
// Marker.
type ShellWith struct {
	Shell  *regexp.Regexp
	Marker string
}

func (s ShellWith) Match(cmd string) bool {
	return s.Shell.MatchString(cmd) && strings.Contains(cmd, s.Marker)
}

// Rule is a named matcher.
type Rule struct {
	Name string
	Matcher
}

func pattern(expr string) Pattern {
	return Pattern{regexp.MustCompile(expr)}
}

// DevRules is the allowlist used in dev mode. A command matching any rule
// is shown. Matching is case-sensitive and never resolves paths.
var DevRules = []Rule{
	{"claude data dir", Contains(".local/share/claude")},

	{"npm cache", Contains(".npm")},
	{"nvm", Contains(".nvm")},
	{"nodebrew", Contains(".nodebrew")},
	{"node runner", pattern(`^(npm|npx|pnpm|yarn|bun|tsx|ts-node)(\s|$)`)},
	{"node", pattern(`^node(\s|$)`)},

	{"cargo", Contains(".cargo")},
	{"rbenv", Contains(".rbenv")},

	{"python", pattern(`^python[23]?(\s|$)`)},
	{"pyenv", Contains(".pyenv")},

	{"deno", pattern(`^deno(\s|$)`)},
	{"go", pattern(`^go(\s|$)`)},

	{"volta", Contains(".volta")},
	{"asdf", Contains(".asdf")},
	{"mise", Contains(".mise")},

	// tmux watchers live under /tmp/claude-tmux/.
	{"claude tmux watcher", Contains("claude-tmux")},
	{"claude helper", Contains("claude_")},
	{"claude shell", ShellWith{Shell: regexp.MustCompile(`^(/bin/)?(ba|z)sh`), Marker: ".claude/"}},
}

// SystemPrefixes is the denylist used in all mode. A command starting with
// any of these is hidden.
var SystemPrefixes = []Rule{
	{"system", HasPrefix("/System/")},
	{"usr", HasPrefix("/usr/")},
	{"apple libraries", HasPrefix("/Library/Apple")},
}

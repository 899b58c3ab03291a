package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proclean/pkg/ps"
)

func TestDev_Matches(t *testing.T) {
	commands := []string{
		"/Users/me/.local/share/claude/versions/1.0/claude",
		"/Users/me/.npm/_npx/abc/node_modules/.bin/vite",
		"/Users/me/.nvm/versions/node/v20.1.0/bin/node server.js",
		"/Users/me/.nodebrew/current/bin/node",
		"/Users/me/.cargo/bin/rust-analyzer",
		"/Users/me/.rbenv/versions/3.2.0/bin/ruby",
		"/Users/me/.pyenv/shims/python",
		"/Users/me/.volta/bin/node",
		"/Users/me/.asdf/installs/nodejs/20/bin/node",
		"/Users/me/.mise/installs/go/1.22/bin/gopls",
		"npm run dev",
		"npx prisma studio",
		"pnpm",
		"yarn start",
		"bun run index.ts",
		"tsx watch src/index.ts",
		"ts-node script.ts",
		"node",
		"node index.js",
		"python",
		"python3 -m http.server",
		"python2 legacy.py",
		"deno run -A main.ts",
		"go run ./cmd/server",
		"tail -f /tmp/claude-tmux/session.log",
		"/tmp/claude_watch.sh",
		"/bin/zsh -c source /Users/me/.claude/shell-snapshots/snap.sh",
		"/bin/bash -c cd /Users/me/.claude/projects",
		"zsh -c echo /Users/me/.claude/x",
		"bash /Users/me/.claude/hooks/run.sh",
	}
	for _, cmd := range commands {
		t.Run(cmd, func(t *testing.T) {
			assert.True(t, Dev(cmd))
			_, ok := Explain(cmd)
			assert.True(t, ok)
		})
	}
}

func TestDev_Rejects(t *testing.T) {
	commands := []string{
		"",
		"nodemon app.js",
		"golang-server",
		"python3.11 app.py",
		"Node index.js",
		"NPM run",
		"/usr/local/bin/node server.js",
		"/bin/zsh -l",
		"fish -c /Users/me/.claude/x",
		"/Applications/Slack.app/Contents/MacOS/Slack",
		"denon run",
	}
	for _, cmd := range commands {
		t.Run(cmd, func(t *testing.T) {
			assert.False(t, Dev(cmd))
		})
	}
}

func TestAll(t *testing.T) {
	tests := []struct {
		cmd  string
		want bool
	}{
		{"/System/Library/CoreServices/Finder.app/Contents/MacOS/Finder", false},
		{"/usr/libexec/trustd", false},
		{"/usr/bin/foo --bar baz", false},
		{"/Library/Apple/System/Library/CoreServices/XProtect.app", false},
		{"/Library/Application Support/Vendor/agent", true},
		{"/Applications/Slack.app/Contents/MacOS/Slack", true},
		{"node index.js", true},
		{"usr/bin/relative", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			assert.Equal(t, tt.want, All(tt.cmd))
		})
	}
}

func TestDev_UnaffectedBySystemPrefix(t *testing.T) {
	cmd := "/usr/local/bin/node /Users/me/.nvm/versions/node/v20/lib/server.js"
	assert.False(t, All(cmd))
	assert.True(t, Dev(cmd))

	plain := "/usr/bin/python3 script.py"
	assert.False(t, All(plain))
	assert.False(t, Dev(plain))
}

func TestPredicates_Idempotent(t *testing.T) {
	inputs := []string{"npm run dev", "/usr/bin/true", "/opt/app/bin/server", ""}
	for _, in := range inputs {
		assert.Equal(t, Dev(in), Dev(in))
		assert.Equal(t, All(in), All(in))
	}
}

func TestForMode(t *testing.T) {
	pred, err := ForMode(ModeDev)
	require.NoError(t, err)
	assert.True(t, pred("npm start"))
	assert.False(t, pred("/opt/app/bin/server"))

	pred, err = ForMode(ModeAll)
	require.NoError(t, err)
	assert.True(t, pred("/opt/app/bin/server"))

	_, err = ForMode("bogus")
	assert.Error(t, err)

	assert.Equal(t, ModeAll, ModeFor(true))
	assert.Equal(t, ModeDev, ModeFor(false))
}

func TestApply(t *testing.T) {
	procs := []ps.Process{
		{PID: 10, Command: "/usr/libexec/helper"},
		{PID: 11, Command: "node server.js"},
		{PID: 12, Command: "/opt/tool/bin/agent"},
		{PID: 13, Command: "npm run dev"},
	}
	before := append([]ps.Process(nil), procs...)

	dev := Apply(ModeDev, procs)
	require.Len(t, dev, 2)
	assert.Equal(t, 11, dev[0].PID)
	assert.Equal(t, 13, dev[1].PID)

	all := Apply(ModeAll, procs)
	require.Len(t, all, 3)
	assert.Equal(t, []int{11, 12, 13}, []int{all[0].PID, all[1].PID, all[2].PID})

	assert.Equal(t, before, procs, "input must not be modified")
}

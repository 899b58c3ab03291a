package ps

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `  1234    1 ??    2.5  51200   01:23:45 /usr/bin/foo --bar baz
  1300  900 ??    0.0   2048      10:00 node child.js
  1400    1 ttys002 0.3  4096      05:00 vim notes.md
garbage line
   901    1 ??   11.0 204800 1-02:03:04 node /Users/me/.nvm/versions/node/v20/bin/tsx watch
`

func fakeRunner(out string, err error, gotArgs *[]string) Runner {
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		if gotArgs != nil {
			*gotArgs = append([]string{name}, args...)
		}
		return []byte(out), err
	}
}

func TestLister_List(t *testing.T) {
	var args []string
	l := &Lister{Run: fakeRunner(sampleOutput, nil, &args), UID: func() int { return 501 }}

	procs, err := l.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ps", "-u", "501", "-o", "pid=,ppid=,tty=,%cpu=,rss=,etime=,command="}, args)
	require.Len(t, procs, 2)
	assert.Equal(t, 1234, procs[0].PID, "ps order is preserved")
	assert.Equal(t, 901, procs[1].PID)
	for _, p := range procs {
		assert.True(t, p.IsOrphan())
	}
}

func TestLister_UnknownUser(t *testing.T) {
	called := false
	l := &Lister{
		Run: func(context.Context, string, ...string) ([]byte, error) {
			called = true
			return nil, nil
		},
		UID: func() int { return -1 },
	}

	procs, err := l.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, procs)
	assert.False(t, called, "ps must not run without a user")
}

func TestLister_QueryFailure(t *testing.T) {
	cause := errors.New("exec: \"ps\": executable file not found in $PATH")
	l := &Lister{Run: fakeRunner("", cause, nil), UID: func() int { return 0 }}

	_, err := l.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnumeration)
	assert.ErrorIs(t, err, cause)

	var enumErr *EnumerationError
	require.ErrorAs(t, err, &enumErr)
	assert.Contains(t, enumErr.Error(), "executable file not found")
}

func TestLister_EmptyOutput(t *testing.T) {
	l := &Lister{Run: fakeRunner("", nil, nil), UID: func() int { return 0 }}
	procs, err := l.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, procs)
}

func TestLister_LongCommandLine(t *testing.T) {
	long := "node " + strings.Repeat("x", 2<<20)
	out := "   10    1 ??    0.0   1024    01:00 " + long + "\n" +
		"   20    1 ??    0.1   2048    02:00 node server.js\r\n"
	l := &Lister{Run: fakeRunner(out, nil, nil), UID: func() int { return 501 }}

	procs, err := l.List(context.Background())
	require.NoError(t, err)
	require.Len(t, procs, 2, "rows after a long command line are kept")
	assert.Equal(t, 10, procs[0].PID)
	assert.Len(t, procs[0].Command, len(long))
	assert.Equal(t, 20, procs[1].PID)
	assert.Equal(t, "node server.js", procs[1].Command)
}

func TestLister_NoTrailingNewline(t *testing.T) {
	l := &Lister{Run: fakeRunner("   20    1 ??    0.1   2048    02:00 node server.js", nil, nil), UID: func() int { return 501 }}
	procs, err := l.List(context.Background())
	require.NoError(t, err)
	require.Len(t, procs, 1)
	assert.Equal(t, 20, procs[0].PID)
}

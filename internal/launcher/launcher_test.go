package launcher

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findLaunch(t *testing.T, l *Launcher, id int) Launch {
	t.Helper()
	for _, rec := range l.List().Launches {
		if rec.ID == id {
			return rec
		}
	}
	t.Fatalf("launch %d not found", id)
	return Launch{}
}

func TestStart_RecordsExitCode(t *testing.T) {
	l := New()
	dir := t.TempDir()

	rec, err := l.Start("terminal", "sh", []string{"-c", "exit 3"}, dir)
	require.NoError(t, err)
	assert.NotZero(t, rec.PID)
	assert.Equal(t, dir, rec.Dir)

	assert.Eventually(t, func() bool {
		return findLaunch(t, l, rec.ID).Exited
	}, 5*time.Second, 10*time.Millisecond)

	got := findLaunch(t, l, rec.ID)
	assert.Equal(t, 3, got.ExitCode)
	assert.False(t, got.Running)
}

func TestStart_MissingBinary(t *testing.T) {
	l := New()

	rec, err := l.Start("explorer", filepath.Join(t.TempDir(), "no-such-binary"), nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpawnFailed)
	assert.True(t, rec.Exited)
	assert.Equal(t, -1, rec.ExitCode)
	assert.NotEmpty(t, rec.Error)

	list := l.List()
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "explorer", list.Launches[0].Purpose)
}

func TestList_NewestFirstAndLiveness(t *testing.T) {
	l := New()
	l.exists = func(pid int32) (bool, error) { return false, nil }

	first, err := l.Start("a", "sleep", []string{"5"}, "")
	require.NoError(t, err)
	second, err := l.Start("b", "sleep", []string{"5"}, "")
	require.NoError(t, err)

	list := l.List()
	require.Len(t, list.Launches, 2)
	assert.Equal(t, second.ID, list.Launches[0].ID)
	assert.Equal(t, first.ID, list.Launches[1].ID)
	// process table says gone
	assert.False(t, list.Launches[0].Running)
}

func TestList_HistoryIsBounded(t *testing.T) {
	l := New()

	for i := 0; i < MaxHistory+5; i++ {
		_, _ = l.Start("missing", filepath.Join(t.TempDir(), "nope"), nil, "")
	}

	list := l.List()
	assert.Equal(t, MaxHistory, list.Total)
	assert.Equal(t, MaxHistory+5, list.Launches[0].ID)
}

package procdir

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/mrzor/procstatfs/internal/fserrors"
	"github.com/mrzor/procstatfs/internal/procsource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is an in-memory process table.
type fakeSource struct {
	mu      sync.Mutex
	entries []procsource.Entry
	err     error
	calls   int
}

func (f *fakeSource) Entries(_ context.Context) ([]procsource.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]procsource.Entry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeSource) OpenStatus(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.New("not used")
}

func (f *fakeSource) set(entries []procsource.Entry, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = entries
	f.err = err
}

func dirs(names ...string) []procsource.Entry {
	out := make([]procsource.Entry, len(names))
	for i, n := range names {
		out[i] = procsource.Entry{Name: n, IsDir: true}
	}
	return out
}

func TestDirectory_RefreshFiltersEntries(t *testing.T) {
	src := &fakeSource{entries: []procsource.Entry{
		{Name: "1", IsDir: true},
		{Name: "2", IsDir: true},
		{Name: "self", IsDir: true},
		{Name: "0", IsDir: true},
		{Name: "uptime", IsDir: false},
		{Name: "77", IsDir: false},
		{Name: "42", IsDir: true},
		{Name: "-3", IsDir: true},
	}}
	d := NewDirectory(src, 0)

	snapshot, err := d.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ProcessID{"1", "2", "42"}, snapshot.IDs())

	current, ok := d.Current()
	assert.True(t, ok)
	assert.Equal(t, snapshot.IDs(), current.IDs())
}

func TestDirectory_RefreshPreservesHostOrder(t *testing.T) {
	d := NewDirectory(&fakeSource{entries: dirs("300", "12", "7")}, 0)

	snapshot, err := d.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ProcessID{"300", "12", "7"}, snapshot.IDs())
}

func TestDirectory_CurrentBeforeRefresh(t *testing.T) {
	d := NewDirectory(&fakeSource{entries: dirs("1")}, 0)

	snapshot, ok := d.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, snapshot.Len())
	assert.Equal(t, Invalid, d.Classify("/1").Kind)
}

func TestDirectory_RefreshFailureKeepsPrevious(t *testing.T) {
	src := &fakeSource{entries: dirs("1", "42")}
	d := NewDirectory(src, 0)

	_, err := d.Refresh(context.Background())
	require.NoError(t, err)

	src.set(nil, errors.New("permission denied"))
	_, err = d.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fserrors.ErrIO)

	current, ok := d.Current()
	assert.True(t, ok)
	assert.Equal(t, []ProcessID{"1", "42"}, current.IDs())
}

func TestDirectory_RefreshRejectsOversizedID(t *testing.T) {
	src := &fakeSource{entries: dirs("1")}
	d := NewDirectory(src, 8)

	_, err := d.Refresh(context.Background())
	require.NoError(t, err)

	src.set(dirs("2", strings.Repeat("9", 9)), nil)
	_, err = d.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fserrors.ErrLimitExceeded)

	current, _ := d.Current()
	assert.Equal(t, []ProcessID{"1"}, current.IDs(), "failed refresh must not replace the snapshot")
}

func TestDirectory_LongNonNumericNamesIgnored(t *testing.T) {
	d := NewDirectory(&fakeSource{entries: dirs(strings.Repeat("x", 100), "5")}, 8)

	snapshot, err := d.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ProcessID{"5"}, snapshot.IDs())
}

func TestDirectory_RefreshIdempotent(t *testing.T) {
	d := NewDirectory(&fakeSource{entries: dirs("1", "2", "42")}, 0)

	first, err := d.Refresh(context.Background())
	require.NoError(t, err)
	second, err := d.Refresh(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, first.IDs(), second.IDs())
}

func TestDirectory_Concurrent(t *testing.T) {
	src := &fakeSource{entries: dirs("1", "2", "3")}
	d := NewDirectory(src, 0)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = d.Refresh(context.Background())
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c := d.Classify("/2")
				if c.Kind == Process && c.ID != "2" {
					t.Errorf("Classify(/2) = %+v", c)
				}
			}
		}()
	}
	wg.Wait()
}

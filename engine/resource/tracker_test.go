package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDisposable struct {
	releases   int
	onReleased func()
}

func (f *fakeDisposable) Release() {
	f.releases++
	if f.onReleased != nil {
		f.onReleased()
	}
}

func TestTrackerTrackAndSize(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, 0, tr.Size())
	assert.NotEmpty(t, tr.ID())

	a := &fakeDisposable{}
	b := &fakeDisposable{}
	tr.Track(a)
	tr.Track(b)
	assert.Equal(t, 2, tr.Size())

	// Same handle twice is a no-op.
	tr.Track(a)
	assert.Equal(t, 2, tr.Size())

	// Nil handles are ignored.
	tr.Track(nil)
	assert.Equal(t, 2, tr.Size())
}

func TestTrackerResourcesSnapshot(t *testing.T) {
	tr := NewTracker()
	a := &fakeDisposable{}
	tr.Track(a)

	snapshot := tr.Resources()
	require.Len(t, snapshot, 1)

	b := &fakeDisposable{}
	tr.Track(b)
	assert.Len(t, snapshot, 1, "earlier snapshot must not see later registrations")
	assert.Len(t, tr.Resources(), 2)
}

func TestTrackerReleaseReverseOrderExactlyOnce(t *testing.T) {
	tr := NewTracker()

	var order []string
	a := &fakeDisposable{}
	a.onReleased = func() { order = append(order, "a") }
	b := &fakeDisposable{}
	b.onReleased = func() { order = append(order, "b") }
	tr.Track(a)
	tr.Track(b)

	tr.Release()
	assert.Equal(t, []string{"b", "a"}, order)
	assert.Equal(t, 1, a.releases)
	assert.Equal(t, 1, b.releases)

	// Second release is a no-op.
	tr.Release()
	assert.Equal(t, 1, a.releases)
	assert.Equal(t, 1, b.releases)
}

func TestTrackerTrackAfterRelease(t *testing.T) {
	tr := NewTracker()
	tr.Release()

	late := &fakeDisposable{}
	tr.Track(late)
	assert.Equal(t, 0, tr.Size())
	assert.Zero(t, late.releases)
}

func TestTrackerUniqueIDs(t *testing.T) {
	assert.NotEqual(t, NewTracker().ID(), NewTracker().ID())
}

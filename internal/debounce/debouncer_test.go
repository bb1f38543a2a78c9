package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/showgood/html-preview/internal/document"
)

func newDoc(t *testing.T, delay time.Duration) *document.Source {
	t.Helper()
	doc := document.New(t.TempDir() + "/notes.md")
	doc.IdleDelay = delay
	return doc
}

func TestOnChange_CoalescesRapidChanges(t *testing.T) {
	var fires atomic.Int32
	d := New(func(*document.Source) { fires.Add(1) }, nil)
	doc := newDoc(t, 60*time.Millisecond)

	for i := 0; i < 5; i++ {
		d.OnChange(doc)
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return fires.Load() == 1 },
		time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), fires.Load())
}

func TestOnChange_DelayMeasuredFromLastChange(t *testing.T) {
	var fires atomic.Int32
	d := New(func(*document.Source) { fires.Add(1) }, nil)
	doc := newDoc(t, 120*time.Millisecond)

	d.OnChange(doc)
	time.Sleep(80 * time.Millisecond)
	d.OnChange(doc)

	// 120ms after the first change, but only 40ms after the last: the
	// timer must not have fired yet.
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(0), fires.Load())

	require.Eventually(t, func() bool { return fires.Load() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestOnChange_ReplacedTimerDoesNotFire(t *testing.T) {
	var fires atomic.Int32
	d := New(func(*document.Source) { fires.Add(1) }, nil)
	doc := newDoc(t, 30*time.Millisecond)

	d.OnChange(doc)

	// Take over the slot the way a re-arming change does when it races the
	// expiry and Stop comes back too late: the old timer still runs its
	// callback but no longer owns the slot.
	replacement := time.AfterFunc(time.Hour, func() {})
	defer replacement.Stop()
	d.mu.Lock()
	d.timers[doc.Key()] = replacement
	d.mu.Unlock()

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(0), fires.Load())
	require.True(t, d.Pending(doc), "the replacement slot must survive the stale expiry")
}

func TestOnChange_ZeroDelayIsNoOp(t *testing.T) {
	var fires atomic.Int32
	d := New(func(*document.Source) { fires.Add(1) }, nil)
	doc := newDoc(t, 0)

	d.OnChange(doc)
	require.False(t, d.Pending(doc))
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), fires.Load())
}

func TestDisable_CancelsAndSuppresses(t *testing.T) {
	var fires atomic.Int32
	d := New(func(*document.Source) { fires.Add(1) }, nil)
	doc := newDoc(t, 30*time.Millisecond)

	d.OnChange(doc)
	d.Disable(doc)
	require.False(t, d.Pending(doc))

	d.OnChange(doc)
	require.False(t, d.Pending(doc))
	time.Sleep(80 * time.Millisecond)
	require.Equal(t, int32(0), fires.Load())

	d.Enable(doc)
	d.OnChange(doc)
	require.Eventually(t, func() bool { return fires.Load() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestCancel_DropsPendingTimer(t *testing.T) {
	var fires atomic.Int32
	d := New(func(*document.Source) { fires.Add(1) }, nil)
	doc := newDoc(t, 30*time.Millisecond)

	d.OnChange(doc)
	require.True(t, d.Pending(doc))
	require.True(t, d.Cancel(doc))
	require.False(t, d.Cancel(doc))

	time.Sleep(80 * time.Millisecond)
	require.Equal(t, int32(0), fires.Load())
}

func TestOnChange_DocumentsAreIsolated(t *testing.T) {
	var a, b atomic.Int32
	d := New(func(doc *document.Source) {
		if doc.IdleDelay == 20*time.Millisecond {
			a.Add(1)
		} else {
			b.Add(1)
		}
	}, nil)
	docA := newDoc(t, 20*time.Millisecond)
	docB := newDoc(t, 40*time.Millisecond)

	d.OnChange(docA)
	d.OnChange(docB)
	d.Cancel(docB)

	require.Eventually(t, func() bool { return a.Load() == 1 },
		time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	require.Equal(t, int32(0), b.Load())
}

package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTriggerRunsLastActionOnce(t *testing.T) {
	d := New(20 * time.Millisecond)
	var runs, last atomic.Int32

	for i := int32(1); i <= 5; i++ {
		d.Trigger(func() {
			runs.Add(1)
			last.Store(i)
		})
	}

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(5), last.Load())
	assert.False(t, d.Pending())
}

func TestFlushRunsPendingNow(t *testing.T) {
	d := New(time.Hour)
	ran := false
	d.Trigger(func() { ran = true })
	assert.True(t, d.Pending())

	d.Flush()
	assert.True(t, ran)
	assert.False(t, d.Pending())

	// Nothing pending: no-op
	d.Flush()
}

func TestCancelDropsPending(t *testing.T) {
	d := New(10 * time.Millisecond)
	var runs atomic.Int32
	d.Trigger(func() { runs.Add(1) })
	d.Cancel()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
	assert.False(t, d.Pending())
}

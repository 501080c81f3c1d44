package find

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerRunsLastCall(t *testing.T) {
	d := NewDebouncer(20*time.Millisecond, nil)

	var calls atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(n)
		})
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(5), last.Load())
	assert.False(t, d.Pending())
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(10*time.Millisecond, nil)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	assert.True(t, d.Pending())
	d.Cancel()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestDebouncerScheduler(t *testing.T) {
	posted := make(chan func(), 1)
	d := NewDebouncer(time.Millisecond, func(fn func()) { posted <- fn })

	ran := false
	d.Trigger(func() { ran = true })

	select {
	case fn := <-posted:
		assert.False(t, ran, "callback must wait for the scheduler")
		fn()
		assert.True(t, ran)
	case <-time.After(time.Second):
		t.Fatal("scheduler was not called")
	}
}

func TestDebouncerZeroDelayRunsInline(t *testing.T) {
	d := NewDebouncer(0, nil)
	ran := false
	d.Trigger(func() { ran = true })
	assert.True(t, ran)
}

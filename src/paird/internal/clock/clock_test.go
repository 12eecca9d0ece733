package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	assert.NotNil(t, New())
}

func TestSleep(t *testing.T) {
	assert.NotPanics(t, func() {
		clock{}.Sleep(1 * time.Microsecond)
	})
}

func TestSince(t *testing.T) {
	c := New()
	start := c.Now()
	assert.GreaterOrEqual(t, c.Since(start), time.Duration(0))
}

func TestAfterFuncFires(t *testing.T) {
	c := New()
	fired := make(chan struct{})
	timer := c.AfterFunc(time.Millisecond, func() { close(fired) })
	defer timer.Stop()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestAfterFuncStop(t *testing.T) {
	c := New()
	var fired atomic.Bool
	timer := c.AfterFunc(time.Hour, func() { fired.Store(true) })
	assert.True(t, timer.Stop(), "timer should report it was armed")
	assert.False(t, fired.Load())
}

func TestFakeAdvanceFiresInDeadlineOrder(t *testing.T) {
	f := NewFake()
	var order []int
	f.AfterFunc(30*time.Millisecond, func() { order = append(order, 3) })
	f.AfterFunc(10*time.Millisecond, func() { order = append(order, 1) })
	f.AfterFunc(20*time.Millisecond, func() { order = append(order, 2) })

	f.Advance(25 * time.Millisecond)
	assert.Equal(t, []int{1, 2}, order)

	f.Advance(5 * time.Millisecond)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestFakeStopPreventsFire(t *testing.T) {
	f := NewFake()
	fired := false
	timer := f.AfterFunc(10*time.Millisecond, func() { fired = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop should report already disarmed")

	f.Advance(time.Minute)
	assert.False(t, fired)
}

func TestFakeResetReArms(t *testing.T) {
	f := NewFake()
	count := 0
	timer := f.AfterFunc(10*time.Millisecond, func() { count++ })

	f.Advance(15 * time.Millisecond)
	assert.Equal(t, 1, count)

	timer.Reset(10 * time.Millisecond)
	f.Advance(9 * time.Millisecond)
	assert.Equal(t, 1, count, "reset timer should not fire early")
	f.Advance(1 * time.Millisecond)
	assert.Equal(t, 2, count)
}

func TestFakeNestedAfterFunc(t *testing.T) {
	f := NewFake()
	var order []string
	f.AfterFunc(10*time.Millisecond, func() {
		order = append(order, "outer")
		f.AfterFunc(10*time.Millisecond, func() { order = append(order, "inner") })
	})

	f.Advance(30 * time.Millisecond)
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, 30*time.Millisecond, f.Since(NewFake().Now()))
}

package barrier

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReleasesOnlyOnceAllPartiesArrive(t *testing.T) {
	b := New(3)
	var arrived int32
	var wg sync.WaitGroup

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Wait()
			atomic.AddInt32(&arrived, 1)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt32(&arrived), "barrier released before the third party arrived")

	b.Wait()
	wg.Wait()
	assert.EqualValues(t, 2, atomic.LoadInt32(&arrived))
}

func TestStopReleasesPartiesAlreadyWaiting(t *testing.T) {
	b := New(3)
	var wg sync.WaitGroup
	results := make([]bool, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = b.Wait()
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	b.Stop()
	wg.Wait()

	assert.False(t, results[0], "party waiting when Stop fired should get false, not block forever")
	assert.False(t, results[1], "party waiting when Stop fired should get false, not block forever")
}

func TestStopMakesFutureWaitsReturnFalseImmediately(t *testing.T) {
	b := New(2)
	b.Stop()

	done := make(chan bool, 1)
	go func() { done <- b.Wait() }()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Wait blocked after Stop instead of returning immediately")
	}
}

func TestResetsForNextCycle(t *testing.T) {
	b := New(2)
	var wg sync.WaitGroup

	for cycle := 0; cycle < 3; cycle++ {
		wg.Add(2)
		for i := 0; i < 2; i++ {
			go func() {
				defer wg.Done()
				b.Wait()
			}()
		}
		wg.Wait()
	}
}

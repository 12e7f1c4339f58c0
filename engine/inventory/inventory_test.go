package inventory_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/badke/saberrender/common/hashkey"
	"github.com/badke/saberrender/engine/inventory"
	"github.com/badke/saberrender/engine/workerpool"
	"github.com/stretchr/testify/assert"
)

// constLoader publishes a fixed value with no side effects.
type constLoader[T any] struct {
	value T
}

func (constLoader[T]) OnLoadBegin(inventory.InvPtr[T])    {}
func (l constLoader[T]) Load(inventory.InvPtr[T]) T       { return l.value }
func (constLoader[T]) OnLoadComplete(inventory.InvPtr[T]) {}

// countingLoader increments a shared counter exactly once per actual
// Load invocation and publishes the post-increment count.
type countingLoader struct {
	counter *atomic.Int64
}

func (countingLoader) OnLoadBegin(inventory.InvPtr[int64]) {}
func (l countingLoader) Load(inventory.InvPtr[int64]) int64 {
	return l.counter.Add(1)
}
func (countingLoader) OnLoadComplete(inventory.InvPtr[int64]) {}

func newTestInventory(t *testing.T) (*inventory.Inventory, *workerpool.Pool) {
	t.Helper()
	pool := workerpool.New(4, 64)
	t.Cleanup(pool.Stop)
	return inventory.New(pool), pool
}

func TestLoadAndDerefScenario(t *testing.T) {
	inv, _ := newTestInventory(t)

	key := hashkey.New("k")
	ptr := inventory.Get[string](inv, key, constLoader[string]{value: "hello"})
	assert.Equal(t, "hello", ptr.Deref())

	ptr.Release()
	inv.OnEndOfFrame()
	inv.OnEndOfFrame()

	assert.False(t, inventory.Has[string](inv, key))
}

func TestDeduplicationUnderContention(t *testing.T) {
	inv, _ := newTestInventory(t)
	key := hashkey.New("x")

	var counter atomic.Int64
	loader := countingLoader{counter: &counter}

	const n = 8
	var wg sync.WaitGroup
	ptrs := make([]inventory.InvPtr[int64], n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ptrs[i] = inventory.Get[int64](inv, key, loader)
		}(i)
	}
	wg.Wait()

	for _, p := range ptrs {
		assert.EqualValues(t, 1, p.Deref())
	}
	assert.EqualValues(t, 1, counter.Load())
}

func TestPermanentRetentionSurvivesRelease(t *testing.T) {
	inv, _ := newTestInventory(t)
	key := hashkey.New("p")

	ptr := inventory.Get[string](inv, key, constLoader[string]{value: "permanent"}, inventory.WithRetention(inventory.Permanent))
	waitForLoaded[string](t, inv, key)

	ptr.Release()
	for i := 0; i < 5; i++ {
		inv.OnEndOfFrame()
	}

	assert.True(t, inventory.HasLoaded[string](inv, key))
}

func TestDerefBlocksUntilReady(t *testing.T) {
	inv, _ := newTestInventory(t)
	key := hashkey.New("slow")

	release := make(chan struct{})
	loader := blockingLoader{release: release, value: "done"}

	ptr := inventory.Get[string](inv, key, loader)

	done := make(chan string, 1)
	go func() { done <- ptr.Deref() }()

	select {
	case <-done:
		t.Fatal("Deref returned before load completed")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	select {
	case v := <-done:
		assert.Equal(t, "done", v)
	case <-time.After(time.Second):
		t.Fatal("Deref never returned after load completed")
	}
}

type blockingLoader struct {
	release <-chan struct{}
	value   string
}

func (blockingLoader) OnLoadBegin(inventory.InvPtr[string]) {}
func (l blockingLoader) Load(inventory.InvPtr[string]) string {
	<-l.release
	return l.value
}
func (blockingLoader) OnLoadComplete(inventory.InvPtr[string]) {}

func TestDeferredReleaseResurrection(t *testing.T) {
	inv, _ := newTestInventory(t)
	key := hashkey.New("resurrect")

	ptr := inventory.Get[string](inv, key, constLoader[string]{value: "v"})
	waitForLoaded[string](t, inv, key)
	ptr.Release()

	ptr2 := inventory.Get[string](inv, key, nil)
	assert.Equal(t, "v", ptr2.Deref())

	inv.OnEndOfFrame()
	inv.OnEndOfFrame()
	assert.True(t, inventory.Has[string](inv, key), "resurrected entry must survive the sweep that would have destroyed it")
}

func waitForLoaded[T any](t *testing.T, inv *inventory.Inventory, key hashkey.HashKey) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if inventory.HasLoaded[T](inv, key) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("entry %q never reached Ready", key.Key())
}

package frameloop

import "sync"

// Barrier is a reusable N-party rendezvous point: every party calls
// Arrive and blocks until all N have arrived for the current round,
// then all are released together and the barrier resets for the next
// round. sync.WaitGroup is single-use and cannot be reset safely while
// goroutines may still be observing the previous round, so this uses
// the standard generation-counter pattern instead: each round has its
// own generation, and a party only stops waiting once the generation
// it arrived on has advanced.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	count   int
	gen     uint64
}

// NewBarrier creates a Barrier for the given number of parties.
func NewBarrier(parties int) *Barrier {
	b := &Barrier{parties: parties, count: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Arrive blocks until every party for this round has called Arrive,
// then releases all of them together.
func (b *Barrier) Arrive() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.gen
	b.count--
	if b.count == 0 {
		b.count = b.parties
		b.gen++
		b.cond.Broadcast()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
}

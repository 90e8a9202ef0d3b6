package sim

import "github.com/restaurant-sim/restaurant-sim/sim/kernel"

// pool is a capacity-bounded resource with FIFO hand-off: a released unit
// passes directly to the longest-waiting proc. Staff pools and the expo
// gate are pools; capacity is clamped to a minimum of 1 so a run with zero
// configured staff still progresses (labor cost stays zero).
type pool struct {
	k        *kernel.Kernel
	capacity int
	inUse    int
	waiters  []*kernel.Signal
}

func newPool(k *kernel.Kernel, capacity int) *pool {
	return &pool{k: k, capacity: max(1, capacity)}
}

// Acquire takes one unit, suspending p until one is free.
func (r *pool) Acquire(p *kernel.Proc) {
	if r.inUse < r.capacity {
		r.inUse++
		return
	}
	sig := r.k.NewSignal()
	r.waiters = append(r.waiters, sig)
	p.Wait(sig)
}

// Release returns one unit. With waiters queued the unit is handed over
// without touching inUse.
func (r *pool) Release() {
	if len(r.waiters) > 0 {
		sig := r.waiters[0]
		r.waiters = r.waiters[1:]
		sig.Fire()
		return
	}
	r.inUse--
}

// InUse reports the number of units currently held.
func (r *pool) InUse() int {
	return r.inUse
}

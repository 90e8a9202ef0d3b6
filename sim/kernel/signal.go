package kernel

// Signal is a one-shot wakeup primitive. Firing wakes every proc currently
// waiting and is a no-op with no waiters; firings are never buffered. A
// consumer that
// wants to wait repeatedly replaces the spent Signal with a fresh one; the
// engine's dispatchers re-arm their signals after every wake.
type Signal struct {
	k       *Kernel
	fired   bool
	waiters []*Proc
	any     []*anyWait
}

// anyWait joins one proc to several signals; only the first fire wakes it.
type anyWait struct {
	proc  *Proc
	woken bool
}

// NewSignal creates an unfired Signal bound to the kernel's clock.
func (k *Kernel) NewSignal() *Signal {
	return &Signal{k: k}
}

// Fired reports whether the signal has already fired.
func (s *Signal) Fired() bool {
	return s.fired
}

// Fire wakes all current waiters at the current clock, in the order they
// began waiting. Firing an already-fired signal does nothing.
func (s *Signal) Fire() {
	if s.fired {
		return
	}
	s.fired = true
	for _, p := range s.waiters {
		s.k.schedule(p, s.k.now)
	}
	s.waiters = nil
	for _, w := range s.any {
		if !w.woken {
			w.woken = true
			s.k.schedule(w.proc, s.k.now)
		}
	}
	s.any = nil
}

// Wait suspends the proc until s fires. Waiting on an already-fired signal
// returns immediately without suspending.
func (p *Proc) Wait(s *Signal) {
	if s.fired {
		return
	}
	s.waiters = append(s.waiters, p)
	p.park()
}

// WaitAny suspends the proc until the first of the given signals fires.
// If any has already fired it returns immediately. Later fires of the other
// signals do not wake the proc again.
func (p *Proc) WaitAny(sigs ...*Signal) {
	for _, s := range sigs {
		if s.fired {
			return
		}
	}
	w := &anyWait{proc: p}
	for _, s := range sigs {
		s.any = append(s.any, w)
	}
	p.park()
}

// Package kernel implements the virtual-time scheduler underlying the
// restaurant simulation: a monotonic clock, a timer heap, and cooperative
// procs that suspend on timeouts or one-shot signals. Exactly one proc runs
// between suspension points, so all state shared through the kernel is
// mutated race-free, and the full resumption order is deterministic for a
// fixed proc-creation order.
package kernel

import (
	"container/heap"

	"github.com/sirupsen/logrus"
)

// wakeup is a pending resumption of a suspended proc.
type wakeup struct {
	at   float64 // virtual time (minutes)
	seq  int64   // tie-break: earlier scheduling wins
	proc *Proc
}

// timerHeap orders wakeups by (time, seq).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type timerHeap []*wakeup

func (th timerHeap) Len() int { return len(th) }
func (th timerHeap) Less(i, j int) bool {
	if th[i].at != th[j].at {
		return th[i].at < th[j].at
	}
	return th[i].seq < th[j].seq
}
func (th timerHeap) Swap(i, j int) { th[i], th[j] = th[j], th[i] }

func (th *timerHeap) Push(x any) {
	*th = append(*th, x.(*wakeup))
}

func (th *timerHeap) Pop() any {
	old := *th
	n := len(old)
	item := old[n-1]
	*th = old[0 : n-1]
	return item
}

// Kernel holds the virtual clock and the timer heap.
type Kernel struct {
	now    float64
	seq    int64
	timers timerHeap
	stop   chan struct{}
}

// New creates a Kernel with the clock at zero.
func New() *Kernel {
	return &Kernel{
		timers: make(timerHeap, 0),
		stop:   make(chan struct{}),
	}
}

// Now returns the current virtual time in minutes.
func (k *Kernel) Now() float64 {
	return k.now
}

// schedule enqueues a wakeup for p at virtual time at.
func (k *Kernel) schedule(p *Proc, at float64) {
	k.seq++
	heap.Push(&k.timers, &wakeup{at: at, seq: k.seq, proc: p})
}

// Go registers a cooperative proc. The proc is first resumed at the current
// clock, after procs registered before it. fn runs lock-stepped with the
// kernel: it must suspend only through the Proc methods.
func (k *Kernel) Go(name string, fn func(*Proc)) *Proc {
	p := &Proc{
		k:      k,
		name:   name,
		resume: make(chan struct{}),
		parked: make(chan struct{}),
	}
	k.schedule(p, k.now)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if r == errKilled {
					return
				}
				panic(r)
			}
		}()
		p.block() // wait for the kernel to dispatch us the first time
		fn(p)
		p.done = true
		p.parked <- struct{}{}
	}()
	return p
}

// Run advances the clock and dispatches wakeups in (time, seq) order until
// the next wakeup would land at or beyond the horizon. Procs still suspended
// at that point are abandoned: their goroutines are released and none of
// their remaining effects occur.
func (k *Kernel) Run(until float64) {
	for k.timers.Len() > 0 {
		w := heap.Pop(&k.timers).(*wakeup)
		if w.at >= until {
			break
		}
		if w.at > k.now {
			k.now = w.at
		}
		if w.proc.done {
			continue
		}
		logrus.Tracef("[t %09.4f] resume %s", k.now, w.proc.name)
		k.dispatch(w.proc)
	}
	k.now = until
	close(k.stop)
	logrus.Debugf("[t %09.4f] kernel stopped", k.now)
}

// dispatch resumes p and blocks until it parks again or finishes.
func (k *Kernel) dispatch(p *Proc) {
	p.resume <- struct{}{}
	<-p.parked
}

// errKilled aborts a proc goroutine when the kernel shuts down.
var errKilled = new(int)

// Proc is the handle a cooperative task uses to suspend itself.
type Proc struct {
	k      *Kernel
	name   string
	resume chan struct{}
	parked chan struct{}
	done   bool
}

// Kernel returns the kernel this proc runs on.
func (p *Proc) Kernel() *Kernel {
	return p.k
}

// Now returns the current virtual time in minutes.
func (p *Proc) Now() float64 {
	return p.k.now
}

// block waits for the next dispatch, or aborts at kernel shutdown.
func (p *Proc) block() {
	select {
	case <-p.resume:
	case <-p.k.stop:
		panic(errKilled)
	}
}

// park suspends the proc, returning control to the kernel. A wakeup must
// already be registered (timer or signal waiter), or the proc never resumes.
func (p *Proc) park() {
	p.parked <- struct{}{}
	p.block()
}

// Sleep suspends the proc for d virtual minutes. Sleep(0) yields, letting
// other procs ready at the same instant run first.
func (p *Proc) Sleep(d float64) {
	if d < 0 {
		d = 0
	}
	p.k.schedule(p, p.k.now+d)
	p.park()
}

package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_FireWakesAllWaitersInOrder(t *testing.T) {
	k := New()
	sig := k.NewSignal()
	var order []int

	for i := 0; i < 3; i++ {
		i := i
		k.Go("waiter", func(p *Proc) {
			p.Wait(sig)
			order = append(order, i)
		})
	}
	k.Go("firer", func(p *Proc) {
		p.Sleep(2)
		sig.Fire()
	})

	k.Run(10)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestSignal_FireWithNoWaitersIsNotBuffered(t *testing.T) {
	k := New()
	sig := k.NewSignal()
	sig.Fire()
	assert.True(t, sig.Fired())

	// A fired signal lets a later Wait through immediately; re-arming means
	// replacing it with a fresh one.
	woke := false
	k.Go("waiter", func(p *Proc) {
		p.Wait(sig)
		woke = true
	})
	k.Run(1)
	assert.True(t, woke)
}

func TestSignal_SecondFireIsNoop(t *testing.T) {
	k := New()
	sig := k.NewSignal()
	wakes := 0
	k.Go("waiter", func(p *Proc) {
		p.Wait(sig)
		wakes++
	})
	k.Go("firer", func(p *Proc) {
		p.Sleep(1)
		sig.Fire()
		sig.Fire()
	})
	k.Run(10)
	assert.Equal(t, 1, wakes)
}

func TestWaitAny_FirstFireWinsOnlyOnce(t *testing.T) {
	k := New()
	a := k.NewSignal()
	b := k.NewSignal()
	wakes := 0
	k.Go("waiter", func(p *Proc) {
		p.WaitAny(a, b)
		wakes++
		p.Sleep(10) // past the second fire
	})
	k.Go("firer", func(p *Proc) {
		p.Sleep(1)
		a.Fire()
		p.Sleep(1)
		b.Fire() // must not wake the waiter again
	})
	k.Run(20)
	assert.Equal(t, 1, wakes)
}

func TestWaitAny_ReturnsImmediatelyWhenAlreadyFired(t *testing.T) {
	k := New()
	a := k.NewSignal()
	b := k.NewSignal()
	b.Fire()
	var at float64 = -1
	k.Go("waiter", func(p *Proc) {
		p.Sleep(3)
		p.WaitAny(a, b)
		at = p.Now()
	})
	k.Run(10)
	assert.Equal(t, 3.0, at)
}

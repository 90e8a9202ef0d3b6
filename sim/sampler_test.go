package sim

import (
	"math"
	"testing"
)

func TestNormalPositive_MeanMatchesParam(t *testing.T) {
	s := NewSampler(42)
	n := 10000
	sum := 0.0
	for i := 0; i < n; i++ {
		v := s.NormalPositive(2.0, 0.5)
		if v <= 0 {
			t.Fatalf("sample %d: %f is not positive", i, v)
		}
		sum += v
	}
	mean := sum / float64(n)
	if math.Abs(mean-2.0)/2.0 > 0.05 {
		t.Errorf("normal-positive mean = %.3f, want ≈ 2.0 (within 5%%)", mean)
	}
}

func TestNormalPositive_AlwaysPositiveUnderHeavyTruncation(t *testing.T) {
	s := NewSampler(7)
	// Mean near zero forces frequent redraws.
	for i := 0; i < 10000; i++ {
		if v := s.NormalPositive(0.1, 1.0); v <= 0 {
			t.Fatalf("sample %d: %f is not positive", i, v)
		}
	}
}

func TestExp_MeanMatchesParam(t *testing.T) {
	s := NewSampler(42)
	n := 10000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.Exp(3.0)
	}
	mean := sum / float64(n)
	if math.Abs(mean-3.0)/3.0 > 0.05 {
		t.Errorf("exponential mean = %.3f, want ≈ 3.0 (within 5%%)", mean)
	}
}

func TestLogNormal_MedianMatchesExpMu(t *testing.T) {
	s := NewSampler(42)
	n := 10000
	below := 0
	median := math.Exp(1.5)
	for i := 0; i < n; i++ {
		if s.LogNormal(1.5, 0.4) < median {
			below++
		}
	}
	frac := float64(below) / float64(n)
	if math.Abs(frac-0.5) > 0.02 {
		t.Errorf("fraction below exp(mu) = %.3f, want ≈ 0.5", frac)
	}
}

func TestUniform_StaysInRange(t *testing.T) {
	s := NewSampler(42)
	for i := 0; i < 10000; i++ {
		v := s.Uniform(1.0, 1.5)
		if v < 1.0 || v >= 1.5 {
			t.Fatalf("sample %d: %f outside [1.0, 1.5)", i, v)
		}
	}
}

func TestWeightedChoice_ProportionsMatchWeights(t *testing.T) {
	s := NewSampler(42)
	keys := []string{"a", "b", "c"}
	weights := []float64{1, 2, 7}
	counts := map[string]int{}
	n := 10000
	for i := 0; i < n; i++ {
		counts[s.WeightedChoice(keys, weights)]++
	}
	for i, k := range keys {
		want := weights[i] / 10.0
		got := float64(counts[k]) / float64(n)
		if math.Abs(got-want) > 0.02 {
			t.Errorf("key %s: frequency %.3f, want ≈ %.3f", k, got, want)
		}
	}
}

func TestPartySize_RangeAndMix(t *testing.T) {
	s := NewSampler(42)
	counts := map[int]int{}
	n := 20000
	for i := 0; i < n; i++ {
		size := s.PartySize()
		if size < 1 || size > 10 {
			t.Fatalf("party size %d outside [1, 10]", size)
		}
		counts[size]++
	}
	// Two-tops dominate the mix at 35%.
	frac2 := float64(counts[2]) / float64(n)
	if math.Abs(frac2-0.35) > 0.02 {
		t.Errorf("size-2 frequency = %.3f, want ≈ 0.35", frac2)
	}
}

func TestSampler_SameSeedSameStream(t *testing.T) {
	a := NewSampler(99)
	b := NewSampler(99)
	for i := 0; i < 1000; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("draw %d diverged between identically seeded samplers", i)
		}
	}
}

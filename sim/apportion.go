package sim

import "sort"

// ApportionCooks distributes totalCooks across stations proportionally to
// their declared capacity weights (largest-remainder method). Every station
// receives at least one cook. Leftover cooks after flooring go to the
// stations with the largest fractional remainders, computed against the
// original proportional shares; ties break by descending station name. A
// zero total
// weight falls back to an even split with the remainder going to the first
// stations in declaration order.
func ApportionCooks(totalCooks int, names []string, weights map[string]int) map[string]int {
	totalWeight := 0
	for _, name := range names {
		totalWeight += weights[name]
	}

	distribution := make(map[string]int, len(names))

	if totalWeight == 0 {
		per := totalCooks / len(names)
		remainder := totalCooks % len(names)
		for i, name := range names {
			distribution[name] = max(1, per)
			if i < remainder {
				distribution[name]++
			}
		}
		return distribution
	}

	type frac struct {
		name string
		part float64
	}

	assigned := 0
	fracs := make([]frac, 0, len(names))
	for _, name := range names {
		share := float64(totalCooks) * float64(weights[name]) / float64(totalWeight)
		n := max(1, int(share))
		distribution[name] = n
		assigned += n
		fracs = append(fracs, frac{name: name, part: share - float64(int(share))})
	}

	remainder := totalCooks - assigned
	if remainder > 0 {
		sort.Slice(fracs, func(i, j int) bool {
			if fracs[i].part != fracs[j].part {
				return fracs[i].part > fracs[j].part
			}
			return fracs[i].name > fracs[j].name
		})
		for i := 0; i < remainder && i < len(fracs); i++ {
			distribution[fracs[i].name]++
		}
	}
	return distribution
}

// AssignZones partitions tableIDs round-robin into numZones zones in
// creation order. Returns zone -> table ids; every table lands in exactly
// one zone.
func AssignZones(tableIDs []int, numZones int) map[int][]int {
	if numZones < 1 {
		numZones = 1
	}
	zones := make(map[int][]int, numZones)
	for z := 0; z < numZones; z++ {
		zones[z] = []int{}
	}
	for i, id := range tableIDs {
		z := i % numZones
		zones[z] = append(zones[z], id)
	}
	return zones
}

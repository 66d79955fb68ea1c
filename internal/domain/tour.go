package domain

// Tour is an ordered visiting sequence over a set of stops.
// The first element is the fixed start point.
type Tour []Stop

// DistanceKm sums the haversine distance between consecutive stops.
// Tours with fewer than two stops have distance 0.
func (t Tour) DistanceKm() float64 {
	if len(t) < 2 {
		return 0
	}

	total := 0.0
	for i := 0; i < len(t)-1; i++ {
		total += t[i].Coords().DistanceKm(t[i+1].Coords())
	}
	return total
}

// IsPermutationOf reports whether t holds exactly the same multiset of
// stops as stops.
func (t Tour) IsPermutationOf(stops []Stop) bool {
	if len(t) != len(stops) {
		return false
	}

	counts := make(map[Stop]int, len(stops))
	for _, s := range stops {
		counts[s]++
	}
	for _, s := range t {
		if counts[s] == 0 {
			return false
		}
		counts[s]--
	}
	return true
}

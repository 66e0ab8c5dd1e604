package season

import "github.com/okian/calcio/internal/domain/model"

// roundRobin builds a division's fixture list with the circle method:
// one squad stays fixed while the rest rotate, producing n-1 rounds for
// an even field (a bye slot is inserted for odd fields). With rounds > 1
// the whole cycle repeats with home and away swapped each cycle.
func roundRobin(tier int, codes []string, rounds int) [][]model.Fixture {
	n := len(codes)
	if n < 2 {
		return nil
	}

	ring := make([]string, n)
	copy(ring, codes)
	if n%2 == 1 {
		ring = append(ring, "") // bye
		n++
	}

	perCycle := n - 1
	var out [][]model.Fixture
	for cycle := 0; cycle < rounds; cycle++ {
		work := make([]string, n)
		copy(work, ring)
		for r := 0; r < perCycle; r++ {
			var md []model.Fixture
			for i := 0; i < n/2; i++ {
				home, away := work[i], work[n-1-i]
				if home == "" || away == "" {
					continue
				}
				// Alternate venues by round so no squad strings
				// home fixtures together; odd cycles flip them.
				if r%2 == 1 {
					home, away = away, home
				}
				if cycle%2 == 1 {
					home, away = away, home
				}
				md = append(md, model.Fixture{
					Matchday: cycle*perCycle + r,
					Index:    len(md),
					Tier:     tier,
					Home:     home,
					Away:     away,
				})
			}
			out = append(out, md)
			// rotate all but the first element
			last := work[n-1]
			copy(work[2:], work[1:n-1])
			work[1] = last
		}
	}
	return out
}

// mergeSchedules interleaves per-division schedules into one global list
// of matchdays. Divisions with fewer rounds simply stop contributing.
func mergeSchedules(perDivision [][][]model.Fixture) [][]model.Fixture {
	depth := 0
	for _, s := range perDivision {
		if len(s) > depth {
			depth = len(s)
		}
	}
	out := make([][]model.Fixture, depth)
	for md := 0; md < depth; md++ {
		var all []model.Fixture
		for _, s := range perDivision {
			if md < len(s) {
				all = append(all, s[md]...)
			}
		}
		for i := range all {
			all[i].Matchday = md
			all[i].Index = i
		}
		out[md] = all
	}
	return out
}

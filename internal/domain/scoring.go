package domain

// Points awarded per player by the size of their matching group
const (
	PairPoints  = 3
	CrowdPoints = 1
)

// ScoreRound maps player index to the points earned this round.
//
// Players are grouped by exact submission text. A lone word earns nothing,
// an exact pair earns PairPoints each and any larger group earns CrowdPoints
// each. Empty and skipped submissions never join a group. Every index in
// players is present in the result.
func ScoreRound(players []*Player) map[int]int {
	groups := make(map[string][]int)
	deltas := make(map[int]int, len(players))

	for i, p := range players {
		deltas[i] = 0
		if !p.HasRealSubmission() {
			continue
		}
		groups[p.Submission] = append(groups[p.Submission], i)
	}

	for _, indices := range groups {
		points := pointsForGroup(len(indices))
		for _, i := range indices {
			deltas[i] += points
		}
	}

	return deltas
}

func pointsForGroup(size int) int {
	switch {
	case size == 2:
		return PairPoints
	case size > 2:
		return CrowdPoints
	default:
		return 0
	}
}

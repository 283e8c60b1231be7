package brackets

import (
	"fmt"
	"math/rand"
	"time"
)

// Pair is one unordered round-robin fixture between two teams.
type Pair struct {
	Team1ID int
	Team2ID int
}

// shuffleAttempts bounds the fixture-ordering heuristic. Each attempt
// is a full shuffle; the best ordering seen is kept.
const shuffleAttempts = 24

type RoundRobinGenerator struct {
	rnd *rand.Rand
}

func NewRoundRobinGenerator() *RoundRobinGenerator {
	return &RoundRobinGenerator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRoundRobinGenerator fixes the shuffle source, which makes
// fixture order reproducible in tests.
func NewSeededRoundRobinGenerator(seed int64) *RoundRobinGenerator {
	return &RoundRobinGenerator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate produces one fixture per unordered team pair, C(n,2) in
// total, ordered so that adjacent fixtures sharing a team are kept to a
// minimum. Zero adjacent repeats is preferred but not always feasible
// (for four teams every ordering has some), so the result of a bounded
// number of shuffles is kept rather than searching exhaustively.
func (g *RoundRobinGenerator) Generate(teamIDs []int) ([]Pair, error) {
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("round robin requires at least 2 teams, got %d", len(teamIDs))
	}

	pairs := make([]Pair, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			pairs = append(pairs, Pair{Team1ID: teamIDs[i], Team2ID: teamIDs[j]})
		}
	}

	best := make([]Pair, len(pairs))
	copy(best, pairs)
	bestScore := AdjacentConflicts(best)

	candidate := make([]Pair, len(pairs))
	copy(candidate, pairs)
	for attempt := 0; attempt < shuffleAttempts && bestScore > 0; attempt++ {
		g.rnd.Shuffle(len(candidate), func(i, j int) {
			candidate[i], candidate[j] = candidate[j], candidate[i]
		})
		if score := AdjacentConflicts(candidate); score < bestScore {
			copy(best, candidate)
			bestScore = score
		}
	}

	return best, nil
}

// AdjacentConflicts counts adjacent fixture pairs that share a team,
// i.e. back-to-back matches for the same side.
func AdjacentConflicts(pairs []Pair) int {
	conflicts := 0
	for i := 1; i < len(pairs); i++ {
		if pairs[i].shares(pairs[i-1]) {
			conflicts++
		}
	}
	return conflicts
}

func (p Pair) shares(other Pair) bool {
	return p.Team1ID == other.Team1ID || p.Team1ID == other.Team2ID ||
		p.Team2ID == other.Team1ID || p.Team2ID == other.Team2ID
}

package cipher

import "sort"

// Candidate is one brute-force decode attempt, ranked by score.
type Candidate struct {
	Shift   int
	Decoded string
	Score   int
}

// Solution is the result of a brute-force decode.
type Solution struct {
	Best Candidate
	// Top holds the highest-scoring candidates, best first, at most five.
	Top []Candidate
}

// topCandidates is the number of ranked alternatives returned for review.
const topCandidates = 5

// AutoDecode tries every shift in [1,25] against ciphertext and ranks the
// decodes by English-likeness. All 25 shifts are evaluated; the score is
// not monotonic in shift, so there is no early exit. Ties go to the lower
// shift value.
func AutoDecode(ciphertext string) Solution {
	candidates := make([]Candidate, 0, 25)
	for shift := 1; shift <= 25; shift++ {
		decoded := Decode(ciphertext, shift)
		candidates = append(candidates, Candidate{
			Shift:   shift,
			Decoded: decoded,
			Score:   ScoreEnglishLikeness(decoded),
		})
	}

	// Stable keeps the lower shift first among equal scores because the
	// input is already ordered by shift.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	top := candidates
	if len(top) > topCandidates {
		top = top[:topCandidates]
	}

	return Solution{Best: candidates[0], Top: top}
}

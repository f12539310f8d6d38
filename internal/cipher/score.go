package cipher

import "strings"

// frequent holds the high-frequency English letters plus space. The
// weights below are empirical carry-overs; they rank correct decodes of
// natural language reliably but are not a principled frequency model.
const frequent = "etaoinshrdlu "

// ScoreEnglishLikeness rates how much text resembles lower-cased English
// prose. Characters from the high-frequency set score 2, other lowercase
// letters and spaces score 1, and anything else costs 2. The input is
// lower-cased before scanning, so case does not affect the score.
func ScoreEnglishLikeness(text string) int {
	score := 0
	for _, c := range strings.ToLower(text) {
		switch {
		case strings.ContainsRune(frequent, c):
			score += 2
		case (c >= 'a' && c <= 'z') || c == ' ':
			score++
		default:
			score -= 2
		}
	}
	return score
}

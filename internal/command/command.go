// Package command implements the local-command side channel: slash
// commands typed into the chat input that resolve synchronously without
// touching the model or the conversation history.
//
// The command surface is a closed, ordered list of (match, run) pairs
// rather than open-ended pattern matching; adding a form means adding an
// entry and a test.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tardislabs/tardis/internal/cipher"
)

// spec is one entry in the command table.
type spec struct {
	match func(input string) (rest string, ok bool)
	run   func(rest string) string
}

// table is evaluated in order; the first matching entry wins.
var table = []spec{
	{match: matchPrefix("/rot13"), run: runROT13},
	{match: matchPrefix("/caesar"), run: runCaesar},
}

// Dispatch resolves input against the command table. It returns the
// command output and true when input is a local command, or "" and false
// when the input should go to the model instead.
func Dispatch(input string) (string, bool) {
	input = strings.TrimSpace(input)
	for _, s := range table {
		if rest, ok := s.match(input); ok {
			return s.run(rest), true
		}
	}
	return "", false
}

// matchPrefix matches a command word followed by end-of-input or a space,
// so "/rot13x" is ordinary chat text.
func matchPrefix(word string) func(string) (string, bool) {
	return func(input string) (string, bool) {
		if input == word {
			return "", true
		}
		if strings.HasPrefix(input, word+" ") {
			return strings.TrimSpace(input[len(word)+1:]), true
		}
		return "", false
	}
}

func runROT13(rest string) string {
	if rest == "" {
		return "Usage: /rot13 <text>"
	}
	return "ROT13: " + cipher.ROT13(rest)
}

const caesarUsage = "Usage: /caesar <shift> <text> to decode with a known shift, or /caesar <text> to brute-force all shifts."

func runCaesar(rest string) string {
	if rest == "" {
		return caesarUsage
	}

	// A leading integer selects a fixed-shift decode; anything else is a
	// brute-force request.
	first, remainder, _ := strings.Cut(rest, " ")
	if shift, err := strconv.Atoi(first); err == nil {
		remainder = strings.TrimSpace(remainder)
		if remainder == "" {
			return caesarUsage
		}
		return fmt.Sprintf("Caesar (shift %d): %s", shift, cipher.Decode(remainder, shift))
	}

	return formatAutoDecode(cipher.AutoDecode(rest))
}

func formatAutoDecode(sol cipher.Solution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Caesar auto-decode (best shift %d): %s\n", sol.Best.Shift, sol.Best.Decoded)
	b.WriteString("Top candidates:\n")
	for _, c := range sol.Top {
		fmt.Fprintf(&b, "  shift %2d (score %d): %s\n", c.Shift, c.Score, c.Decoded)
	}
	return strings.TrimRight(b.String(), "\n")
}

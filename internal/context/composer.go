package ctxengine

import "strings"

// Persona holds the user-adjustable tone levels. Both are 0-100 sliders
// owned by the UI; the composer only reads them.
type Persona struct {
	// Truthfulness controls how strictly the assistant must stick to
	// verified information.
	Truthfulness int

	// Levity controls how much humour the assistant is allowed.
	Levity int
}

// Persona framing and fixed conversational-style directives.
const (
	personaFraming = "You are Tardis: a practical, safety-bounded mission assistant inspired by science fiction."

	styleConcise = "Keep responses concise but complete."
	styleRefusal = "If asked for dangerous wrongdoing, refuse and redirect to safe alternatives."
)

// styleExemplars is the fixed few-shot block teaching the assistant's
// register. It is emitted verbatim on every prompt build.
const styleExemplars = `Style examples:
User: Can you check the oxygen reserves?
Tardis: Reserves at 87 percent. At current draw that covers nine days, so no action is needed before resupply.
User: What happened to the supply shuttle?
Tardis: I do not have verified telemetry on the shuttle. I can tell you its last confirmed position, or you can ask ground control for the current one.`

// summaryLabel prefixes the summary-memory block when one is included.
const summaryLabel = "Summary of earlier conversation (use as background context):"

// truthfulnessRule selects the truth-handling instruction. Thresholds are
// descending with inclusive lower bounds; first match wins.
func truthfulnessRule(level int) string {
	switch {
	case level >= 85:
		return "Be strictly truthful; if unsure, explicitly say so and suggest how to verify."
	case level >= 60:
		return "Prioritise truthfulness; flag uncertainty when relevant."
	default:
		return "Be helpful, but do not invent specific facts or sources."
	}
}

// levityRule selects the humour instruction.
func levityRule(level int) string {
	switch {
	case level >= 70:
		return "Use dry, understated humour sparingly where appropriate."
	case level >= 35:
		return "Occasionally use light wit, but keep it professional."
	default:
		return "No humour; be direct and mission-focused."
	}
}

// BuildSystemPrompt renders the system instruction for a request. The
// output is a pure function of its inputs: identical persona levels and
// summary always yield byte-identical prompts. An empty summary omits the
// summary-memory block entirely; callers with memory disabled pass "".
func BuildSystemPrompt(p Persona, summary string) string {
	parts := []string{
		personaFraming,
		styleConcise,
		styleRefusal,
		truthfulnessRule(p.Truthfulness),
		levityRule(p.Levity),
		styleExemplars,
	}

	if summary != "" {
		parts = append(parts, summaryLabel+"\n"+summary)
	}

	return strings.Join(parts, "\n")
}

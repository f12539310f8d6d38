package ctxengine_test

import (
	"strings"
	"testing"

	ctxengine "github.com/tardislabs/tardis/internal/context"
)

func TestBuildSystemPrompt_Tiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		persona      ctxengine.Persona
		wantClause   string
		rejectClause string
	}{
		{
			name:       "strict truth at 85",
			persona:    ctxengine.Persona{Truthfulness: 85},
			wantClause: "Be strictly truthful",
		},
		{
			name:       "strict truth above 85",
			persona:    ctxengine.Persona{Truthfulness: 100},
			wantClause: "Be strictly truthful",
		},
		{
			name:         "prioritise truth at 60",
			persona:      ctxengine.Persona{Truthfulness: 60},
			wantClause:   "Prioritise truthfulness",
			rejectClause: "Be strictly truthful",
		},
		{
			name:       "no fabrication below 60",
			persona:    ctxengine.Persona{Truthfulness: 59},
			wantClause: "do not invent specific facts",
		},
		{
			name:       "dry humour at 70",
			persona:    ctxengine.Persona{Levity: 70},
			wantClause: "dry, understated humour",
		},
		{
			name:         "light wit at 35",
			persona:      ctxengine.Persona{Levity: 35},
			wantClause:   "light wit",
			rejectClause: "dry, understated",
		},
		{
			name:       "no humour below 35",
			persona:    ctxengine.Persona{Levity: 34},
			wantClause: "No humour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ctxengine.BuildSystemPrompt(tt.persona, "")
			if !strings.Contains(got, tt.wantClause) {
				t.Errorf("prompt missing clause %q:\n%s", tt.wantClause, got)
			}
			if tt.rejectClause != "" && strings.Contains(got, tt.rejectClause) {
				t.Errorf("prompt contains excluded clause %q", tt.rejectClause)
			}
		})
	}
}

func TestBuildSystemPrompt_HighTruthLowLevity(t *testing.T) {
	t.Parallel()

	got := ctxengine.BuildSystemPrompt(ctxengine.Persona{Truthfulness: 90, Levity: 10}, "")

	if !strings.Contains(got, "Be strictly truthful") {
		t.Errorf("prompt missing strict-truth clause")
	}
	if !strings.Contains(got, "No humour") {
		t.Errorf("prompt missing no-humour clause")
	}
	if strings.Contains(got, "Summary of earlier conversation") {
		t.Errorf("prompt contains summary block with no summary provided")
	}
}

func TestBuildSystemPrompt_SummaryBlock(t *testing.T) {
	t.Parallel()

	without := ctxengine.BuildSystemPrompt(ctxengine.Persona{Truthfulness: 70, Levity: 50}, "")
	with := ctxengine.BuildSystemPrompt(ctxengine.Persona{Truthfulness: 70, Levity: 50}, "user is planning a lunar survey")

	if strings.Contains(without, "Summary of earlier conversation") {
		t.Errorf("empty summary must omit the memory block, not emit a blank section")
	}
	if !strings.Contains(with, "Summary of earlier conversation") {
		t.Errorf("non-empty summary must emit the labelled memory block")
	}
	if !strings.Contains(with, "user is planning a lunar survey") {
		t.Errorf("summary text missing from prompt")
	}
	if !strings.HasPrefix(with, without) {
		t.Errorf("summary block must append after the fixed sections")
	}
}

func TestBuildSystemPrompt_Deterministic(t *testing.T) {
	t.Parallel()

	p := ctxengine.Persona{Truthfulness: 72, Levity: 41}
	first := ctxengine.BuildSystemPrompt(p, "remembers the user's callsign")
	for i := 0; i < 5; i++ {
		if got := ctxengine.BuildSystemPrompt(p, "remembers the user's callsign"); got != first {
			t.Fatalf("BuildSystemPrompt is not deterministic")
		}
	}
}

func TestBuildSystemPrompt_FixedSections(t *testing.T) {
	t.Parallel()

	got := ctxengine.BuildSystemPrompt(ctxengine.Persona{}, "")
	for _, clause := range []string{
		"You are Tardis",
		"Keep responses concise but complete.",
		"refuse and redirect to safe alternatives",
		"Style examples:",
	} {
		if !strings.Contains(got, clause) {
			t.Errorf("prompt missing fixed section %q", clause)
		}
	}
}

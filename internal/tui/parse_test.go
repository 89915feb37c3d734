package tui

import (
	"testing"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswer(t *testing.T) {
	choice := models.Question{
		Type:    models.MultipleChoice,
		Options: []string{"Public", "Internal", "Confidential"},
	}
	matching := models.Question{
		Type:          models.Matching,
		Options:       []string{"GDPR", "CCPA"},
		CorrectAnswer: models.MappingAnswer(map[string]string{"GDPR": "European Union", "CCPA": "California"}),
	}
	ranking := models.Question{
		Type:    models.Ranking,
		Options: []string{"contain", "identify", "notify"},
	}

	tests := []struct {
		name     string
		question models.Question
		input    string
		want     models.Answer
	}{
		{name: "choice by number", question: choice, input: "3", want: models.ScalarAnswer("Confidential")},
		{name: "choice by text", question: choice, input: " internal ", want: models.ScalarAnswer("Internal")},
		{name: "true short", question: models.Question{Type: models.TrueFalse}, input: "Y", want: models.ScalarAnswer("true")},
		{name: "false word", question: models.Question{Type: models.TrueFalse}, input: "False", want: models.ScalarAnswer("false")},
		{
			name:     "matching by number and text",
			question: matching,
			input:    "1=European Union | ccpa=California",
			want:     models.MappingAnswer(map[string]string{"GDPR": "European Union", "CCPA": "California"}),
		},
		{name: "ranking by numbers", question: ranking, input: "2,1,3", want: models.SequenceAnswer("identify", "contain", "notify")},
		{name: "ranking by spaces", question: ranking, input: "2 1 3", want: models.SequenceAnswer("identify", "contain", "notify")},
		{name: "ranking by text", question: ranking, input: "identify|contain|notify", want: models.SequenceAnswer("identify", "contain", "notify")},
		{name: "scenario free text", question: models.Question{Type: models.Scenario}, input: "report it", want: models.ScalarAnswer("report it")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnswer(tt.question, tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestParseAnswer_Errors(t *testing.T) {
	choice := models.Question{Type: models.MultipleChoice, Options: []string{"A", "B"}}
	ranking := models.Question{Type: models.Ranking, Options: []string{"a", "b"}}
	matching := models.Question{Type: models.Matching, Options: []string{"GDPR"}}

	tests := []struct {
		name     string
		question models.Question
		input    string
		contains string
	}{
		{name: "empty", question: choice, input: "   ", contains: "type an answer"},
		{name: "option out of range", question: choice, input: "3", contains: "choose 1 to 2"},
		{name: "unknown option", question: choice, input: "C", contains: "not one of the options"},
		{name: "not boolean", question: models.Question{Type: models.TrueFalse}, input: "maybe", contains: "true or false"},
		{name: "repeated rank", question: ranking, input: "1,1", contains: "ranked more than once"},
		{name: "bad pair", question: matching, input: "GDPR", contains: "left=right"},
		{name: "same left twice", question: matching, input: "1=EU|GDPR=EU", contains: "matched more than once"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnswer(tt.question, tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestMatchTargets(t *testing.T) {
	q := models.Question{
		Type:          models.Matching,
		CorrectAnswer: models.MappingAnswer(map[string]string{"a": "x", "b": "w", "c": "x"}),
	}
	assert.Equal(t, []string{"w", "x"}, matchTargets(q))
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAnswer_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Answer
	}{
		{"string scalar", `"Report to compliance"`, ScalarAnswer("Report to compliance")},
		{"boolean scalar", `true`, ScalarAnswer("true")},
		{"numeric scalar", `2`, ScalarAnswer("2")},
		{"mapping", `{"GDPR":"EU","HIPAA":"US"}`, MappingAnswer(map[string]string{"GDPR": "EU", "HIPAA": "US"})},
		{"sequence", `["identify","contain","report"]`, SequenceAnswer("identify", "contain", "report")},
		{"null", `null`, Answer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Answer
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.True(t, tt.want.Equal(got), "got %+v", got)
			assert.Equal(t, tt.want.Kind, got.Kind)
		})
	}
}

func TestAnswer_UnmarshalJSON_RejectsNested(t *testing.T) {
	var a Answer
	err := json.Unmarshal([]byte(`[["a"],"b"]`), &a)
	assert.Error(t, err)
}

func TestAnswer_UnmarshalYAML(t *testing.T) {
	doc := `
scalar: false
mapping:
  phishing: report
  tailgating: challenge
sequence:
  - stop
  - assess
  - escalate
`
	var got struct {
		Scalar   Answer `yaml:"scalar"`
		Mapping  Answer `yaml:"mapping"`
		Sequence Answer `yaml:"sequence"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(doc), &got))

	assert.Equal(t, ScalarAnswer("false"), got.Scalar)
	assert.Equal(t, AnswerMapping, got.Mapping.Kind)
	assert.Equal(t, "challenge", got.Mapping.Mapping["tailgating"])
	assert.Equal(t, []string{"stop", "assess", "escalate"}, got.Sequence.Sequence)
}

func TestAnswer_Equal(t *testing.T) {
	ranking := SequenceAnswer("a", "b", "c")

	assert.True(t, ranking.Equal(SequenceAnswer("a", "b", "c")))
	assert.False(t, ranking.Equal(SequenceAnswer("a", "c", "b")))
	assert.False(t, ranking.Equal(ScalarAnswer("a")))

	matching := MappingAnswer(map[string]string{"x": "1", "y": "2"})
	assert.True(t, matching.Equal(MappingAnswer(map[string]string{"y": "2", "x": "1"})))
	assert.False(t, matching.Equal(MappingAnswer(map[string]string{"x": "2", "y": "1"})))
	assert.False(t, matching.Equal(MappingAnswer(map[string]string{"x": "1"})))

	assert.True(t, Answer{}.Equal(Answer{}))
	assert.False(t, Answer{}.Equal(ScalarAnswer("")))
	unknown := Answer{Kind: AnswerKind("table"), Scalar: "x"}
	assert.False(t, unknown.Equal(unknown))
}

func TestExpectedAnswerKind(t *testing.T) {
	assert.Equal(t, AnswerMapping, ExpectedAnswerKind(Matching))
	assert.Equal(t, AnswerSequence, ExpectedAnswerKind(Ranking))
	for _, qt := range []QuestionType{MultipleChoice, TrueFalse, Scenario, Simulation, CaseStudy} {
		assert.Equal(t, AnswerScalar, ExpectedAnswerKind(qt), qt)
	}
}

func TestUserLevel_Excludes(t *testing.T) {
	assert.True(t, LevelBeginner.Excludes(DifficultyHard))
	assert.False(t, LevelBeginner.Excludes(DifficultyEasy))
	assert.True(t, LevelAdvanced.Excludes(DifficultyEasy))
	assert.False(t, LevelAdvanced.Excludes(DifficultyHard))
	for _, d := range []DifficultyLevel{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		assert.False(t, LevelIntermediate.Excludes(d))
	}
}

func TestQuestionRecord_RoundTripKeepsAnswerShape(t *testing.T) {
	limit := 90
	q := Question{
		ID:               "q-rank",
		Type:             Ranking,
		Difficulty:       DifficultyMedium,
		ModuleID:         "incident-response",
		Concept:          "escalation",
		Prompt:           "Order the steps",
		Options:          []string{"contain", "identify", "report"},
		CorrectAnswer:    SequenceAnswer("identify", "contain", "report"),
		TimeLimitSeconds: &limit,
		Points:           15,
		Hints:            []string{"Start by knowing what happened"},
	}

	rec, err := NewQuestionRecord(&q, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Position)

	back, err := rec.ToQuestion()
	require.NoError(t, err)
	assert.True(t, q.CorrectAnswer.Equal(back.CorrectAnswer))
	assert.Equal(t, q.Options, back.Options)
	assert.Equal(t, q.Hints, back.Hints)
	assert.Equal(t, 90, *back.TimeLimitSeconds)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sheetHeader = "id,module_id,type,difficulty,concept,prompt,options,correct_answer,explanation,time_limit_seconds,points,hints\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidatePath_YAMLBank(t *testing.T) {
	var out bytes.Buffer

	err := validatePath(&out, validator.New(), filepath.Join("..", "..", "internal", "bank", "testdata"))

	require.NoError(t, err)
	assert.Contains(t, out.String(), "module data-privacy, 5 questions")
}

func TestValidatePath_InvalidYAML(t *testing.T) {
	path := writeFile(t, "broken.yaml", `module_id: ops
questions:
  - id: q1
    type: ranking
    difficulty: easy
    concept: steps
    prompt: Order them
    options: [a, b]
    correct_answer: [a]
    points: 5
`)
	var out bytes.Buffer

	err := validatePath(&out, validator.New(), path)

	require.Error(t, err)
	assert.NotContains(t, out.String(), "✓")
}

func TestValidatePath_Spreadsheet(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeFile(t, "bank.csv", sheetHeader+
			"q1,data-privacy,true-false,easy,consent,Consent is optional.,,false,,,5,\n")
		var out bytes.Buffer

		require.NoError(t, validatePath(&out, validator.New(), path))
		assert.Contains(t, out.String(), "1 questions")
	})

	t.Run("bad rows are listed", func(t *testing.T) {
		path := writeFile(t, "bank.csv", sheetHeader+
			"q1,data-privacy,true-false,easy,consent,Consent is optional.,,false,,,5,\n"+
			"q2,data-privacy,true-false,easy,consent,Another,,false,,,zero,\n")
		var out bytes.Buffer

		err := validatePath(&out, validator.New(), path)

		require.EqualError(t, err, "1 of 2 rows invalid")
		assert.Contains(t, out.String(), "row 3, points")
	})

	t.Run("missing header", func(t *testing.T) {
		path := writeFile(t, "bank.csv", "id,prompt\nq1,Hello\n")

		err := validatePath(&bytes.Buffer{}, validator.New(), path)

		assert.ErrorContains(t, err, "missing required column")
	})
}

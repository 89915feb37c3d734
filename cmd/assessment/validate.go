package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/SAP-F-2025/adaptive-assessment/internal/bank"
	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/services"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"github.com/spf13/cobra"
)

var errInvalidBank = errors.New("question bank has errors")

var validateCmd = &cobra.Command{
	Use:   "validate PATH...",
	Short: "Check YAML banks and question spreadsheets without storing them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := validator.New()
		out := cmd.OutOrStdout()

		failed := false
		for _, path := range args {
			if err := validatePath(out, v, path); err != nil {
				fmt.Fprintf(out, "✗ %s: %v\n", path, err)
				failed = true
			}
		}
		if failed {
			return errInvalidBank
		}
		return nil
	},
}

func validatePath(out io.Writer, v *validator.Validator, path string) error {
	if isSpreadsheet(path) {
		questions, rowErrors, total, err := parseSpreadsheet(v, path)
		if err != nil {
			return err
		}
		printRowErrors(out, rowErrors)
		if len(rowErrors) > 0 {
			return fmt.Errorf("%d of %d rows invalid", countRows(rowErrors), total)
		}
		fmt.Fprintf(out, "✓ %s: %d questions\n", path, len(questions))
		return nil
	}

	files, err := bank.Load(path)
	if err != nil {
		return err
	}
	var errs []error
	for _, f := range files {
		if err := f.Validate(v); err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(out, "✓ %s: module %s, %d questions\n", f.Path, f.ModuleID, len(f.Questions))
	}
	return errors.Join(errs...)
}

func isSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

func parseSpreadsheet(v *validator.Validator, path string) ([]*models.Question, []models.ImportValidationError, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, err
	}
	defer f.Close()

	rows, err := services.ReadSheetRows(f, path)
	if err != nil {
		return nil, nil, 0, err
	}
	return services.ParseQuestionRows(v, rows)
}

func printRowErrors(out io.Writer, rowErrors []models.ImportValidationError) {
	for _, e := range rowErrors {
		fmt.Fprintf(out, "  row %d, %s: %s\n", e.Row, e.Column, e.Message)
	}
}

// countRows counts distinct rows among the errors.
func countRows(rowErrors []models.ImportValidationError) int {
	rows := make(map[int]struct{}, len(rowErrors))
	for _, e := range rowErrors {
		rows[e.Row] = struct{}{}
	}
	return len(rows)
}

package main

import (
	"fmt"
	"os"

	"github.com/SAP-F-2025/adaptive-assessment/internal/bank"
	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/services"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import PATH...",
	Short: "Load YAML banks or question spreadsheets into the database",
	Long: `Stores questions in the database. Spreadsheets (.csv, .xlsx) are imported
row by row and invalid rows are reported; YAML banks are stored only when the
whole bank is valid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, _, err := newLogger(cfg, os.Stderr, "")
		if err != nil {
			return err
		}

		repo, closeRepo, err := openRepository(cfg, logger)
		if err != nil {
			return err
		}
		defer closeRepo()

		v := validator.New()
		serviceManager := services.NewServiceManager(repo, logger, v)

		for _, path := range args {
			if isSpreadsheet(path) {
				result, err := importSpreadsheet(cmd, serviceManager.ImportExport(), path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				printRowErrors(out, result.Errors)
				fmt.Fprintf(out, "%s: %s, %d of %d rows imported\n", path, result.Status, result.SuccessCount, result.TotalRows)
				if result.Status == models.ImportValidationFailed {
					return errInvalidBank
				}
				continue
			}

			files, err := bank.Load(path)
			if err != nil {
				return err
			}
			for _, f := range files {
				if err := serviceManager.QuestionBank().CreateQuestions(ctx, f.QuestionPointers()); err != nil {
					return fmt.Errorf("%s: %w", f.Path, err)
				}
				fmt.Fprintf(out, "%s: module %s, %d questions imported\n", f.Path, f.ModuleID, len(f.Questions))
			}
		}
		return nil
	},
}

func importSpreadsheet(cmd *cobra.Command, svc services.ImportExportService, path string) (*services.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return svc.ImportQuestionsFromFile(cmd.Context(), f, path)
}

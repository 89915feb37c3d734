package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/adaptive-assessment/internal/bank"
	"github.com/SAP-F-2025/adaptive-assessment/internal/config"
	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories/postgres"
	"github.com/SAP-F-2025/adaptive-assessment/internal/services"
	"github.com/SAP-F-2025/adaptive-assessment/internal/tui"
	"github.com/SAP-F-2025/adaptive-assessment/internal/utils"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"github.com/SAP-F-2025/adaptive-assessment/pkg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Take an assessment in the terminal",
	Long: `Runs one assessment session interactively.

Questions come from YAML bank files (--bank) or, without --bank, from the
database. The result can be written to a spreadsheet (--report), recorded in
the database (--store) and published as events (--events).`,
	Example: `  assessment take --bank banks/ --module data-privacy --level beginner
  assessment take --module data-privacy --type certification --store --events`,
	RunE: runTake,
}

func init() {
	takeCmd.Flags().String("bank", "", "YAML bank file or directory")
	takeCmd.Flags().String("module", "", "Module to assess")
	takeCmd.Flags().String("level", string(models.LevelIntermediate), "Learner level: beginner, intermediate or advanced")
	takeCmd.Flags().String("type", string(models.AssessmentPractice), "Assessment type: practice, quiz or certification")
	takeCmd.Flags().String("report", "", "Write the result to this .xlsx file")
	takeCmd.Flags().Bool("store", false, "Record the result in the database")
	takeCmd.Flags().Bool("events", false, "Publish session events using the EVENTS_* settings")
	takeCmd.Flags().String("log-file", "", "Write logs to this file instead of discarding them")
	_ = takeCmd.MarkFlagRequired("module")
}

func runTake(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs only go to a file.
	logPath, _ := cmd.Flags().GetString("log-file")
	var logger *slog.Logger
	closeLog := func() error { return nil }
	if logPath == "" {
		logger = utils.NewDiscardLogger()
	} else if logger, closeLog, err = newLogger(cfg, nil, logPath); err != nil {
		return err
	}
	defer closeLog()

	bankPath, _ := cmd.Flags().GetString("bank")
	store, _ := cmd.Flags().GetBool("store")
	v := validator.New()

	var repo repositories.Repository
	if bankPath == "" || store {
		var closeRepo func() error
		repo, closeRepo, err = openRepository(cfg, logger)
		if err != nil {
			return err
		}
		defer closeRepo()
	}

	var source services.QuestionSource
	if bankPath != "" {
		files, err := bank.Load(bankPath)
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := f.Validate(v); err != nil {
				return err
			}
		}
		source = bank.NewSource(files...)
	} else {
		source = services.NewQuestionBankService(repo, logger, v)
	}

	bridge := tui.NewBridge()
	sinks := services.MultiSink{bridge}
	progress := services.ProgressObservers{bridge}

	reportPath, _ := cmd.Flags().GetString("report")
	if reportPath != "" {
		sinks = append(sinks, services.NewReportFileSink(reportPath))
	}
	if store {
		sinks = append(sinks, services.NewResultStoreSink(services.NewResultService(repo, logger, v)))
	}
	if withEvents, _ := cmd.Flags().GetBool("events"); withEvents {
		publisher, err := cfg.Events.CreateEventPublisher(logger)
		if err != nil {
			return err
		}
		defer publisher.Close()
		eventSink := services.NewEventSink(publisher, logger)
		sinks = append(sinks, eventSink)
		progress = append(progress, eventSink)
	}

	engine := services.NewAssessmentEngine(source, sinks, logger, v,
		services.WithTickInterval(cfg.TickInterval),
		services.WithProgressObserver(progress),
		services.WithTickObserver(bridge),
	)

	module, _ := cmd.Flags().GetString("module")
	level, _ := cmd.Flags().GetString("level")
	assessmentType, _ := cmd.Flags().GetString("type")

	app := tui.NewApp(engine, services.StartSessionRequest{
		ModuleID:       module,
		UserLevel:      models.UserLevel(level),
		AssessmentType: models.AssessmentType(assessmentType),
	})
	program := tea.NewProgram(app, tea.WithContext(cmd.Context()))
	bridge.Attach(program)

	_, runErr := program.Run()
	if session := app.Session(); session != nil {
		engine.AbandonSession(cmd.Context(), session)
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal UI: %w", runErr)
	}
	if err := app.Err(); err != nil {
		return err
	}

	if app.Result() != nil && reportPath != "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Report written to", reportPath)
	}
	return nil
}

// openRepository connects to PostgreSQL with the optional Redis cache.
func openRepository(cfg *config.Config, logger *slog.Logger) (repositories.Repository, func() error, error) {
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	questionCache, closeCache, err := pkg.NewQuestionCache(cfg, logger)
	if err != nil {
		return nil, nil, errors.Join(err, pkg.CloseDatabase(db))
	}
	closeAll := func() error {
		return errors.Join(closeCache(), pkg.CloseDatabase(db))
	}
	return postgres.NewRepository(db, questionCache, cfg.QuestionCacheTTL), closeAll, nil
}

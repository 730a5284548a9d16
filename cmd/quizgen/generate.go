package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-ai/internal/adapter/quizgen"
	"quiz-ai/internal/database"
	"quiz-ai/internal/domain"
	"quiz-ai/internal/dto"
	"quiz-ai/internal/logger"
	"quiz-ai/internal/repository"
	"quiz-ai/internal/service"
)

const cliPacing = time.Second

var generateOpts struct {
	topic      string
	difficulty int
	count      int
	save       bool
	pacing     time.Duration
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a batch of quizzes and print it as JSON",
	Long: `Generate runs the batch pipeline for one topic. Failed positions are
reported in "errors" and never abort the run. With --save every generated
quiz is stored in the configured database.`,
	Args: cobra.NoArgs,
	RunE: runGenerateCmd,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateOpts.topic, "topic", "t", "", "quiz topic (required)")
	f.IntVarP(&generateOpts.difficulty, "difficulty", "d", service.DefaultGenerateDifficulty, "difficulty 1-5")
	f.IntVarP(&generateOpts.count, "count", "n", service.DefaultBatchCount, "number of quizzes 1-10")
	f.BoolVar(&generateOpts.save, "save", false, "store generated quizzes in the database")
	f.DurationVar(&generateOpts.pacing, "pacing", cliPacing, "wait between batch positions")
	_ = generateCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(generateCmd)
}

func runGenerateCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	generator, err := quizgen.NewGeneratorFromConfig(cfg.LLM, logger.Get().Named("quizgen"))
	if err != nil {
		return err
	}

	genCfg := service.GenerationConfigFrom(cfg)
	genCfg.Pacing = generateOpts.pacing
	svc := service.NewGenerationService(generator, genCfg, logger.Get().Named("generation"))

	var sink service.ItemSink
	if generateOpts.save {
		db, err := database.Connect(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.RunMigrations(ctx, db); err != nil {
			return err
		}
		sink = saveSink(repository.NewQuizDatabaseAdapter(db))
	}

	req := domain.GenerationRequest{
		Topic:      generateOpts.topic,
		Difficulty: generateOpts.difficulty,
		Count:      generateOpts.count,
	}
	return runGenerate(ctx, cmd.OutOrStdout(), svc, req, sink)
}

// batchOutput is the JSON document printed by generate.
type batchOutput struct {
	Quizzes []domain.GeneratedQuizItem `json:"quizzes"`
	Errors  []dto.BatchItemError       `json:"errors"`
	Summary dto.BatchSummary           `json:"summary"`
}

func runGenerate(ctx context.Context, w io.Writer, svc service.GenerationService, req domain.GenerationRequest, sink service.ItemSink) error {
	var (
		result *domain.BatchResult
		err    error
	)
	if sink != nil {
		result, err = svc.GenerateBatchInto(ctx, req, sink)
	} else {
		result, err = svc.GenerateBatch(ctx, req)
	}
	if err != nil {
		return err
	}

	out := batchOutput{
		Quizzes: result.Items,
		Errors:  make([]dto.BatchItemError, 0, len(result.Failures)),
		Summary: dto.BatchSummary{
			Requested: result.Requested(),
			Generated: len(result.Items),
			Failed:    len(result.Failures),
		},
	}
	if out.Quizzes == nil {
		out.Quizzes = []domain.GeneratedQuizItem{}
	}
	for _, f := range result.Failures {
		out.Errors = append(out.Errors, dto.BatchItemError{Index: f.Index, Error: f.Err.Error()})
	}

	logger.Get().Info("Batch finished",
		zap.String("topic", req.Topic),
		zap.Int("generated", out.Summary.Generated),
		zap.Int("failed", out.Summary.Failed))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func saveSink(quizzes domain.QuizRepository) service.ItemSink {
	return func(ctx context.Context, index int, item *domain.GeneratedQuizItem) error {
		quiz := domain.NewQuizFromGenerated(item)
		if err := quizzes.SaveQuiz(ctx, quiz); err != nil {
			return fmt.Errorf("save quiz: %w", err)
		}
		logger.Get().Info("Quiz saved", zap.Int("index", index), zap.String("id", quiz.ID))
		return nil
	}
}

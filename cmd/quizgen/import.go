package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-ai/internal/database"
	"quiz-ai/internal/domain"
	"quiz-ai/internal/logger"
	"quiz-ai/internal/repository"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load quizzes from a JSON file into the database",
	Long: `Import reads a JSON array of quizzes in the same shape generate prints
("quizzes" entries) and stores each valid one. Invalid entries are skipped
and counted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("open seed file: %w", err)
		}
		defer f.Close()

		ctx := cmd.Context()
		db, err := database.Connect(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.RunMigrations(ctx, db); err != nil {
			return err
		}

		saved, skipped, err := importQuizzes(ctx, f, repository.NewQuizDatabaseAdapter(db))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d quizzes, skipped %d\n", saved, skipped)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "JSON file with a quiz array (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}

func importQuizzes(ctx context.Context, r io.Reader, quizzes domain.QuizRepository) (saved, skipped int, err error) {
	var items []domain.GeneratedQuizItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return 0, 0, fmt.Errorf("decode seed file: %w", err)
	}

	log := logger.Get()
	for i := range items {
		item := &items[i]
		if item.GeneratedAt.IsZero() {
			item.GeneratedAt = time.Now().UTC()
		}
		if item.Difficulty == 0 {
			item.Difficulty = domain.MinDifficulty
		}
		quiz := domain.NewQuizFromGenerated(item)
		if err := quiz.Validate(); err != nil {
			log.Warn("Skipping invalid quiz", zap.Int("position", i+1), zap.Error(err))
			skipped++
			continue
		}
		if err := quizzes.SaveQuiz(ctx, quiz); err != nil {
			return saved, skipped, fmt.Errorf("save quiz %d: %w", i+1, err)
		}
		saved++
	}
	log.Info("Seed import finished", zap.Int("saved", saved), zap.Int("skipped", skipped))
	return saved, skipped, nil
}

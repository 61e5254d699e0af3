package commands

import (
	"context"
	"encoding/json"
	"os"

	"quizarena/internal/models"
	"quizarena/internal/observability"
	"quizarena/internal/services"
	contextutils "quizarena/internal/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// seedQuestion is the on-disk format for question seed files. The plaintext
// answer is fingerprinted at load time and never reaches the database.
type seedQuestion struct {
	Prompt     string   `json:"prompt"`
	Choices    []string `json:"choices"`
	Answer     string   `json:"answer"`
	Difficulty int      `json:"difficulty"`
	Tags       []string `json:"tags"`
}

// QuestionCommands returns the question catalog management commands
func QuestionCommands(questionService services.QuestionServiceInterface, logger *observability.Logger) *cobra.Command {
	qCmd := &cobra.Command{
		Use:   "questions",
		Short: "Question catalog management commands",
		Long: `Question catalog management commands for the quiz backend.

Available commands:
  seed      - Load questions from a JSON seed file (or the built-in set)
  counts    - Show question counts per difficulty`,
	}

	qCmd.AddCommand(seedCmd(questionService, logger))
	qCmd.AddCommand(countsCmd(questionService, logger))

	return qCmd
}

func seedCmd(questionService services.QuestionServiceInterface, logger *observability.Logger) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load questions into the catalog",
		Long: `Load questions into the catalog from a JSON seed file.

The seed file is an array of objects with prompt, choices, answer,
difficulty (1-10) and optional tags. Answers are stored only as SHA-256
fingerprints. Without --file the built-in starter set is loaded.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()

			seeds := defaultSeedQuestions
			if file != "" {
				raw, err := os.ReadFile(file)
				if err != nil {
					return contextutils.WrapErrorf(err, "failed to read seed file %s", file)
				}
				seeds = nil
				if err := json.Unmarshal(raw, &seeds); err != nil {
					return contextutils.WrapError(err, "failed to parse seed file")
				}
			}

			loaded := 0
			for _, seed := range seeds {
				question := &models.Question{
					ID:                uuid.New().String(),
					Difficulty:        seed.Difficulty,
					Prompt:            seed.Prompt,
					Choices:           seed.Choices,
					AnswerFingerprint: services.HashAnswer(seed.Answer),
					Tags:              seed.Tags,
				}
				if err := questionService.SaveQuestion(ctx, question); err != nil {
					logger.Error(ctx, "Failed to save question", err, map[string]interface{}{
						"prompt": seed.Prompt,
					})
					return err
				}
				loaded++
			}

			logger.Info(ctx, "Question catalog seeded", map[string]interface{}{"questions": loaded})
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to a JSON seed file")

	return cmd
}

func countsCmd(questionService services.QuestionServiceInterface, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show question counts per difficulty",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()

			counts, err := questionService.CountByDifficulty(ctx)
			if err != nil {
				return err
			}

			logger.Info(ctx, "Question counts per difficulty", map[string]interface{}{"counts": counts})
			return nil
		},
	}
}

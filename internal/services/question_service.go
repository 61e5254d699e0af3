package services

import (
	"context"
	"database/sql"
	"errors"

	"quizarena/internal/config"
	"quizarena/internal/models"
	"quizarena/internal/observability"
	contextutils "quizarena/internal/utils"

	"github.com/lib/pq"
)

// QuestionServiceInterface defines the interface for question catalog access.
// This allows for easier mocking in tests.
type QuestionServiceInterface interface {
	GetQuestionByID(ctx context.Context, id string) (*models.Question, error)
	GetQuestionsByDifficulties(ctx context.Context, difficulties []int, limit int) ([]models.Question, error)
	SaveQuestion(ctx context.Context, question *models.Question) error
	CountByDifficulty(ctx context.Context) (map[int]int, error)
	DB() *sql.DB
}

// QuestionService provides read access to the question catalog. The catalog is
// effectively static at runtime; per-difficulty pools are cached.
type QuestionService struct {
	db     *sql.DB
	cache  QuizCacheInterface
	logger *observability.Logger
	cfg    *config.Config
}

// NewQuestionService creates a new question service.
func NewQuestionService(db *sql.DB, cache QuizCacheInterface, cfg *config.Config, logger *observability.Logger) *QuestionService {
	return &QuestionService{db: db, cache: cache, cfg: cfg, logger: logger}
}

// DB returns the underlying database handle.
func (s *QuestionService) DB() *sql.DB {
	return s.db
}

const questionSelectFields = `id, difficulty, prompt, choices, answer_fingerprint, tags, created_at`

func scanQuestion(scan func(dest ...interface{}) error) (*models.Question, error) {
	var q models.Question
	var choices, tags pq.StringArray
	err := scan(&q.ID, &q.Difficulty, &q.Prompt, &choices, &q.AnswerFingerprint, &tags, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	q.Choices = []string(choices)
	q.Tags = []string(tags)
	return &q, nil
}

// GetQuestionByID returns the question with the given ID, including its answer
// fingerprint. Callers serving questions to users must strip the fingerprint.
func (s *QuestionService) GetQuestionByID(ctx context.Context, id string) (result0 *models.Question, err error) {
	ctx, span := observability.TraceQuestionFunction(ctx, "get_question_by_id",
		observability.AttributeQuestionID(id),
	)
	defer observability.FinishSpan(span, &err)

	row := s.db.QueryRowContext(ctx, `SELECT `+questionSelectFields+` FROM questions WHERE id = $1`, id)
	question, err := scanQuestion(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contextutils.ErrQuestionNotFound
		}
		return nil, contextutils.WrapError(err, "failed to load question")
	}
	return question, nil
}

// GetQuestionsByDifficulties returns up to limit questions whose difficulty is
// in the given set. The per-difficulty pools go through the cache; the union
// is assembled from them so a difficulty shift only refetches one level. The
// levels are interleaved so every difficulty in the set stays represented
// after truncation.
func (s *QuestionService) GetQuestionsByDifficulties(ctx context.Context, difficulties []int, limit int) (result0 []models.Question, err error) {
	ctx, span := observability.TraceQuestionFunction(ctx, "get_questions_by_difficulties",
		observability.AttributeLimit(limit),
	)
	defer observability.FinishSpan(span, &err)

	pools := make([][]models.Question, 0, len(difficulties))
	for _, difficulty := range difficulties {
		questions, err := s.questionPool(ctx, difficulty, limit)
		if err != nil {
			return nil, err
		}
		pools = append(pools, questions)
	}

	var pool []models.Question
	for len(pool) < limit {
		took := false
		for i, p := range pools {
			if len(p) == 0 {
				continue
			}
			pool = append(pool, p[0])
			pools[i] = p[1:]
			took = true
			if len(pool) == limit {
				break
			}
		}
		if !took {
			break
		}
	}
	return pool, nil
}

func (s *QuestionService) questionPool(ctx context.Context, difficulty, limit int) ([]models.Question, error) {
	if cached, ok := s.cache.GetQuestionPool(ctx, difficulty); ok {
		return cached, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+questionSelectFields+`
		FROM questions
		WHERE difficulty = $1
		ORDER BY created_at
		LIMIT $2
	`, difficulty, limit)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to query question pool")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, contextutils.WrapError(err, "failed to scan question")
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, contextutils.WrapError(err, "failed to iterate questions")
	}

	s.cache.SetQuestionPool(ctx, difficulty, questions)
	return questions, nil
}

// SaveQuestion inserts a question into the catalog. Used by the seeding tool.
func (s *QuestionService) SaveQuestion(ctx context.Context, question *models.Question) (err error) {
	ctx, span := observability.TraceQuestionFunction(ctx, "save_question",
		observability.AttributeQuestionID(question.ID),
		observability.AttributeDifficulty(question.Difficulty),
	)
	defer observability.FinishSpan(span, &err)

	if question.Difficulty < models.MinDifficulty || question.Difficulty > models.MaxDifficulty {
		return contextutils.ErrorWithContextf("question difficulty %d out of range", question.Difficulty)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO questions (id, difficulty, prompt, choices, answer_fingerprint, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			difficulty = $2, prompt = $3, choices = $4, answer_fingerprint = $5, tags = $6
	`, question.ID, question.Difficulty, question.Prompt,
		pq.Array(question.Choices), question.AnswerFingerprint, pq.Array(question.Tags))
	if err != nil {
		return contextutils.WrapError(err, "failed to save question")
	}
	return nil
}

// CountByDifficulty returns the number of catalog questions per difficulty.
func (s *QuestionService) CountByDifficulty(ctx context.Context) (result0 map[int]int, err error) {
	ctx, span := observability.TraceQuestionFunction(ctx, "count_by_difficulty")
	defer observability.FinishSpan(span, &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT difficulty, COUNT(*) FROM questions GROUP BY difficulty ORDER BY difficulty
	`)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to count questions")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	counts := make(map[int]int)
	for rows.Next() {
		var difficulty, count int
		if err := rows.Scan(&difficulty, &count); err != nil {
			return nil, contextutils.WrapError(err, "failed to scan question count")
		}
		counts[difficulty] = count
	}
	if err := rows.Err(); err != nil {
		return nil, contextutils.WrapError(err, "failed to iterate question counts")
	}
	return counts, nil
}

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"testbot_backend/internal/model"
	"testbot_backend/internal/util"
	"testbot_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// Интерфейсы хранилищ объявлены на стороне потребителя, конкретные
// GORM-реализации живут в internal/repository.

type SessionStore interface {
	Create(s *model.TestSession, questions []model.SessionQuestion) error
	FindByID(sessionID string) (*model.TestSession, error)
	FindByIDAndUser(sessionID string, telegramID int64) (*model.TestSession, error)
	Questions(sessionID string) ([]model.SessionQuestion, error)
	Finalize(sessionID string, finishedAt time.Time, result *model.Result) (bool, error)
}

type AnswerStore interface {
	Upsert(a *model.Answer) error
	BySession(sessionID string) ([]model.Answer, error)
}

type QuestionSource interface {
	Load(ctx context.Context, specialization string) ([]model.Question, error)
}

type TestService struct {
	Sessions SessionStore
	Answers  AnswerStore
	Bank     QuestionSource

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTestService принимает источник случайности явно: боевой код передаёт
// rand.New(rand.NewSource(time.Now().UnixNano())), тесты — фиксированное зерно.
func NewTestService(sessions SessionStore, answers AnswerStore, bank QuestionSource, rnd *rand.Rand) *TestService {
	return &TestService{Sessions: sessions, Answers: answers, Bank: bank, rnd: rnd}
}

type StartTestRequest struct {
	TelegramID     int64  `json:"telegram_id" binding:"required"`
	FullName       string `json:"full_name" binding:"required"`
	Position       string `json:"position"`
	Department     string `json:"department"`
	Specialization string `json:"specialization" binding:"required"`
	Difficulty     string `json:"difficulty" binding:"required"`
}

type QuestionView struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type StartTestResponse struct {
	SessionID   string         `json:"session_id"`
	TimeMinutes int            `json:"time_minutes"`
	Questions   []QuestionView `json:"questions"`
}

// StartTest создаёт сессию: валидация справочников, случайный отбор
// вопросов и фиксация выданного набора за сессией. Правильные ответы
// наружу не отдаются — они остаются на сервере до завершения теста.
func (s *TestService) StartTest(ctx context.Context, req StartTestRequest) (*StartTestResponse, error) {
	if _, ok := model.SpecializationName(req.Specialization); !ok {
		return nil, util.ErrInvalidSpecialization
	}
	difficulty, ok := model.DifficultyByID(req.Difficulty)
	if !ok {
		return nil, util.ErrInvalidDifficulty
	}

	questions, err := s.selectQuestions(ctx, req.Specialization, difficulty.Questions)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	now := time.Now()
	sessionID := generateSessionID(req.TelegramID, now)

	session := &model.TestSession{
		SessionID:      sessionID,
		TelegramID:     req.TelegramID,
		FullName:       req.FullName,
		Position:       req.Position,
		Department:     req.Department,
		Specialization: req.Specialization,
		Difficulty:     req.Difficulty,
		StartedAt:      now,
		Status:         model.SessionStatusActive,
	}

	persisted := make([]model.SessionQuestion, 0, len(questions))
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return nil, err
		}
		persisted = append(persisted, model.SessionQuestion{
			SessionID:      sessionID,
			QuestionID:     q.ID,
			Question:       q.Question,
			Options:        options,
			CorrectAnswers: util.JoinIndexList(q.CorrectAnswers),
		})
		views = append(views, QuestionView{ID: q.ID, Question: q.Question, Options: q.Options})
	}

	if err := s.Sessions.Create(session, persisted); err != nil {
		return nil, err
	}

	monitoring.TestsStarted.Inc()

	return &StartTestResponse{
		SessionID:   sessionID,
		TimeMinutes: difficulty.TimeMinutes,
		Questions:   views,
	}, nil
}

// selectQuestions: перемешивание полного банка и выдача первых count
// записей с порядковыми id 0..k-1. Банк меньше запрошенного — не ошибка,
// выдаётся всё что есть.
func (s *TestService) selectQuestions(ctx context.Context, specialization string, count int) ([]model.Question, error) {
	bank, err := s.Bank.Load(ctx, specialization)
	if err != nil {
		return nil, err
	}
	if len(bank) == 0 {
		return nil, nil
	}

	shuffled := make([]model.Question, len(bank))
	copy(shuffled, bank)

	// rand.Rand не потокобезопасен
	s.mu.Lock()
	s.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.mu.Unlock()

	if count > len(shuffled) {
		count = len(shuffled)
	}
	selected := shuffled[:count]
	for i := range selected {
		selected[i].ID = i
	}
	return selected, nil
}

type SubmitAnswerRequest struct {
	TelegramID      int64  `json:"telegram_id" binding:"required"`
	SessionID       string `json:"session_id" binding:"required"`
	QuestionID      int    `json:"question_id"`
	SelectedAnswers []int  `json:"selected_answers"`
}

// SubmitAnswer сохраняет ответ без проверки правильности. Повторный ответ
// на тот же вопрос перезаписывает предыдущий; пустой выбор тоже сохраняется.
func (s *TestService) SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) error {
	session, err := s.Sessions.FindByID(req.SessionID)
	if err != nil {
		if isRecordNotFound(err) {
			return util.ErrSessionNotFound
		}
		return err
	}
	if session.Status != model.SessionStatusActive {
		return util.ErrSessionNotActive
	}

	return s.Answers.Upsert(&model.Answer{
		SessionID:       req.SessionID,
		QuestionID:      req.QuestionID,
		SelectedAnswers: util.JoinIndexList(req.SelectedAnswers),
		AnsweredAt:      time.Now(),
	})
}

type FinishTestRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	SessionID  string `json:"session_id" binding:"required"`
}

type TestResult struct {
	Correct        int     `json:"correct"`
	Total          int     `json:"total"`
	Percentage     float64 `json:"percentage"`
	Grade          string  `json:"grade"`
	TimeSpent      int     `json:"time_spent"`
	FullName       string  `json:"full_name"`
	Position       string  `json:"position"`
	Department     string  `json:"department"`
	Specialization string  `json:"specialization"`
}

// FinishTest завершает сессию и подсчитывает результат. Проверка идёт по
// набору вопросов, зафиксированному при старте: вопрос без ответа — это
// несовпадение (пустое множество против непустого), итог считается от
// числа выданных вопросов, а не от числа полученных ответов.
func (s *TestService) FinishTest(ctx context.Context, req FinishTestRequest) (*TestResult, error) {
	session, err := s.Sessions.FindByIDAndUser(req.SessionID, req.TelegramID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.Status != model.SessionStatusActive {
		// Повторный Finish по завершённой сессии неотличим от
		// неизвестной: активной сессии с таким id больше нет.
		return nil, util.ErrSessionNotFound
	}

	questions, err := s.Sessions.Questions(req.SessionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.Answers.BySession(req.SessionID)
	if err != nil {
		return nil, err
	}

	correct, total, err := grade(questions, answers)
	if err != nil {
		return nil, err
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(correct) / float64(total) * 100
	}
	gradeLabel := model.GradeFor(percentage)

	now := time.Now()
	timeSpent := int(now.Sub(session.StartedAt).Minutes())
	if timeSpent < 0 {
		timeSpent = 0
	}

	result := &model.Result{
		SessionID:      req.SessionID,
		TelegramID:     req.TelegramID,
		Specialization: session.Specialization,
		Difficulty:     session.Difficulty,
		CorrectAnswers: correct,
		TotalQuestions: total,
		Percentage:     percentage,
		Grade:          gradeLabel,
		TimeSpent:      timeSpent,
	}

	finished, err := s.Sessions.Finalize(req.SessionID, now, result)
	if err != nil {
		return nil, err
	}
	if !finished {
		// Гонку выиграл параллельный Finish
		return nil, util.ErrSessionNotFound
	}

	monitoring.TestsFinished.Inc()

	return &TestResult{
		Correct:        correct,
		Total:          total,
		Percentage:     Round1(percentage),
		Grade:          gradeLabel,
		TimeSpent:      timeSpent,
		FullName:       session.FullName,
		Position:       session.Position,
		Department:     session.Department,
		Specialization: model.SpecializationLabel(session.Specialization),
	}, nil
}

type QuestionReview struct {
	QuestionID     int      `json:"question_id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	UserAnswers    []int    `json:"user_answers"`
	CorrectAnswers []int    `json:"correct_answers"`
	IsCorrect      bool     `json:"is_correct"`
}

// GetResultDetail — повопросный разбор завершённой сессии.
func (s *TestService) GetResultDetail(ctx context.Context, sessionID string, telegramID int64) ([]QuestionReview, error) {
	session, err := s.Sessions.FindByIDAndUser(sessionID, telegramID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.Status != model.SessionStatusFinished {
		return nil, util.ErrTestNotFinished
	}

	questions, err := s.Sessions.Questions(sessionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.Answers.BySession(sessionID)
	if err != nil {
		return nil, err
	}

	answered, err := answerSets(answers)
	if err != nil {
		return nil, err
	}

	reviews := make([]QuestionReview, 0, len(questions))
	for _, q := range questions {
		var options []string
		if err := json.Unmarshal(q.Options, &options); err != nil {
			return nil, fmt.Errorf("session %s question %d: %w", sessionID, q.QuestionID, err)
		}
		correctSet, err := util.ParseIndexList(q.CorrectAnswers)
		if err != nil {
			return nil, err
		}
		userSet := answered[q.QuestionID]
		if userSet == nil {
			userSet = []int{}
		}
		reviews = append(reviews, QuestionReview{
			QuestionID:     q.QuestionID,
			Question:       q.Question,
			Options:        options,
			UserAnswers:    userSet,
			CorrectAnswers: correctSet,
			IsCorrect:      util.EqualIndexSets(userSet, correctSet),
		})
	}
	return reviews, nil
}

// grade сверяет сохранённые ответы с зафиксированным набором вопросов.
// Засчитывается только точное совпадение множеств индексов.
func grade(questions []model.SessionQuestion, answers []model.Answer) (correct, total int, err error) {
	answered, err := answerSets(answers)
	if err != nil {
		return 0, 0, err
	}

	total = len(questions)
	for _, q := range questions {
		correctSet, err := util.ParseIndexList(q.CorrectAnswers)
		if err != nil {
			return 0, 0, err
		}
		if util.EqualIndexSets(answered[q.QuestionID], correctSet) {
			correct++
		}
	}
	return correct, total, nil
}

func answerSets(answers []model.Answer) (map[int][]int, error) {
	out := make(map[int][]int, len(answers))
	for _, a := range answers {
		set, err := util.ParseIndexList(a.SelectedAnswers)
		if err != nil {
			return nil, err
		}
		out[a.QuestionID] = set
	}
	return out, nil
}

// generateSessionID — усечённый SHA-256 от (telegram_id, момент старта).
// Коллизии не проверяются, вероятность считается пренебрежимой.
func generateSessionID(telegramID int64, now time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d%s", telegramID, now.Format(time.RFC3339Nano))))
	return hex.EncodeToString(sum[:])[:16]
}

// Round1 округляет до одного знака после запятой (для выдачи наружу,
// в БД процент хранится с полной точностью).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

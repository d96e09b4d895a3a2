package service

import (
	"context"
	"sync"
	"time"

	"testbot_backend/internal/model"

	"gorm.io/gorm"
)

// In-memory хранилища для тестов сервисного слоя. Семантика повторяет
// GORM-реализации из internal/repository, включая условный перевод
// статуса в Finalize.

type fakeSessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*model.TestSession
	questions map[string][]model.SessionQuestion
	results   []model.Result
	stats     map[int64]*model.UserStats
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions:  map[string]*model.TestSession{},
		questions: map[string][]model.SessionQuestion{},
		stats:     map[int64]*model.UserStats{},
	}
}

func (s *fakeSessionStore) Create(sess *model.TestSession, questions []model.SessionQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.SessionID] = &cp
	s.questions[sess.SessionID] = append([]model.SessionQuestion(nil), questions...)
	return nil
}

func (s *fakeSessionStore) FindByID(sessionID string) (*model.TestSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *fakeSessionStore) FindByIDAndUser(sessionID string, telegramID int64) (*model.TestSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.TelegramID != telegramID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *fakeSessionStore) Questions(sessionID string) ([]model.SessionQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.SessionQuestion(nil), s.questions[sessionID]...), nil
}

func (s *fakeSessionStore) Finalize(sessionID string, finishedAt time.Time, result *model.Result) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.Status != model.SessionStatusActive {
		return false, nil
	}
	sess.Status = model.SessionStatusFinished
	sess.FinishedAt = &finishedAt

	cp := *result
	cp.CreatedAt = finishedAt
	s.results = append(s.results, cp)

	st, ok := s.stats[result.TelegramID]
	if !ok {
		st = &model.UserStats{TelegramID: result.TelegramID}
		s.stats[result.TelegramID] = st
	}
	st.TotalTests++
	st.LastActivity = finishedAt
	return true, nil
}

type fakeAnswerStore struct {
	mu      sync.Mutex
	answers map[string]map[int]model.Answer
}

func newFakeAnswerStore() *fakeAnswerStore {
	return &fakeAnswerStore{answers: map[string]map[int]model.Answer{}}
}

func (s *fakeAnswerStore) Upsert(a *model.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byQuestion, ok := s.answers[a.SessionID]
	if !ok {
		byQuestion = map[int]model.Answer{}
		s.answers[a.SessionID] = byQuestion
	}
	byQuestion[a.QuestionID] = *a
	return nil
}

func (s *fakeAnswerStore) BySession(sessionID string) ([]model.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Answer
	for _, a := range s.answers[sessionID] {
		out = append(out, a)
	}
	return out, nil
}

type fakeBank struct {
	mu    sync.Mutex
	banks map[string][]model.Question
}

func newFakeBank() *fakeBank {
	return &fakeBank{banks: map[string][]model.Question{}}
}

func (b *fakeBank) Load(ctx context.Context, specialization string) ([]model.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Question(nil), b.banks[specialization]...), nil
}

func (b *fakeBank) set(specialization string, qs []model.Question) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.banks[specialization] = qs
}

type fakeResultStore struct {
	sessions *fakeSessionStore
}

func (s *fakeResultStore) ByUser(telegramID int64) ([]model.Result, error) {
	s.sessions.mu.Lock()
	defer s.sessions.mu.Unlock()
	var out []model.Result
	for _, r := range s.sessions.results {
		if r.TelegramID == telegramID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeResultStore) Recent(telegramID int64, limit int) ([]model.Result, error) {
	all, err := s.ByUser(telegramID)
	if err != nil {
		return nil, err
	}
	// как в SQL: created_at desc, затем limit
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

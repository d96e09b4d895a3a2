package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"testbot_backend/internal/model"
	"testbot_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHarness(seed int64) (*TestService, *fakeSessionStore, *fakeAnswerStore, *fakeBank) {
	sessions := newFakeSessionStore()
	answers := newFakeAnswerStore()
	bank := newFakeBank()
	svc := NewTestService(sessions, answers, bank, rand.New(rand.NewSource(seed)))
	return svc, sessions, answers, bank
}

// makeBank строит банк из n вопросов с четырьмя вариантами,
// правильный ответ i-го вопроса — {i % 4}.
func makeBank(n int) []model.Question {
	qs := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, model.Question{
			Question:       fmt.Sprintf("Вопрос %d", i),
			Options:        []string{"А", "Б", "В", "Г"},
			CorrectAnswers: []int{i % 4},
		})
	}
	return qs
}

func startSession(t *testing.T, svc *TestService, specialization, difficulty string) *StartTestResponse {
	t.Helper()
	resp, err := svc.StartTest(context.Background(), StartTestRequest{
		TelegramID:     100,
		FullName:       "Иванов Иван",
		Position:       "Судебный пристав",
		Department:     "Отдел №1",
		Specialization: specialization,
		Difficulty:     difficulty,
	})
	require.NoError(t, err)
	return resp
}

// correctSets возвращает зафиксированную за сессией карту правильных ответов.
func correctSets(t *testing.T, sessions *fakeSessionStore, sessionID string) map[int][]int {
	t.Helper()
	qs, err := sessions.Questions(sessionID)
	require.NoError(t, err)
	out := make(map[int][]int, len(qs))
	for _, q := range qs {
		set, err := util.ParseIndexList(q.CorrectAnswers)
		require.NoError(t, err)
		out[q.QuestionID] = set
	}
	return out
}

func TestStartTest_InvalidCatalog(t *testing.T) {
	svc, _, _, bank := newHarness(1)
	bank.set("kadry", makeBank(40))

	_, err := svc.StartTest(context.Background(), StartTestRequest{
		TelegramID: 1, FullName: "x", Specialization: "unknown", Difficulty: "базовый",
	})
	assert.ErrorIs(t, err, util.ErrInvalidSpecialization)

	_, err = svc.StartTest(context.Background(), StartTestRequest{
		TelegramID: 1, FullName: "x", Specialization: "kadry", Difficulty: "невозможный",
	})
	assert.ErrorIs(t, err, util.ErrInvalidDifficulty)
}

func TestStartTest_EmptyBank(t *testing.T) {
	svc, _, _, _ := newHarness(1)

	_, err := svc.StartTest(context.Background(), StartTestRequest{
		TelegramID: 1, FullName: "x", Specialization: "kadry", Difficulty: "базовый",
	})
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestStartTest_SelectsConfiguredCount(t *testing.T) {
	svc, sessions, _, bank := newHarness(7)
	bank.set("kadry", makeBank(40))

	resp := startSession(t, svc, "kadry", "базовый")

	assert.Equal(t, 25, resp.TimeMinutes)
	require.Len(t, resp.Questions, 30)
	for i, q := range resp.Questions {
		assert.Equal(t, i, q.ID)
		assert.NotEmpty(t, q.Options)
	}

	// Набор зафиксирован за сессией, правильные ответы — непустые
	// подмножества собственных вариантов
	qs, err := sessions.Questions(resp.SessionID)
	require.NoError(t, err)
	require.Len(t, qs, 30)
	for _, q := range qs {
		set, err := util.ParseIndexList(q.CorrectAnswers)
		require.NoError(t, err)
		assert.NotEmpty(t, set)
		for _, idx := range set {
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, 4)
		}
	}
}

func TestStartTest_PartialBank(t *testing.T) {
	svc, _, _, bank := newHarness(3)
	bank.set("kadry", makeBank(5))

	// Банк меньше настроенных 20 вопросов уровня «резерв» — не ошибка
	resp := startSession(t, svc, "kadry", "резерв")
	require.Len(t, resp.Questions, 5)
	for i, q := range resp.Questions {
		assert.Equal(t, i, q.ID)
	}
}

func TestStartTest_DeterministicWithSeed(t *testing.T) {
	svcA, _, _, bankA := newHarness(42)
	svcB, _, _, bankB := newHarness(42)
	bankA.set("kadry", makeBank(40))
	bankB.set("kadry", makeBank(40))

	respA := startSession(t, svcA, "kadry", "базовый")
	respB := startSession(t, svcB, "kadry", "базовый")

	require.Len(t, respB.Questions, len(respA.Questions))
	for i := range respA.Questions {
		assert.Equal(t, respA.Questions[i].Question, respB.Questions[i].Question)
	}
}

func TestSubmitAnswer_UnknownSession(t *testing.T) {
	svc, _, _, _ := newHarness(1)

	err := svc.SubmitAnswer(context.Background(), SubmitAnswerRequest{
		TelegramID: 1, SessionID: "deadbeef", QuestionID: 0, SelectedAnswers: []int{0},
	})
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestSubmitAnswer_FinishedSession(t *testing.T) {
	svc, _, _, bank := newHarness(1)
	bank.set("kadry", makeBank(40))

	resp := startSession(t, svc, "kadry", "базовый")
	_, err := svc.FinishTest(context.Background(), FinishTestRequest{TelegramID: 100, SessionID: resp.SessionID})
	require.NoError(t, err)

	err = svc.SubmitAnswer(context.Background(), SubmitAnswerRequest{
		TelegramID: 100, SessionID: resp.SessionID, QuestionID: 0, SelectedAnswers: []int{0},
	})
	assert.ErrorIs(t, err, util.ErrSessionNotActive)
}

func TestSubmitAnswer_LastWriteWins(t *testing.T) {
	svc, sessions, _, bank := newHarness(1)
	bank.set("kadry", makeBank(40))

	resp := startSession(t, svc, "kadry", "резерв")
	correct := correctSets(t, sessions, resp.SessionID)

	// Сначала неверный ответ, затем верный: учитывается последний
	wrong := []int{3}
	if util.EqualIndexSets(wrong, correct[0]) {
		wrong = []int{2}
	}
	require.NoError(t, svc.SubmitAnswer(context.Background(), SubmitAnswerRequest{
		TelegramID: 100, SessionID: resp.SessionID, QuestionID: 0, SelectedAnswers: wrong,
	}))
	require.NoError(t, svc.SubmitAnswer(context.Background(), SubmitAnswerRequest{
		TelegramID: 100, SessionID: resp.SessionID, QuestionID: 0, SelectedAnswers: correct[0],
	}))

	result, err := svc.FinishTest(context.Background(), FinishTestRequest{TelegramID: 100, SessionID: resp.SessionID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Correct)
}

func TestFinishTest_ExactSetEquality(t *testing.T) {
	svc, sessions, _, bank := newHarness(5)
	// Все вопросы с двумя правильными ответами {0, 2}
	qs := make([]model.Question, 20)
	for i := range qs {
		qs[i] = model.Question{
			Question:       fmt.Sprintf("Вопрос %d", i),
			Options:        []string{"А", "Б", "В", "Г"},
			CorrectAnswers: []int{0, 2},
		}
	}
	bank.set("doznanie", qs)

	resp := startSession(t, svc, "doznanie", "резерв")
	correct := correctSets(t, sessions, resp.SessionID)
	require.Equal(t, []int{0, 2}, correct[0])

	submit := func(questionID int, selected []int) {
		require.NoError(t, svc.SubmitAnswer(context.Background(), SubmitAnswerRequest{
			TelegramID: 100, SessionID: resp.SessionID, QuestionID: questionID, SelectedAnswers: selected,
		}))
	}

	submit(0, []int{0})          // строгое подмножество — неверно
	submit(1, []int{0, 2, 3})    // надмножество — неверно
	submit(2, []int{2, 0})       // порядок не важен — верно
	submit(3, []int{0, 0, 2, 2}) // дубликаты схлопываются — верно
	submit(4, []int{})           // пустой выбор — неверно

	result, err := svc.FinishTest(context.Background(), FinishTestRequest{TelegramID: 100, SessionID: resp.SessionID})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Correct)
	// Вопросы 5..19 без ответа тоже входят в знаменатель
	assert.Equal(t, 20, result.Total)
}

func TestFinishTest_ScenarioHalfCorrect(t *testing.T) {
	svc, sessions, _, bank := newHarness(11)
	bank.set("oupds", makeBank(40))

	resp := startSession(t, svc, "oupds", "базовый")
	require.Len(t, resp.Questions, 30)

	correct := correctSets(t, sessions, resp.SessionID)
	for i := 0; i < 15; i++ {
		require.NoError(t, svc.SubmitAnswer(context.Background(), SubmitAnswerRequest{
			TelegramID: 100, SessionID: resp.SessionID, QuestionID: i, SelectedAnswers: correct[i],
		}))
	}
	// 15..29 остаются без ответа

	result, err := svc.FinishTest(context.Background(), FinishTestRequest{TelegramID: 100, SessionID: resp.SessionID})
	require.NoError(t, err)

	assert.Equal(t, 15, result.Correct)
	assert.Equal(t, 30, result.Total)
	assert.Equal(t, 50.0, result.Percentage)
	assert.Equal(t, model.GradeFail, result.Grade)
	assert.Equal(t, "Иванов Иван", result.FullName)
	assert.Equal(t, "ООУПДС", result.Specialization)
}

// Набор вопросов и карта правильных ответов при проверке обязаны совпадать
// с выданными при старте: изменение банка после старта на итог не влияет.
func TestFinishTest_GradesAgainstIssuedQuestionSet(t *testing.T) {
	svc, sessions, _, bank := newHarness(9)
	bank.set("kadry", makeBank(25))

	resp := startSession(t, svc, "kadry", "резерв")
	correct := correctSets(t, sessions, resp.SessionID)

	// Банк полностью подменяется: другие тексты, другие правильные ответы
	replaced := make([]model.Question, 25)
	for i := range replaced {
		replaced[i] = model.Question{
			Question:       fmt.Sprintf("Другой вопрос %d", i),
			Options:        []string{"А", "Б", "В", "Г"},
			CorrectAnswers: []int{(i + 1) % 4},
		}
	}
	bank.set("kadry", replaced)

	for id, set := range correct {
		require.NoError(t, svc.SubmitAnswer(context.Background(), SubmitAnswerRequest{
			TelegramID: 100, SessionID: resp.SessionID, QuestionID: id, SelectedAnswers: set,
		}))
	}

	result, err := svc.FinishTest(context.Background(), FinishTestRequest{TelegramID: 100, SessionID: resp.SessionID})
	require.NoError(t, err)
	assert.Equal(t, 20, result.Correct)
	assert.Equal(t, 20, result.Total)
	assert.Equal(t, 100.0, result.Percentage)
}

func TestFinishTest_WrongOwner(t *testing.T) {
	svc, _, _, bank := newHarness(1)
	bank.set("kadry", makeBank(40))

	resp := startSession(t, svc, "kadry", "базовый")

	_, err := svc.FinishTest(context.Background(), FinishTestRequest{TelegramID: 999, SessionID: resp.SessionID})
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestFinishTest_DoubleFinish(t *testing.T) {
	svc, sessions, _, bank := newHarness(1)
	bank.set("kadry", makeBank(40))

	resp := startSession(t, svc, "kadry", "базовый")

	_, err := svc.FinishTest(context.Background(), FinishTestRequest{TelegramID: 100, SessionID: resp.SessionID})
	require.NoError(t, err)

	_, err = svc.FinishTest(context.Background(), FinishTestRequest{TelegramID: 100, SessionID: resp.SessionID})
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	// Ровно одна строка результата и один инкремент статистики
	assert.Len(t, sessions.results, 1)
	assert.Equal(t, 1, sessions.stats[100].TotalTests)
}

func TestFinishTest_ConcurrentFinish(t *testing.T) {
	svc, sessions, _, bank := newHarness(1)
	bank.set("kadry", makeBank(40))

	resp := startSession(t, svc, "kadry", "базовый")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.FinishTest(context.Background(), FinishTestRequest{
				TelegramID: 100, SessionID: resp.SessionID,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, util.ErrSessionNotFound)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, sessions.results, 1)
	assert.Equal(t, 1, sessions.stats[100].TotalTests)
}

func TestGetResultDetail(t *testing.T) {
	svc, sessions, _, bank := newHarness(13)
	bank.set("rozyisk", makeBank(25))

	resp := startSession(t, svc, "rozyisk", "резерв")

	// До завершения разбор недоступен
	_, err := svc.GetResultDetail(context.Background(), resp.SessionID, 100)
	assert.ErrorIs(t, err, util.ErrTestNotFinished)

	correct := correctSets(t, sessions, resp.SessionID)
	require.NoError(t, svc.SubmitAnswer(context.Background(), SubmitAnswerRequest{
		TelegramID: 100, SessionID: resp.SessionID, QuestionID: 0, SelectedAnswers: correct[0],
	}))

	_, err = svc.FinishTest(context.Background(), FinishTestRequest{TelegramID: 100, SessionID: resp.SessionID})
	require.NoError(t, err)

	reviews, err := svc.GetResultDetail(context.Background(), resp.SessionID, 100)
	require.NoError(t, err)
	require.Len(t, reviews, 20)

	assert.Equal(t, 0, reviews[0].QuestionID)
	assert.True(t, reviews[0].IsCorrect)
	assert.Equal(t, correct[0], reviews[0].UserAnswers)
	assert.Equal(t, correct[0], reviews[0].CorrectAnswers)

	// Вопрос без ответа: пустой выбор, is_correct = false
	assert.False(t, reviews[1].IsCorrect)
	assert.Empty(t, reviews[1].UserAnswers)
	assert.NotEmpty(t, reviews[1].Options)

	_, err = svc.GetResultDetail(context.Background(), "deadbeef", 100)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	_, err = svc.GetResultDetail(context.Background(), resp.SessionID, 999)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

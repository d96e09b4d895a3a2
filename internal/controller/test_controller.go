package controller

import (
	"errors"
	"net/http"
	"strconv"

	"testbot_backend/internal/service"
	"testbot_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	Service *service.TestService
}

func NewTestController(svc *service.TestService) *TestController {
	return &TestController{Service: svc}
}

// @Summary Начало теста
// @Description Создаёт сессию и выдаёт случайный набор вопросов без правильных ответов
// @Tags Тестирование
// @Accept json
// @Produce json
// @Param body body service.StartTestRequest true "Параметры теста"
// @Success 200 {object} service.StartTestResponse
// @Failure 400 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /test/start [post]
func (c *TestController) StartTest(ctx *gin.Context) {
	var req service.StartTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Service.StartTest(ctx.Request.Context(), req)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// @Summary Сохранение ответа
// @Description Фиксирует выбор по вопросу; повторная отправка перезаписывает прежний ответ
// @Tags Тестирование
// @Accept json
// @Produce json
// @Param body body service.SubmitAnswerRequest true "Ответ на вопрос"
// @Success 200 {object} map[string]string
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /test/answer [post]
func (c *TestController) SubmitAnswer(ctx *gin.Context) {
	var req service.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.SubmitAnswer(ctx.Request.Context(), req); err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Завершение теста
// @Description Подсчитывает результат по набору вопросов, выданному при старте
// @Tags Тестирование
// @Accept json
// @Produce json
// @Param body body service.FinishTestRequest true "Идентификаторы сессии и пользователя"
// @Success 200 {object} map[string]service.TestResult
// @Failure 404 {object} util.Response
// @Router /test/finish [post]
func (c *TestController) FinishTest(ctx *gin.Context) {
	var req service.FinishTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.FinishTest(ctx.Request.Context(), req)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"result": result})
}

// @Summary Детальный разбор теста
// @Description Повопросный разбор завершённой сессии с правильными ответами
// @Tags Тестирование
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param telegram_id query int true "Telegram ID пользователя"
// @Success 200 {object} map[string][]service.QuestionReview
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /result/{session_id} [get]
func (c *TestController) GetResultDetail(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")
	telegramID, err := strconv.ParseInt(ctx.Query("telegram_id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid telegram_id")
		return
	}

	reviews, err := c.Service.GetResultDetail(ctx.Request.Context(), sessionID, telegramID)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"questions": reviews})
}

// writeError переводит доменные ошибки в HTTP-статусы:
// неизвестные справочники и неверное состояние — 400, чужая или
// отсутствующая сессия — 404, пустой банк вопросов — 500.
func (c *TestController) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidSpecialization),
		errors.Is(err, util.ErrInvalidDifficulty),
		errors.Is(err, util.ErrSessionNotActive),
		errors.Is(err, util.ErrTestNotFinished):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrNoQuestions):
		util.Error(ctx, http.StatusInternalServerError, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

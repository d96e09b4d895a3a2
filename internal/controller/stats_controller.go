package controller

import (
	"net/http"
	"strconv"

	"testbot_backend/internal/service"
	"testbot_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	Service *service.StatsService
}

func NewStatsController(svc *service.StatsService) *StatsController {
	return &StatsController{Service: svc}
}

// @Summary Статистика пользователя
// @Description Агрегаты по истории результатов и до пяти последних тестов
// @Tags Статистика
// @Produce json
// @Param telegram_id path int true "Telegram ID пользователя"
// @Success 200 {object} service.UserStatsResponse
// @Failure 400 {object} util.Response
// @Router /stats/{telegram_id} [get]
func (c *StatsController) GetUserStats(ctx *gin.Context) {
	telegramID, err := strconv.ParseInt(ctx.Param("telegram_id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid telegram_id")
		return
	}

	stats, err := c.Service.GetUserStats(telegramID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

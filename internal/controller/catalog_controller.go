package controller

import (
	"net/http"

	"testbot_backend/internal/model"

	"github.com/gin-gonic/gin"
)

// CatalogController отдаёт фиксированные справочники: специализации и
// уровни сложности.
type CatalogController struct{}

func NewCatalogController() *CatalogController {
	return &CatalogController{}
}

// @Summary Список специализаций
// @Tags Справочники
// @Produce json
// @Success 200 {object} map[string][]model.Specialization
// @Router /specializations [get]
func (c *CatalogController) GetSpecializations(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"specializations": model.Specializations()})
}

type difficultyView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Questions   int    `json:"questions"`
	TimeMinutes int    `json:"time_minutes"`
}

// @Summary Уровни сложности
// @Tags Справочники
// @Produce json
// @Success 200 {object} map[string][]controller.difficultyView
// @Router /difficulties [get]
func (c *CatalogController) GetDifficulties(ctx *gin.Context) {
	levels := model.Difficulties()
	out := make([]difficultyView, 0, len(levels))
	for _, d := range levels {
		out = append(out, difficultyView{
			ID:          d.ID,
			Name:        d.DisplayName(),
			Questions:   d.Questions,
			TimeMinutes: d.TimeMinutes,
		})
	}
	ctx.JSON(http.StatusOK, gin.H{"difficulties": out})
}

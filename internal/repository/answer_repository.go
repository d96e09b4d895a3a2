package repository

import (
	"testbot_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// Upsert записывает ответ по ключу (session_id, question_id);
// повторная отправка перезаписывает прежний выбор (last-write-wins).
func (r *AnswerRepository) Upsert(a *model.Answer) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"selected_answers", "answered_at"}),
	}).Create(a).Error
}

func (r *AnswerRepository) BySession(sessionID string) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("session_id = ?", sessionID).Find(&answers).Error
	return answers, err
}

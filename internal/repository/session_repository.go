package repository

import (
	"time"

	"testbot_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// Create сохраняет сессию вместе с выданным ей набором вопросов одной
// транзакцией: либо сессия существует с полным набором, либо её нет вовсе.
func (r *SessionRepository) Create(s *model.TestSession, questions []model.SessionQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SessionRepository) FindByID(sessionID string) (*model.TestSession, error) {
	var s model.TestSession
	err := r.DB.Where("session_id = ?", sessionID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) FindByIDAndUser(sessionID string, telegramID int64) (*model.TestSession, error) {
	var s model.TestSession
	err := r.DB.Where("session_id = ? AND telegram_id = ?", sessionID, telegramID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) Questions(sessionID string) ([]model.SessionQuestion, error) {
	var qs []model.SessionQuestion
	err := r.DB.Where("session_id = ?", sessionID).Order("question_id asc").Find(&qs).Error
	return qs, err
}

// Finalize атомарно завершает сессию: условный перевод active -> finished,
// запись результата и инкремент статистики пользователя в одной транзакции.
// Возвращает false, если сессия уже не active — гонка двух Finish безопасна,
// строка результата и инкремент выполняются ровно один раз.
func (r *SessionRepository) Finalize(sessionID string, finishedAt time.Time, result *model.Result) (bool, error) {
	finished := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.TestSession{}).
			Where("session_id = ? AND status = ?", sessionID, model.SessionStatusActive).
			Updates(map[string]interface{}{
				"status":      model.SessionStatusFinished,
				"finished_at": finishedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Create(result).Error; err != nil {
			return err
		}

		// total_tests = total_tests + 1 считается на стороне БД,
		// параллельные завершения разных сессий одного пользователя
		// сериализуются самим upsert-ом.
		stats := model.UserStats{
			TelegramID:   result.TelegramID,
			TotalTests:   1,
			LastActivity: finishedAt,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_tests":   gorm.Expr("total_tests + 1"),
				"last_activity": finishedAt,
			}),
		}).Create(&stats).Error; err != nil {
			return err
		}

		finished = true
		return nil
	})
	return finished, err
}

package model

import "time"

// Answer — последний ответ по вопросу сессии. Пара (session_id, question_id)
// уникальна, повторная отправка перезаписывает прежний выбор.
type Answer struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID       string    `gorm:"uniqueIndex:idx_answer_session_question;size:64;not null" json:"sessionId"`
	QuestionID      int       `gorm:"uniqueIndex:idx_answer_session_question;not null" json:"questionId"`
	SelectedAnswers string    `gorm:"size:255;not null" json:"selectedAnswers"`
	AnsweredAt      time.Time `json:"answeredAt"`
}

func (Answer) TableName() string {
	return "answers"
}

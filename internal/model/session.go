package model

import (
	"encoding/json"
	"time"
)

const (
	SessionStatusActive   = "active"
	SessionStatusFinished = "finished"
)

// TestSession — одна попытка прохождения теста. Создаётся в статусе active,
// переходит в finished ровно один раз и после этого неизменяема.
type TestSession struct {
	SessionID      string     `gorm:"primaryKey;size:64" json:"sessionId"`
	TelegramID     int64      `gorm:"index;not null" json:"telegramId"`
	FullName       string     `gorm:"size:255;not null" json:"fullName"`
	Position       string     `gorm:"size:255" json:"position"`
	Department     string     `gorm:"size:255" json:"department"`
	Specialization string     `gorm:"size:64;not null" json:"specialization"`
	Difficulty     string     `gorm:"size:64;not null" json:"difficulty"`
	StartedAt      time.Time  `json:"startedAt"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
	Status         string     `gorm:"size:20;index;default:'active'" json:"status"`
}

func (TestSession) TableName() string {
	return "test_sessions"
}

// SessionQuestion — вопрос, зафиксированный за сессией в момент старта.
// Проверка при завершении идёт строго по этому набору, повторный отбор
// из банка для существующей сессии не выполняется.
type SessionQuestion struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID      string          `gorm:"uniqueIndex:idx_session_question;size:64;not null" json:"sessionId"`
	QuestionID     int             `gorm:"uniqueIndex:idx_session_question;not null" json:"questionId"`
	Question       string          `gorm:"type:text;not null" json:"question"`
	Options        json.RawMessage `gorm:"type:json" json:"options"`
	CorrectAnswers string          `gorm:"size:64;not null" json:"-"`
}

func (SessionQuestion) TableName() string {
	return "session_questions"
}

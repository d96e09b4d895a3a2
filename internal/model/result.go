package model

// Result — итог завершённой сессии, исторический факт. Percentage хранится
// с полной точностью, округление до одного знака выполняется только при выдаче.
type Result struct {
	BaseModel
	SessionID      string  `gorm:"index;size:64;not null" json:"sessionId"`
	TelegramID     int64   `gorm:"index;not null" json:"telegramId"`
	Specialization string  `gorm:"size:64;not null" json:"specialization"`
	Difficulty     string  `gorm:"size:64;not null" json:"difficulty"`
	CorrectAnswers int     `gorm:"not null" json:"correctAnswers"`
	TotalQuestions int     `gorm:"not null" json:"totalQuestions"`
	Percentage     float64 `gorm:"not null" json:"percentage"`
	Grade          string  `gorm:"size:64;not null" json:"grade"`
	TimeSpent      int     `gorm:"not null" json:"timeSpent"`
}

func (Result) TableName() string {
	return "results"
}

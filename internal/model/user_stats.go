package model

import "time"

// UserStats — накопительная сводка по пользователю, одна строка на telegram_id.
// Инкремент total_tests выполняется на стороне БД (upsert), не чтением-записью.
type UserStats struct {
	TelegramID   int64     `gorm:"primaryKey" json:"telegramId"`
	FirstName    string    `gorm:"size:255" json:"firstName"`
	LastName     string    `gorm:"size:255" json:"lastName"`
	Username     string    `gorm:"size:255" json:"username"`
	TotalTests   int       `gorm:"default:0" json:"totalTests"`
	LastActivity time.Time `json:"lastActivity"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

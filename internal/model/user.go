package model

import "time"

// Profile stores the Telegram identity of an account together with its tracker data.
type Profile struct {
	ID           uint  `gorm:"primaryKey"`
	TelegramID   int64 `gorm:"uniqueIndex"`
	FirstName    string
	LastName     string
	Username     string
	IsFirstLogin bool      `gorm:"default:true"`
	Data         *UserData `gorm:"serializer:json;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

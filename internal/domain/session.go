package domain

import (
	"time"
)

// DateLayout формат календарной даты сессии (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// Session представляет завершённую сессию фокуса
type Session struct {
	ID              int64      `gorm:"primaryKey;column:id" json:"id"`
	StartTime       time.Time  `gorm:"column:start_time;not null;index" json:"startTime"`
	EndTime         *time.Time `gorm:"column:end_time" json:"endTime"`
	DurationSeconds int64      `gorm:"column:duration_seconds;not null" json:"durationSeconds"`
	Date            string     `gorm:"column:date;size:10;not null;index" json:"date"`
	Niyyah          *string    `gorm:"column:niyyah;size:120" json:"niyyah,omitempty"`
	Device          *string    `gorm:"column:device;size:100" json:"device,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName возвращает название таблицы для GORM
func (Session) TableName() string {
	return "sessions"
}

// Duration возвращает активную длительность сессии
func (s *Session) Duration() time.Duration {
	return time.Duration(s.DurationSeconds) * time.Second
}

// NewSession входные данные для создания сессии (без id)
type NewSession struct {
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DurationSeconds int64      `json:"durationSeconds"`
	Date            string     `json:"date"`
	Niyyah          *string    `json:"niyyah,omitempty"`
	Device          *string    `json:"device,omitempty"`
}

// ToSession собирает Session из входных данных; id назначает хранилище
func (n NewSession) ToSession() *Session {
	return &Session{
		StartTime:       n.StartTime,
		EndTime:         n.EndTime,
		DurationSeconds: n.DurationSeconds,
		Date:            n.Date,
		Niyyah:          n.Niyyah,
		Device:          n.Device,
	}
}

// DateOf возвращает календарную дату момента t в его часовом поясе
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

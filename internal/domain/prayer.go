package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates географические координаты в градусах
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate проверяет диапазоны широты и долготы
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		c.Latitude < -90 || c.Latitude > 90 ||
		c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, c.Latitude, c.Longitude)
	}
	return nil
}

// LocationSource откуда получены координаты
type LocationSource string

const (
	SourceDevice  LocationSource = "device"
	SourceSaved   LocationSource = "saved"
	SourceDefault LocationSource = "default"
)

// Location координаты с подписью для отображения
type Location struct {
	Coordinates
	Label  string         `json:"label"`
	Source LocationSource `json:"source"`
}

// SavedLocation сохранённое предпочтение пользователя (одна строка)
type SavedLocation struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"-"`
	Latitude  float64   `gorm:"column:latitude;not null" json:"latitude"`
	Longitude float64   `gorm:"column:longitude;not null" json:"longitude"`
	Label     string    `gorm:"column:label;size:100" json:"label"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName возвращает название таблицы для GORM
func (SavedLocation) TableName() string {
	return "saved_locations"
}

// Location переводит сохранённую запись в Location
func (s *SavedLocation) Location() Location {
	label := s.Label
	if label == "" {
		label = "Saved Location"
	}
	return Location{
		Coordinates: Coordinates{Latitude: s.Latitude, Longitude: s.Longitude},
		Label:       label,
		Source:      SourceSaved,
	}
}

// PrayerInfo вычисленное состояние текущей и следующей молитвы
type PrayerInfo struct {
	Name            string    `json:"name"`
	Time            time.Time `json:"time"`
	NextPrayerName  string    `json:"nextPrayerName"`
	NextPrayerTime  time.Time `json:"nextPrayerTime"`
	IsPrayerTimeNow bool      `json:"isPrayerTimeNow"`
	CachedAt        time.Time `json:"cachedAt"`
}

// In переводит все моменты времени в зону loc
func (p PrayerInfo) In(loc *time.Location) PrayerInfo {
	if loc == nil {
		return p
	}
	p.Time = p.Time.In(loc)
	p.NextPrayerTime = p.NextPrayerTime.In(loc)
	p.CachedAt = p.CachedAt.In(loc)
	return p
}

// TimeUntilNext возвращает время до следующей молитвы относительно now
func (p *PrayerInfo) TimeUntilNext(now time.Time) time.Duration {
	d := p.NextPrayerTime.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

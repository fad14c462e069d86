package postgres

import (
	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// savedLocationID единственная строка таблицы saved_locations
const savedLocationID = 1

// PostgresStorage реализует интерфейс Storage для PostgreSQL
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New создает новый экземпляр PostgreSQL storage
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- Session Methods ---

// ListSessions возвращает все сессии в порядке начала
func (s *PostgresStorage) ListSessions(ctx context.Context) ([]*domain.Session, error) {
	var sessions []*domain.Session

	err := s.db.WithContext(ctx).Order("start_time ASC, id ASC").Find(&sessions).Error
	if err != nil {
		s.log.Error("failed to list sessions", zap.Error(err))
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// CreateSession сохраняет новую сессию; id назначает база
func (s *PostgresStorage) CreateSession(ctx context.Context, input domain.NewSession) (*domain.Session, error) {
	session := input.ToSession()

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		s.log.Error("failed to create session",
			zap.String("date", input.Date),
			zap.Int64("duration_seconds", input.DurationSeconds),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("created session",
		zap.Int64("session_id", session.ID),
		zap.String("date", session.Date),
		zap.Int64("duration_seconds", session.DurationSeconds))
	return session, nil
}

// --- Location Methods ---

// GetSavedLocation получает последнюю сохраненную локацию
func (s *PostgresStorage) GetSavedLocation(ctx context.Context) (*domain.SavedLocation, error) {
	var loc domain.SavedLocation

	err := s.db.WithContext(ctx).Where("id = ?", savedLocationID).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		s.log.Error("failed to get saved location", zap.Error(err))
		return nil, fmt.Errorf("failed to get saved location: %w", err)
	}

	return &loc, nil
}

// SaveLocation перезаписывает сохраненную локацию (upsert по id)
func (s *PostgresStorage) SaveLocation(ctx context.Context, loc *domain.SavedLocation) error {
	row := *loc
	row.ID = savedLocationID

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "label", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		s.log.Error("failed to save location",
			zap.Float64("latitude", loc.Latitude),
			zap.Float64("longitude", loc.Longitude),
			zap.Error(err))
		return fmt.Errorf("failed to save location: %w", err)
	}

	s.log.Debug("saved location", zap.String("label", row.Label))
	return nil
}

// Ping проверяет доступность базы
func (s *PostgresStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

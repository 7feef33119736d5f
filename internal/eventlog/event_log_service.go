package eventlog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"picfolio/db"
	"picfolio/internal/logger"
	"picfolio/models"
)

type EventLogService struct {
	repo      db.EventLogRepository
	dbManager *db.DBManager
}

func NewEventLogService(repo db.EventLogRepository, dbManager *db.DBManager) *EventLogService {
	return &EventLogService{
		repo:      repo,
		dbManager: dbManager,
	}
}

// GetAll returns the newest events first.
func (s *EventLogService) GetAll(ctx context.Context, limit int) ([]*models.EventLog, error) {
	logs, err := s.repo.FindLatest(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		l.Description = generateDescription(l)
	}
	return logs, nil
}

func generateDescription(eventLog *models.EventLog) string {
	user := deref(eventLog.Username, "someone")
	album := deref(eventLog.Album, "unknown album")
	image := deref(eventLog.Image, "unknown image")

	switch eventLog.Type {
	case models.UserRegistered:
		return fmt.Sprintf("Account [%s] created", user)
	case models.UserLoggedIn:
		return fmt.Sprintf("[%s] logged in", user)
	case models.UserLoggedOut:
		return fmt.Sprintf("[%s] logged out", user)
	case models.ImageUploaded:
		return fmt.Sprintf("[%s] uploaded %s to %s", user, image, album)
	case models.ImageDeleted:
		return fmt.Sprintf("[%s] deleted %s from %s", user, image, album)
	case models.AlbumDeleted:
		return fmt.Sprintf("[%s] deleted album %s", user, album)
	default:
		return "Event occurred"
	}
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// CreateOne stores an event. Failures are logged, not returned: the
// activity log must never fail the action it describes.
func (s *EventLogService) CreateOne(ctx context.Context, eventLog *models.EventLog) {
	if eventLog.Description == "" {
		eventLog.Description = generateDescription(eventLog)
	}
	if err := s.dbManager.CreateEventLog(ctx, s.repo, eventLog); err != nil {
		logger.Error("failed to write event log",
			zap.String("type", string(eventLog.Type)), zap.Error(err))
	}
}

// Record is a shorthand for CreateOne with optional album and image.
func (s *EventLogService) Record(ctx context.Context, eventType models.EEventLogType, username, album, image string) {
	eventLog := &models.EventLog{Type: eventType}
	if username != "" {
		eventLog.Username = &username
	}
	if album != "" {
		eventLog.Album = &album
	}
	if image != "" {
		eventLog.Image = &image
	}
	s.CreateOne(ctx, eventLog)
}

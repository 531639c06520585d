package service

import (
	"context"
	"errors"

	"github.com/langchou/divegazer/internal/models"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported import format")
	ErrEmptyImport       = errors.New("no dives to import")
	ErrFileTooLarge      = errors.New("file too large")
	ErrImportTimeout     = errors.New("timed out reading import file")
	ErrInvalidDive       = errors.New("invalid dive")
	ErrInvalidDuration   = errors.New("dive time must be greater than zero")
)

// DiveStore 潜水记录持久化
type DiveStore interface {
	Create(ctx context.Context, dive *models.Dive) error
	BulkCreate(ctx context.Context, dives []models.Dive) ([]models.Dive, error)
	Update(ctx context.Context, dive *models.Dive) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Dive, error)
	List(ctx context.Context) ([]models.Dive, error)
}

// SettingsStore 用户设置持久化
type SettingsStore interface {
	Get(ctx context.Context) (*models.UserSettings, error)
	Save(ctx context.Context, settings *models.UserSettings) error
}

// Broadcaster 推送事件 (ws.Hub)
type Broadcaster interface {
	BroadcastMessage(msgType string, data interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastMessage(string, interface{}) {}

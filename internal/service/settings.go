package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/langchou/divegazer/internal/models"
	"github.com/langchou/divegazer/pkg/ws"
)

// SettingsService 用户设置服务
type SettingsService struct {
	logger *zap.Logger
	store  SettingsStore
	events Broadcaster
}

// NewSettingsService 创建设置服务
func NewSettingsService(logger *zap.Logger, store SettingsStore, events Broadcaster) *SettingsService {
	if events == nil {
		events = nopBroadcaster{}
	}
	return &SettingsService{
		logger: logger,
		store:  store,
		events: events,
	}
}

// Get 获取设置，未保存过时返回默认值
func (s *SettingsService) Get(ctx context.Context) (*models.UserSettings, error) {
	return s.store.Get(ctx)
}

// Save 校验单位后保存
func (s *SettingsService) Save(ctx context.Context, settings *models.UserSettings) error {
	if err := settings.Units.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	s.logger.Info("Settings saved",
		zap.String("depth_unit", string(settings.Units.Depth)),
		zap.String("system", string(settings.Units.System())),
	)
	s.events.BroadcastMessage(ws.MsgTypeSettingsUpdated, settings)
	return nil
}

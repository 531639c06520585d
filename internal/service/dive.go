package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/langchou/divegazer/internal/models"
	"github.com/langchou/divegazer/internal/stats"
	"github.com/langchou/divegazer/pkg/ws"
)

// DiveService 潜水记录服务
type DiveService struct {
	logger   *zap.Logger
	store    DiveStore
	settings SettingsStore
	events   Broadcaster
}

// NewDiveService 创建潜水记录服务，events 可为 nil
func NewDiveService(logger *zap.Logger, store DiveStore, settings SettingsStore, events Broadcaster) *DiveService {
	if events == nil {
		events = nopBroadcaster{}
	}
	return &DiveService{
		logger:   logger,
		store:    store,
		settings: settings,
		events:   events,
	}
}

// List 全部潜水记录
func (s *DiveService) List(ctx context.Context) ([]models.Dive, error) {
	return s.store.List(ctx)
}

// Get 单条潜水记录
func (s *DiveService) Get(ctx context.Context, id int64) (*models.Dive, error) {
	return s.store.GetByID(ctx, id)
}

// Create 新建潜水记录
func (s *DiveService) Create(ctx context.Context, dive *models.Dive) error {
	if err := prepare(dive); err != nil {
		return err
	}
	if err := s.store.Create(ctx, dive); err != nil {
		return fmt.Errorf("create dive: %w", err)
	}

	s.logger.Info("Dive created", zap.Int64("dive_id", dive.ID), zap.String("location", dive.Location))
	s.events.BroadcastMessage(ws.MsgTypeDivesCreated, []models.Dive{*dive})
	return nil
}

// Update 更新潜水记录
func (s *DiveService) Update(ctx context.Context, dive *models.Dive) error {
	if err := prepare(dive); err != nil {
		return err
	}
	if err := s.store.Update(ctx, dive); err != nil {
		return err
	}

	s.events.BroadcastMessage(ws.MsgTypeDiveUpdated, dive)
	return nil
}

// Delete 删除潜水记录
func (s *DiveService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Dive deleted", zap.Int64("dive_id", id))
	s.events.BroadcastMessage(ws.MsgTypeDiveDeleted, map[string]int64{"id": id})
	return nil
}

// Recent 最近 n 次潜水
func (s *DiveService) Recent(ctx context.Context, n int) ([]models.Dive, error) {
	dives, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return stats.RecentDives(dives, n), nil
}

// Statistics 统计数据
func (s *DiveService) Statistics(ctx context.Context) (stats.Statistics, error) {
	dives, err := s.store.List(ctx)
	if err != nil {
		return stats.Statistics{}, err
	}
	return stats.Calculate(dives), nil
}

// Monthly 按月统计
func (s *DiveService) Monthly(ctx context.Context) ([]stats.MonthCount, error) {
	dives, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return stats.DivesByMonth(dives), nil
}

// Profile 按用户单位生成剖面数据，无采样点时返回 nil
func (s *DiveService) Profile(ctx context.Context, id int64) (*models.Profile, error) {
	dive, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return models.BuildProfile(dive.Samples, settings.Units), nil
}

// Display 按用户单位格式化
func (s *DiveService) Display(ctx context.Context, id int64) (*DiveDisplay, error) {
	dive, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return NewDiveDisplay(dive, settings.Units), nil
}

// prepare 校验并规范化表单提交的记录
func prepare(dive *models.Dive) error {
	dive.Location = strings.TrimSpace(dive.Location)
	if dive.Location == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidDive)
	}
	if dive.DateTime.IsZero() {
		return fmt.Errorf("%w: datetime is required", ErrInvalidDive)
	}
	if dive.Depth < 0 || dive.Duration < 0 {
		return fmt.Errorf("%w: depth and duration must not be negative", ErrInvalidDive)
	}
	if !dive.Valid() {
		return fmt.Errorf("%w: depth and duration are both zero", ErrInvalidDive)
	}
	if dive.Rating != nil && (*dive.Rating < 1 || *dive.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidDive)
	}

	dive.DateTime = dive.DateTime.UTC()
	if dive.Equipment != nil {
		for i := range dive.Equipment.Tanks {
			dive.Equipment.Tanks[i].GasMix = dive.Equipment.Tanks[i].GasMix.Normalize()
		}
	}
	return nil
}

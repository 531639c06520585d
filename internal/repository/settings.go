package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/divegazer/internal/models"
	"github.com/langchou/divegazer/pkg/metrics"
)

// SettingsRepository 用户设置仓库 (单行)
type SettingsRepository struct {
	db      *DB
	metrics *metrics.Collector
}

// NewSettingsRepository 创建设置仓库
func NewSettingsRepository(db *DB, collector *metrics.Collector) *SettingsRepository {
	return &SettingsRepository{db: db, metrics: collector}
}

// Get 读取设置，未保存过时返回默认值
func (r *SettingsRepository) Get(ctx context.Context) (settings *models.UserSettings, err error) {
	defer func(start time.Time) {
		if r.metrics != nil {
			r.metrics.ObserveQuery("get_settings", start, err)
		}
	}(time.Now())

	var unitsJSON, prefsJSON, diveJSON []byte
	var updatedAt time.Time
	err = r.db.Pool.QueryRow(ctx,
		`SELECT units, preferences, dive, updated_at FROM user_settings WHERE id = 1`,
	).Scan(&unitsJSON, &prefsJSON, &diveJSON, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		defaults := models.DefaultUserSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	// 以默认值为底，兼容旧数据缺少的字段
	s := models.DefaultUserSettings()
	if err := json.Unmarshal(unitsJSON, &s.Units); err != nil {
		return nil, fmt.Errorf("decode units: %w", err)
	}
	if err := json.Unmarshal(prefsJSON, &s.Preferences); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	if err := json.Unmarshal(diveJSON, &s.Dive); err != nil {
		return nil, fmt.Errorf("decode dive preferences: %w", err)
	}
	s.UpdatedAt = updatedAt
	return &s, nil
}

// Save 保存设置
func (r *SettingsRepository) Save(ctx context.Context, settings *models.UserSettings) (err error) {
	defer func(start time.Time) {
		if r.metrics != nil {
			r.metrics.ObserveQuery("save_settings", start, err)
		}
	}(time.Now())

	unitsJSON, err := json.Marshal(settings.Units)
	if err != nil {
		return fmt.Errorf("encode units: %w", err)
	}
	prefsJSON, err := json.Marshal(settings.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	diveJSON, err := json.Marshal(settings.Dive)
	if err != nil {
		return fmt.Errorf("encode dive preferences: %w", err)
	}

	query := `
		INSERT INTO user_settings (id, units, preferences, dive, updated_at)
		VALUES (1, $1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			units = EXCLUDED.units,
			preferences = EXCLUDED.preferences,
			dive = EXCLUDED.dive,
			updated_at = NOW()
		RETURNING updated_at
	`
	err = r.db.Pool.QueryRow(ctx, query, unitsJSON, prefsJSON, diveJSON).Scan(&settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

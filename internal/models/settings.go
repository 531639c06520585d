package models

import (
	"time"

	"github.com/langchou/divegazer/internal/units"
)

// UserSettings 用户设置
type UserSettings struct {
	Units       units.Settings     `json:"units"`
	Preferences DisplayPreferences `json:"preferences"`
	Dive        DivingPreferences  `json:"dive"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// DisplayPreferences 展示偏好
type DisplayPreferences struct {
	DateFormat        string `json:"dateFormat"`        // ISO/US/EU
	TimeFormat        string `json:"timeFormat"`        // 12h/24h
	DefaultVisibility string `json:"defaultVisibility"` // private/public
}

// DivingPreferences 潜水偏好
type DivingPreferences struct {
	ShowBuddyReminders  bool   `json:"showBuddyReminders"`
	AutoCalculateNitrox bool   `json:"autoCalculateNitrox"`
	DefaultGasMix       string `json:"defaultGasMix"`
	MaxDepthWarning     int    `json:"maxDepthWarning"` // 用户深度单位
}

// DefaultUserSettings 默认设置
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Units: units.DefaultSettings(),
		Preferences: DisplayPreferences{
			DateFormat:        "ISO",
			TimeFormat:        "24h",
			DefaultVisibility: "private",
		},
		Dive: DivingPreferences{
			ShowBuddyReminders:  true,
			AutoCalculateNitrox: false,
			DefaultGasMix:       "Air (21% O₂)",
			MaxDepthWarning:     40,
		},
	}
}

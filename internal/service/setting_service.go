package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/unstoppable/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// ThemeLight 表示浅色主题。
	ThemeLight = "light"
	// ThemeDark 表示深色主题。
	ThemeDark = "dark"
)

var (
	// ErrInvalidTheme 表示主题取值不在 light/dark 之内。
	ErrInvalidTheme = errors.New("unsupported theme")
	// ErrInvalidReminderTime 表示提醒时间不是合法的 HH:MM。
	ErrInvalidReminderTime = errors.New("invalid reminder time")
)

// UserSettings 描述用户偏好。
type UserSettings struct {
	Theme         string
	Notifications bool
	ReminderTime  string
}

// UserSettingsInput 用于更新用户偏好。
type UserSettingsInput struct {
	Theme         string
	Notifications bool
	ReminderTime  string
}

// SettingService 提供用户偏好的读取与更新能力。
type SettingService struct {
	db *gorm.DB
}

// NewSettingService 构造 SettingService。
func NewSettingService(gdb *gorm.DB) *SettingService {
	return &SettingService{db: gdb}
}

var settingKeys = []string{
	db.SettingKeyTheme,
	db.SettingKeyNotifications,
	db.SettingKeyReminderTime,
}

func defaultSettings() UserSettings {
	return UserSettings{
		Theme:         ThemeDark,
		Notifications: false,
		ReminderTime:  "08:00",
	}
}

// GetSettings 读取用户偏好，缺失项回退到默认值。
func (s *SettingService) GetSettings() (UserSettings, error) {
	settings := defaultSettings()

	var rows []db.Setting
	if err := s.db.Where("key IN ?", settingKeys).Find(&rows).Error; err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}

	for _, row := range rows {
		switch row.Key {
		case db.SettingKeyTheme:
			if row.Value != "" {
				settings.Theme = row.Value
			}
		case db.SettingKeyNotifications:
			if parsed, err := strconv.ParseBool(row.Value); err == nil {
				settings.Notifications = parsed
			}
		case db.SettingKeyReminderTime:
			if row.Value != "" {
				settings.ReminderTime = row.Value
			}
		}
	}

	return settings, nil
}

// UpdateSettings 校验并保存用户偏好，返回更新后的值。
func (s *SettingService) UpdateSettings(input UserSettingsInput) (UserSettings, error) {
	if input.Theme != ThemeLight && input.Theme != ThemeDark {
		return UserSettings{}, ErrInvalidTheme
	}
	if _, err := time.Parse("15:04", input.ReminderTime); err != nil {
		return UserSettings{}, ErrInvalidReminderTime
	}

	pairs := map[string]string{
		db.SettingKeyTheme:         input.Theme,
		db.SettingKeyNotifications: strconv.FormatBool(input.Notifications),
		db.SettingKeyReminderTime:  input.ReminderTime,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range pairs {
			record := db.Setting{Key: key, Value: value}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&record).Error; err != nil {
				return fmt.Errorf("save setting %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return UserSettings{}, err
	}

	return s.GetSettings()
}

package db

import "gorm.io/gorm"

// Setting 存储用户偏好的键值对。
type Setting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (Setting) TableName() string {
	return "settings"
}

const (
	// SettingKeyTheme 表示界面主题（light/dark）。
	SettingKeyTheme = "theme"
	// SettingKeyNotifications 表示是否开启提醒。
	SettingKeyNotifications = "notifications"
	// SettingKeyReminderTime 表示每日提醒时间（HH:MM）。
	SettingKeyReminderTime = "reminder_time"
)

package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// defaultHabits 在首次启动时写入，给新用户一份起步清单
var defaultHabits = []string{"Meditate", "Workout", "Read", "Eat Healthy", "Plan Day"}

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 unstoppable.db。
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "unstoppable.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return err
	}

	// 自动迁移模式，为核心模型创建表
	if err = DB.AutoMigrate(
		&Habit{},
		&HabitLog{},
		&Setting{},
	); err != nil {
		return err
	}

	return Seed(DB)
}

// Seed 在习惯表为空时写入默认习惯，并补齐缺失的偏好设置。
func Seed(gdb *gorm.DB) error {
	var habitCount int64
	if err := gdb.Model(&Habit{}).Count(&habitCount).Error; err != nil {
		return err
	}

	if habitCount == 0 {
		for _, name := range defaultHabits {
			if err := gdb.Create(&Habit{Name: name, Active: true}).Error; err != nil {
				return err
			}
		}
	}

	defaults := map[string]string{
		SettingKeyTheme:         "dark",
		SettingKeyNotifications: "false",
		SettingKeyReminderTime:  "08:00",
	}

	for key, value := range defaults {
		var count int64
		if err := gdb.Model(&Setting{}).Where("key = ?", key).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := gdb.Create(&Setting{Key: key, Value: value}).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}

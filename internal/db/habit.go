package db

import (
	"time"

	"gorm.io/gorm"
)

// Habit 定义每日习惯模型
// Active 为 false 表示已归档：不出现在今日清单，也不计入完成率分母
// Category 预留习惯分类，便于未来统计/筛选
// Description 支持 Markdown，渲染时统一消毒
type Habit struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	Category    string
	Active      bool `gorm:"default:true"`
}

// HabitLog 记录习惯打卡日志
// HabitID + LogDate 采用唯一索引，保证同一习惯同一天至多一条记录
// 取消打卡通过翻转 Completed 标记实现，记录本身保留以便审计
type HabitLog struct {
	gorm.Model
	HabitID   uint      `gorm:"index;index:idx_habit_log_unique,unique"`
	Habit     Habit     `gorm:"constraint:OnDelete:CASCADE"`
	LogDate   time.Time `gorm:"index:idx_habit_log_unique,unique"`
	Completed bool
}

// TableName 重写确保唯一索引作用到 habit_id + log_date
func (HabitLog) TableName() string {
	return "habit_logs"
}

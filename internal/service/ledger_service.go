package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/unstoppable/internal/db"
	"gorm.io/gorm"
)

// LedgerService 负责打卡流水的查询与翻转写入
// 读取侧只做分组与计数，派生指标（连胜/经验值/图表）由纯函数另行计算

type LedgerService struct {
	db *gorm.DB
}

// ToggleResult 描述一次打卡翻转后的状态
// AllHabitsDone 仅在本次翻转为完成且当日活跃习惯全部完成时为 true，
// 用于触发一次性的庆祝效果
type ToggleResult struct {
	Completed     bool
	AllHabitsDone bool
}

// NewLedgerService 构造 LedgerService
func NewLedgerService(gdb *gorm.DB) *LedgerService {
	return &LedgerService{db: gdb}
}

// CountsByDate 返回日期（YYYY-MM-DD）→ 当日完成打卡数的映射，覆盖全部习惯
func (s *LedgerService) CountsByDate() (map[string]int, error) {
	var logs []db.HabitLog
	if err := s.db.Where("completed = ?", true).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list completed logs: %w", err)
	}

	counts := make(map[string]int, len(logs))
	for _, entry := range logs {
		counts[entry.LogDate.Format(dateFormat)]++
	}
	return counts, nil
}

// CountsByHabitDate 按习惯分组返回日期→完成数映射，用于逐习惯的连胜展示
func (s *LedgerService) CountsByHabitDate() (map[uint]map[string]int, error) {
	var logs []db.HabitLog
	if err := s.db.Where("completed = ?", true).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list completed logs: %w", err)
	}

	counts := make(map[uint]map[string]int)
	for _, entry := range logs {
		perDay := counts[entry.HabitID]
		if perDay == nil {
			perDay = make(map[string]int)
			counts[entry.HabitID] = perDay
		}
		perDay[entry.LogDate.Format(dateFormat)]++
	}
	return counts, nil
}

// CompletedOn 返回指定日期所有已完成的打卡记录
func (s *LedgerService) CompletedOn(date time.Time) ([]db.HabitLog, error) {
	day := normalizeToDate(date)

	var logs []db.HabitLog
	if err := s.db.Where("log_date = ? AND completed = ?", day, true).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list logs for date: %w", err)
	}
	return logs, nil
}

// TotalCompletions 返回全部历史完成打卡总数
func (s *LedgerService) TotalCompletions() (int, error) {
	var count int64
	if err := s.db.Model(&db.HabitLog{}).Where("completed = ?", true).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count completed logs: %w", err)
	}
	return int(count), nil
}

// DayProgress 返回指定日期活跃习惯的完成数与总数
func (s *LedgerService) DayProgress(date time.Time) (completed, total int, err error) {
	day := normalizeToDate(date)

	var habitCount int64
	if err := s.db.Model(&db.Habit{}).Where("active = ?", true).Count(&habitCount).Error; err != nil {
		return 0, 0, fmt.Errorf("count active habits: %w", err)
	}

	var doneCount int64
	if err := s.db.Model(&db.HabitLog{}).
		Joins("JOIN habits ON habits.id = habit_logs.habit_id").
		Where("habits.active = ?", true).
		Where("habit_logs.log_date = ? AND habit_logs.completed = ?", day, true).
		Count(&doneCount).Error; err != nil {
		return 0, 0, fmt.Errorf("count completed logs: %w", err)
	}

	return int(doneCount), int(habitCount), nil
}

// Toggle 翻转指定习惯在指定日期的打卡状态
// 同一 (habit, date) 至多一条记录：存在则翻转 Completed 标记，否则创建已完成记录；
// 连续两次翻转恢复原状态。习惯不存在时视为无操作。
// 全部完成的判定在写入之后、同一事务内重新计数，避免使用过期快照。
func (s *LedgerService) Toggle(habitID uint, date time.Time) (ToggleResult, error) {
	day := normalizeToDate(date)
	result := ToggleResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var habit db.Habit
		if err := tx.First(&habit, habitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 习惯已被删除/归档竞争属正常情况，按无操作处理
				return nil
			}
			return fmt.Errorf("find habit: %w", err)
		}

		var entry db.HabitLog
		err := tx.Where("habit_id = ? AND log_date = ?", habitID, day).First(&entry).Error
		switch {
		case err == nil:
			entry.Completed = !entry.Completed
			if err := tx.Save(&entry).Error; err != nil {
				return fmt.Errorf("update habit log: %w", err)
			}
			result.Completed = entry.Completed
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = db.HabitLog{HabitID: habitID, LogDate: day, Completed: true}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("create habit log: %w", err)
			}
			result.Completed = true
		default:
			return fmt.Errorf("find habit log: %w", err)
		}

		if !result.Completed {
			return nil
		}

		var habitCount int64
		if err := tx.Model(&db.Habit{}).Where("active = ?", true).Count(&habitCount).Error; err != nil {
			return fmt.Errorf("count active habits: %w", err)
		}

		var doneCount int64
		if err := tx.Model(&db.HabitLog{}).
			Joins("JOIN habits ON habits.id = habit_logs.habit_id").
			Where("habits.active = ?", true).
			Where("habit_logs.log_date = ? AND habit_logs.completed = ?", day, true).
			Count(&doneCount).Error; err != nil {
			return fmt.Errorf("count completed logs: %w", err)
		}

		result.AllHabitsDone = habitCount > 0 && doneCount == habitCount
		return nil
	})
	if err != nil {
		return ToggleResult{}, err
	}

	return result, nil
}

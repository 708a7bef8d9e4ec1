package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/unstoppable/internal/db"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	exportHabitSheet = "Habits"
	exportLogSheet   = "Logs"
)

// ExportService 将全部习惯与打卡数据导出为工作簿，供用户下载备份。
type ExportService struct {
	db *gorm.DB
}

// NewExportService 构造 ExportService。
func NewExportService(gdb *gorm.DB) *ExportService {
	return &ExportService{db: gdb}
}

// Workbook 生成 xlsx 工作簿，返回文件内容与建议的下载文件名。
func (s *ExportService) Workbook() ([]byte, string, error) {
	var habits []db.Habit
	if err := s.db.Order("created_at ASC").Find(&habits).Error; err != nil {
		return nil, "", fmt.Errorf("list habits: %w", err)
	}

	var logs []db.HabitLog
	if err := s.db.Order("log_date ASC").Find(&logs).Error; err != nil {
		return nil, "", fmt.Errorf("list habit logs: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportHabitSheet); err != nil {
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(exportLogSheet); err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}

	habitHeader := []any{"ID", "Name", "Description", "Category", "Active", "Created At"}
	if err := f.SetSheetRow(exportHabitSheet, "A1", &habitHeader); err != nil {
		return nil, "", fmt.Errorf("write habit header: %w", err)
	}
	for i, habit := range habits {
		row := []any{
			habit.ID,
			habit.Name,
			habit.Description,
			habit.Category,
			habit.Active,
			habit.CreatedAt.Format(dateFormat),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(exportHabitSheet, cell, &row); err != nil {
			return nil, "", fmt.Errorf("write habit row: %w", err)
		}
	}

	logHeader := []any{"ID", "Habit ID", "Date", "Completed"}
	if err := f.SetSheetRow(exportLogSheet, "A1", &logHeader); err != nil {
		return nil, "", fmt.Errorf("write log header: %w", err)
	}
	for i, entry := range logs {
		row := []any{
			entry.ID,
			entry.HabitID,
			entry.LogDate.Format(dateFormat),
			entry.Completed,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(exportLogSheet, cell, &row); err != nil {
			return nil, "", fmt.Errorf("write log row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	name := fmt.Sprintf("unstoppable-export-%s.xlsx", uuid.NewString())
	return buf.Bytes(), name, nil
}

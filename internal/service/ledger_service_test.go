package service

import (
	"testing"
	"time"

	"github.com/unstoppable/internal/db"
)

func TestToggleCreatesAndFlips(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	habitSvc := NewHabitService(db.DB)
	habit, err := habitSvc.Create(HabitInput{Name: "Read"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	ledger := NewLedgerService(db.DB)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	result, err := ledger.Toggle(habit.ID, day)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !result.Completed {
		t.Fatal("expected first toggle to complete")
	}

	// 同一 (habit, date) 只允许一条记录
	var count int64
	if err := db.DB.Model(&db.HabitLog{}).Where("habit_id = ?", habit.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count logs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 log row, got %d", count)
	}

	result, err = ledger.Toggle(habit.ID, day)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if result.Completed {
		t.Fatal("expected second toggle to un-complete")
	}

	// 取消打卡保留记录，仅翻转标记
	if err := db.DB.Model(&db.HabitLog{}).Where("habit_id = ?", habit.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count logs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected flag flip to keep the row, got %d rows", count)
	}

	// 两次翻转应恢复原状态
	result, err = ledger.Toggle(habit.ID, day)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !result.Completed {
		t.Fatal("expected third toggle to complete again")
	}
}

func TestToggleAllHabitsDone(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	habitSvc := NewHabitService(db.DB)
	first, err := habitSvc.Create(HabitInput{Name: "Read"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	second, err := habitSvc.Create(HabitInput{Name: "Workout"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	ledger := NewLedgerService(db.DB)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	result, err := ledger.Toggle(first.ID, day)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if result.AllHabitsDone {
		t.Fatal("expected all_habits_done false with one habit pending")
	}

	// 判定必须基于写入后的计数
	result, err = ledger.Toggle(second.ID, day)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !result.AllHabitsDone {
		t.Fatal("expected all_habits_done true after last habit")
	}

	// 取消后再全部完成仍可再次触发
	if _, err := ledger.Toggle(second.ID, day); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	result, err = ledger.Toggle(second.ID, day)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !result.AllHabitsDone {
		t.Fatal("expected all_habits_done true again")
	}
}

func TestToggleIgnoresArchivedHabitsInDenominator(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	habitSvc := NewHabitService(db.DB)
	active, err := habitSvc.Create(HabitInput{Name: "Read"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	archived, err := habitSvc.Create(HabitInput{Name: "Old"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	if _, err := habitSvc.ToggleArchived(archived.ID); err != nil {
		t.Fatalf("failed to archive habit: %v", err)
	}

	ledger := NewLedgerService(db.DB)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	result, err := ledger.Toggle(active.ID, day)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !result.AllHabitsDone {
		t.Fatal("expected archived habit to be excluded from the total")
	}
}

func TestToggleMissingHabitIsNoop(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	ledger := NewLedgerService(db.DB)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	result, err := ledger.Toggle(42, day)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if result.Completed || result.AllHabitsDone {
		t.Fatalf("expected unchanged state, got %+v", result)
	}

	var count int64
	if err := db.DB.Model(&db.HabitLog{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count logs: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no log rows, got %d", count)
	}
}

func TestCountsByDateAndTotals(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	habitSvc := NewHabitService(db.DB)
	first, err := habitSvc.Create(HabitInput{Name: "Read"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	second, err := habitSvc.Create(HabitInput{Name: "Workout"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	ledger := NewLedgerService(db.DB)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	next := day.AddDate(0, 0, 1)

	for _, toggle := range []struct {
		habitID uint
		date    time.Time
	}{
		{first.ID, day},
		{second.ID, day},
		{first.ID, next},
	} {
		if _, err := ledger.Toggle(toggle.habitID, toggle.date); err != nil {
			t.Fatalf("Toggle returned error: %v", err)
		}
	}

	counts, err := ledger.CountsByDate()
	if err != nil {
		t.Fatalf("CountsByDate returned error: %v", err)
	}
	if counts[day.Format(dateFormat)] != 2 {
		t.Fatalf("expected 2 completions on first day, got %d", counts[day.Format(dateFormat)])
	}
	if counts[next.Format(dateFormat)] != 1 {
		t.Fatalf("expected 1 completion on second day, got %d", counts[next.Format(dateFormat)])
	}

	total, err := ledger.TotalCompletions()
	if err != nil {
		t.Fatalf("TotalCompletions returned error: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 total completions, got %d", total)
	}

	// 取消一条后不再计入
	if _, err := ledger.Toggle(first.ID, next); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	counts, err = ledger.CountsByDate()
	if err != nil {
		t.Fatalf("CountsByDate returned error: %v", err)
	}
	if counts[next.Format(dateFormat)] != 0 {
		t.Fatalf("expected 0 completions after un-complete, got %d", counts[next.Format(dateFormat)])
	}

	completed, totalHabits, err := ledger.DayProgress(day)
	if err != nil {
		t.Fatalf("DayProgress returned error: %v", err)
	}
	if completed != 2 || totalHabits != 2 {
		t.Fatalf("expected 2/2 progress, got %d/%d", completed, totalHabits)
	}
}

func TestEndToEndScenario(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	habitSvc := NewHabitService(db.DB)
	habit, err := habitSvc.Create(HabitInput{Name: "Read"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	ledger := NewLedgerService(db.DB)
	today := time.Date(2024, 1, 3, 0, 0, 0, 0, time.Local)
	for offset := 2; offset >= 0; offset-- {
		if _, err := ledger.Toggle(habit.ID, today.AddDate(0, 0, -offset)); err != nil {
			t.Fatalf("Toggle returned error: %v", err)
		}
	}

	counts, err := ledger.CountsByDate()
	if err != nil {
		t.Fatalf("CountsByDate returned error: %v", err)
	}

	streaks := CalculateStreaks(counts, today)
	if streaks.Current != 3 || streaks.Best != 3 {
		t.Fatalf("expected 3/3 streaks, got current=%d best=%d", streaks.Current, streaks.Best)
	}

	total, err := ledger.TotalCompletions()
	if err != nil {
		t.Fatalf("TotalCompletions returned error: %v", err)
	}

	progression := CalculateProgression(total, streaks.Best)
	if progression.XP != 180 {
		t.Fatalf("expected xp 180, got %d", progression.XP)
	}
	if progression.Level != 2 {
		t.Fatalf("expected level 2, got %d", progression.Level)
	}
}

package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/unstoppable/internal/db"
	"github.com/xuri/excelize/v2"
)

func TestExportWorkbook(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	habitSvc := NewHabitService(db.DB)
	habit, err := habitSvc.Create(HabitInput{Name: "Read", Category: "mind"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	ledger := NewLedgerService(db.DB)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	if _, err := ledger.Toggle(habit.ID, day); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}

	svc := NewExportService(db.DB)
	content, name, err := svc.Workbook()
	if err != nil {
		t.Fatalf("Workbook returned error: %v", err)
	}

	if !strings.HasPrefix(name, "unstoppable-export-") || !strings.HasSuffix(name, ".xlsx") {
		t.Fatalf("unexpected file name: %s", name)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	habitRows, err := f.GetRows("Habits")
	if err != nil {
		t.Fatalf("failed to read Habits sheet: %v", err)
	}
	if len(habitRows) != 2 {
		t.Fatalf("expected header + 1 habit row, got %d", len(habitRows))
	}
	if habitRows[1][1] != "Read" {
		t.Fatalf("expected habit name Read, got %q", habitRows[1][1])
	}

	logRows, err := f.GetRows("Logs")
	if err != nil {
		t.Fatalf("failed to read Logs sheet: %v", err)
	}
	if len(logRows) != 2 {
		t.Fatalf("expected header + 1 log row, got %d", len(logRows))
	}
	if logRows[1][2] != day.Format(dateFormat) {
		t.Fatalf("expected log date %s, got %q", day.Format(dateFormat), logRows[1][2])
	}
}

package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/unstoppable/internal/db"
	"github.com/unstoppable/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type habitPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ListHabits 返回习惯列表 JSON
func (a *API) ListHabits(c *gin.Context) {
	filter := service.HabitFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	switch c.Query("active") {
	case "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	}

	habits, err := a.habits.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取习惯列表失败")
		return
	}

	items := make([]gin.H, 0, len(habits))
	for _, habit := range habits {
		items = append(items, habitToPayload(habit))
	}

	c.JSON(http.StatusOK, gin.H{"habits": items})
}

// GetHabit 返回单个习惯详情，描述以消毒后的 HTML 一并返回
func (a *API) GetHabit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	habit, err := a.habits.Get(id)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	payload := habitToPayload(*habit)
	if habit.Description != "" {
		if rendered, err := renderMarkdown(habit.Description); err == nil {
			payload["description_html"] = rendered
		}
	}

	c.JSON(http.StatusOK, gin.H{"habit": payload})
}

// CreateHabit 创建习惯
func (a *API) CreateHabit(c *gin.Context) {
	var payload habitPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	habit, err := a.habits.Create(service.HabitInput{
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
	})
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitToPayload(*habit)})
}

// UpdateHabit 更新习惯
func (a *API) UpdateHabit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	var payload habitPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	habit, err := a.habits.Update(id, service.HabitInput{
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
	})
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitToPayload(*habit)})
}

// ArchiveHabit 翻转习惯的归档状态
func (a *API) ArchiveHabit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	habit, err := a.habits.ToggleArchived(id)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitToPayload(*habit)})
}

// DeleteHabit 删除习惯及其全部打卡记录
func (a *API) DeleteHabit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	if err := a.habits.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除习惯失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ToggleHabit 翻转指定日期的打卡状态
func (a *API) ToggleHabit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	var payload struct {
		Date string `json:"date"` // 2006-01-02，为空表示今天
	}
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return
		}
	}

	date, err := resolveDate(payload.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的打卡日期")
		return
	}

	result, err := a.ledger.Toggle(id, date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存打卡记录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completed":       result.Completed,
		"all_habits_done": result.AllHabitsDone,
	})
}

// GetToday 返回指定日期（默认今天）的打卡清单与完成进度
func (a *API) GetToday(c *gin.Context) {
	today, err := resolveDate(c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	active := true
	habits, err := a.habits.List(service.HabitFilter{Active: &active})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取习惯列表失败")
		return
	}

	completedLogs, err := a.ledger.CompletedOn(today)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取打卡记录失败")
		return
	}

	perHabitCounts, err := a.ledger.CountsByHabitDate()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取打卡记录失败")
		return
	}

	completedSet := make(map[uint]bool, len(completedLogs))
	for _, entry := range completedLogs {
		completedSet[entry.HabitID] = true
	}

	items := make([]gin.H, 0, len(habits))
	completedCount := 0
	for _, habit := range habits {
		done := completedSet[habit.ID]
		if done {
			completedCount++
		}
		streaks := service.CalculateStreaks(perHabitCounts[habit.ID], today)
		items = append(items, gin.H{
			"id":        habit.ID,
			"name":      habit.Name,
			"category":  habit.Category,
			"completed": done,
			"streak":    streaks.Current,
		})
	}

	progress := 0.0
	if len(habits) > 0 {
		progress = float64(completedCount) / float64(len(habits)) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"date":            today.Format(dateFormat),
		"habits":          items,
		"completed_count": completedCount,
		"total_count":     len(habits),
		"progress":        progress,
	})
}

func habitToPayload(habit db.Habit) gin.H {
	return gin.H{
		"id":          habit.ID,
		"name":        habit.Name,
		"description": habit.Description,
		"category":    habit.Category,
		"active":      habit.Active,
		"created_at":  habit.CreatedAt.Format(time.RFC3339),
	}
}

func renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

func handleHabitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHabitNotFound):
		respondError(c, http.StatusNotFound, "习惯不存在")
	case errors.Is(err, service.ErrHabitNameRequired):
		respondError(c, http.StatusBadRequest, "习惯名称不能为空")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unstoppable/internal/service"
)

// GetStats 返回成长面板数据：连胜、经验值等级、周视图与 28 天热力图。
// 全部指标由同一份打卡快照和同一个“今天”派生，保证互相一致。
func (a *API) GetStats(c *gin.Context) {
	today, err := resolveDate(c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	counts, err := a.ledger.CountsByDate()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取打卡记录失败")
		return
	}

	total, err := a.ledger.TotalCompletions()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "统计完成总数失败")
		return
	}

	activeCount, err := a.habits.CountActive()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "统计习惯数量失败")
		return
	}

	streaks := service.CalculateStreaks(counts, today)
	progression := service.CalculateProgression(total, streaks.Best)
	weekly := service.WeeklySeries(counts, today)
	heatmap := service.HeatmapSeries(counts, activeCount, today)

	weeklyItems := make([]gin.H, 0, len(weekly))
	for _, entry := range weekly {
		weeklyItems = append(weeklyItems, gin.H{"label": entry.Label, "count": entry.Count})
	}

	heatmapItems := make([]gin.H, 0, len(heatmap))
	for _, entry := range heatmap {
		heatmapItems = append(heatmapItems, gin.H{"date": entry.Date, "intensity": entry.Intensity})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":              today.Format(dateFormat),
		"total_completions": total,
		"streaks": gin.H{
			"current": streaks.Current,
			"best":    streaks.Best,
		},
		"progression": gin.H{
			"xp":       progression.XP,
			"level":    progression.Level,
			"progress": progression.ProgressPercent,
		},
		"weekly":  weeklyItems,
		"heatmap": heatmapItems,
	})
}

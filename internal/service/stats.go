package service

import (
	"math"
	"time"
)

const (
	dateFormat = "2006-01-02"

	// streakHorizonDays 限定回溯窗口，应用生命周期内足够使用
	streakHorizonDays = 365
	weeklyWindowDays  = 7
	heatmapWindowDays = 28

	xpPerCompletion = 10
	xpPerStreakDay  = 50
	xpLevelBase     = 100
)

// StreakSummary 汇总连续打卡天数
type StreakSummary struct {
	Current int
	Best    int
}

// Progression 描述经验值与等级进度
type Progression struct {
	XP              int
	Level           int
	ProgressPercent float64
}

// WeeklyEntry 表示周视图中单日的完成数
type WeeklyEntry struct {
	Label string
	Count int
}

// HeatmapEntry 表示热力图中单日的强度值
type HeatmapEntry struct {
	Date      string
	Intensity float64
}

// CalculateStreaks 基于日期→完成数映射计算当前连胜与历史最佳连胜。
// 从 today 起逐日回溯：Best 取整个窗口内最长的连续打卡区间；
// Current 为以今天结尾的连续区间，容忍今天尚未打卡——
// 只有今天与昨天同时为空才视为断签。
func CalculateStreaks(counts map[string]int, today time.Time) StreakSummary {
	summary := StreakSummary{}
	day := normalizeToDate(today)

	run := 0
	currentFixed := false

	for i := 0; i < streakHorizonDays; i++ {
		key := day.AddDate(0, 0, -i).Format(dateFormat)
		if counts[key] > 0 {
			run++
			continue
		}

		if i == 0 {
			// 今天还没打卡不算断签，继续检查昨天
			continue
		}

		if !currentFixed {
			summary.Current = run
			currentFixed = true
		}
		if run > summary.Best {
			summary.Best = run
		}
		run = 0
	}

	if run > summary.Best {
		summary.Best = run
	}
	if !currentFixed {
		summary.Current = run
	}

	return summary
}

// CalculateProgression 将总完成数与最佳连胜换算为经验值、等级和升级进度。
// 等级曲线为平方根形：每升一级所需经验值递增，xp=0 时恒为 1 级 0 进度。
func CalculateProgression(totalCompletions, bestStreak int) Progression {
	xp := totalCompletions*xpPerCompletion + bestStreak*xpPerStreakDay

	level := int(math.Sqrt(float64(xp)/float64(xpLevelBase))) + 1
	floorXP := (level - 1) * (level - 1) * xpLevelBase
	ceilXP := level * level * xpLevelBase

	progress := float64(xp-floorXP) / float64(ceilXP-floorXP) * 100
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return Progression{XP: xp, Level: level, ProgressPercent: progress}
}

// WeeklySeries 返回截至 today 的最近 7 天完成数，按时间从旧到新排列。
func WeeklySeries(counts map[string]int, today time.Time) []WeeklyEntry {
	day := normalizeToDate(today)

	series := make([]WeeklyEntry, 0, weeklyWindowDays)
	for i := weeklyWindowDays - 1; i >= 0; i-- {
		d := day.AddDate(0, 0, -i)
		series = append(series, WeeklyEntry{
			Label: d.Format("Mon"),
			Count: counts[d.Format(dateFormat)],
		})
	}

	return series
}

// HeatmapSeries 返回截至 today 的最近 28 天打卡强度，按时间从旧到新排列。
// 强度为当日完成数与活跃习惯数的比值，上限 1；分母下限 1 以避免除零。
func HeatmapSeries(counts map[string]int, activeHabits int, today time.Time) []HeatmapEntry {
	day := normalizeToDate(today)

	denominator := activeHabits
	if denominator < 1 {
		denominator = 1
	}

	series := make([]HeatmapEntry, 0, heatmapWindowDays)
	for i := heatmapWindowDays - 1; i >= 0; i-- {
		d := day.AddDate(0, 0, -i)
		intensity := float64(counts[d.Format(dateFormat)]) / float64(denominator)
		if intensity > 1 {
			intensity = 1
		}
		series = append(series, HeatmapEntry{
			Date:      d.Format(dateFormat),
			Intensity: intensity,
		})
	}

	return series
}

func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unstoppable/internal/service"
)

type settingsPayload struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	ReminderTime  string `json:"reminder_time"`
}

// GetSettings 返回用户偏好
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.GetSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settingsToPayload(settings)})
}

// UpdateSettings 更新用户偏好
func (a *API) UpdateSettings(c *gin.Context) {
	var payload settingsPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	settings, err := a.settings.UpdateSettings(service.UserSettingsInput{
		Theme:         payload.Theme,
		Notifications: payload.Notifications,
		ReminderTime:  payload.ReminderTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTheme):
			respondError(c, http.StatusBadRequest, "不支持的主题")
		case errors.Is(err, service.ErrInvalidReminderTime):
			respondError(c, http.StatusBadRequest, "无效的提醒时间")
		default:
			respondError(c, http.StatusInternalServerError, "保存设置失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settingsToPayload(settings)})
}

func settingsToPayload(settings service.UserSettings) gin.H {
	return gin.H{
		"theme":         settings.Theme,
		"notifications": settings.Notifications,
		"reminder_time": settings.ReminderTime,
	}
}

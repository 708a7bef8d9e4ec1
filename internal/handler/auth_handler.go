package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const sessionKeyUnlocked = "unlocked"

// Login 校验访问口令并解锁会话
func (a *API) Login(c *gin.Context) {
	if !a.PinConfigured() {
		c.JSON(http.StatusOK, gin.H{"unlocked": true})
		return
	}

	var payload struct {
		Pin string `json:"pin"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if err := bcrypt.CompareHashAndPassword(a.pinHash, []byte(payload.Pin)); err != nil {
		respondError(c, http.StatusUnauthorized, "口令错误")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKeyUnlocked, true)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unlocked": true})
}

// Logout 清除会话并重新上锁
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"unlocked": false})
}

// AuthRequired 是一个简单的认证中间件，未解锁的会话一律拒绝
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		unlocked, _ := session.Get(sessionKeyUnlocked).(bool)
		if !unlocked {
			respondError(c, http.StatusUnauthorized, "请先解锁")
			c.Abort()
			return
		}
		c.Next()
	}
}

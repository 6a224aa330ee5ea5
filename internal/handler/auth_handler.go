package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/carbonlog/internal/footprint"
	"github.com/carbonlog/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionUserIDKey = "user_id"

type signupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup 注册新用户并返回令牌
func (a *API) Signup(c *gin.Context) {
	var payload signupPayload
	if !bindJSON(c, &payload, "请求参数错误") {
		return
	}

	user, token, err := a.auth.Signup(c.Request.Context(), service.SignupInput{
		Name:     a.sanitizer.Sanitize(payload.Name),
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		handleAuthError(c, err)
		return
	}

	a.log.Info("user signed up", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "User created", "token": token})
}

// Login 校验凭据，写入会话并返回令牌
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "请求参数错误") {
		return
	}

	user, token, err := a.auth.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Dashboard 返回当前用户资料与连续天数
func (a *API) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	user, err := a.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		handleFootprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
		"streak":     user.Streak,
		"lastActive": user.LastActive,
	})
}

// AuthRequired 校验 Bearer 令牌，没有令牌时回退到会话
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			raw, found := strings.CutPrefix(header, "Bearer ")
			raw = strings.TrimSpace(raw)
			if !found || raw == "" {
				respondError(c, http.StatusUnauthorized, "Malformed token")
				c.Abort()
				return
			}

			userID, err := a.auth.ParseToken(raw)
			if err != nil {
				respondError(c, http.StatusForbidden, "Invalid/Expired token")
				c.Abort()
				return
			}
			c.Set(contextUserIDKey, userID)
			c.Next()
			return
		}

		session := sessions.Default(c)
		if userID, ok := session.Get(sessionUserIDKey).(uint); ok && userID > 0 {
			c.Set(contextUserIDKey, userID)
			c.Next()
			return
		}

		respondError(c, http.StatusUnauthorized, "No token provided")
		c.Abort()
	}
}

func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, footprint.ErrValidation):
		respondError(c, http.StatusBadRequest, "Missing fields")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}

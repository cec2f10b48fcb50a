package handler

import (
	"errors"
	"net/http"

	"github.com/Popolzen/linkcut/internal/config"
	"github.com/Popolzen/linkcut/internal/middleware/auth"
	"github.com/Popolzen/linkcut/internal/model"
	"github.com/Popolzen/linkcut/internal/service/users"
	"github.com/gin-gonic/gin"
)

// credentials тело запросов регистрации и входа
type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// RegisterUserHandler создает учетную запись и сразу выдает куку
func RegisterUserHandler(service users.Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "нужны login и password"})
			return
		}

		user, err := service.Register(c.Request.Context(), creds.Login, creds.Password)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrUserExists):
				c.JSON(http.StatusConflict, gin.H{"error": "логин уже занят"})
			case errors.Is(err, model.ErrInvalidFormat):
				c.JSON(http.StatusBadRequest, gin.H{"error": "нужны login и password"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось создать пользователя"})
			}
			return
		}

		auth.SetAuthCookie(c, cfg.SecretKey, user.ID)
		c.JSON(http.StatusCreated, gin.H{"login": user.Login})
	}
}

// LoginHandler проверяет пароль и выдает подписанную куку
func LoginHandler(service users.Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "нужны login и password"})
			return
		}

		user, err := service.Authenticate(c.Request.Context(), creds.Login, creds.Password)
		if err != nil {
			if errors.Is(err, model.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "неверный логин или пароль"})
				return
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "попробуйте позже"})
			return
		}

		auth.SetAuthCookie(c, cfg.SecretKey, user.ID)
		c.JSON(http.StatusOK, gin.H{"login": user.Login})
	}
}

// LogoutHandler сбрасывает куку
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.ClearAuthCookie(c)
		c.Status(http.StatusOK)
	}
}

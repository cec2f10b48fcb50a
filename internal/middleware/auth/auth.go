package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	cookieName = "user_id"
	cookieTTL  = 3600 * 24 * 30
)

// ContextUserID ключ, под которым user_id лежит в контексте gin
const ContextUserID = "user_id"

// validateCookie проверяет подпись и возвращает userID
func validateCookie(cookieValue, secret string) (string, bool) {
	parts := strings.Split(cookieValue, ".")
	if len(parts) != 2 {
		return "", false
	}
	userID, signature := parts[0], parts[1]

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(userID))
	expectedSignature := mac.Sum(nil)

	// Декодируем полученную подпись из base64
	receivedSignature, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return "", false
	}

	// Сравниваем байты HMAC
	return userID, hmac.Equal(receivedSignature, expectedSignature)
}

// signUserID подписывает UserID с использованием HMAC-SHA256
func signUserID(userID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(userID))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return userID + "." + signature
}

// Identity извлекает user_id из подписанной куки.
// Кука выдается только при логине: запрос без валидной куки
// остается анонимным, новая личность здесь не назначается.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cookieName)
		if err == nil && cookie != "" {
			if userID, ok := validateCookie(cookie, secret); ok {
				c.Set(ContextUserID, userID)
			}
		}
		c.Next()
	}
}

// RequireAuth закрывает маршрут для анонимных запросов
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется вход"})
			return
		}
		c.Next()
	}
}

// UserID возвращает идентификатор пользователя или пустую строку
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// SetAuthCookie выдает подписанную куку после успешного логина
func SetAuthCookie(c *gin.Context, secret, userID string) {
	c.SetCookie(cookieName, signUserID(userID, secret), cookieTTL, "/", "", true, true)
}

// ClearAuthCookie сбрасывает куку при выходе
func ClearAuthCookie(c *gin.Context) {
	c.SetCookie(cookieName, "", -1, "/", "", true, true)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Popolzen/linkcut/internal/audit"
	"github.com/Popolzen/linkcut/internal/db"
	"github.com/Popolzen/linkcut/internal/generator"
	"github.com/Popolzen/linkcut/internal/middleware/auth"
	"github.com/Popolzen/linkcut/internal/model"
	"github.com/Popolzen/linkcut/internal/service/links"
	"github.com/gin-gonic/gin"
)

// expiresLayout формат срока действия в запросе: локальное время без зоны
const expiresLayout = "2006-01-02T15:04"

// IndexHandler отдает главную страницу-заглушку.
// Сюда же редиректят несуществующие и истёкшие ссылки с пояснением.
func IndexHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if msg := c.Query("message"); msg != "" {
			c.String(http.StatusOK, "linkcut: %s", msg)
			return
		}
		c.String(http.StatusOK, "linkcut — сервис коротких ссылок")
	}
}

// RedirectHandler перенаправляет по короткой ссылке
func RedirectHandler(resolver links.Resolver, pub *audit.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")

		// Строка не похожая на код — сразу 404 без похода в хранилище
		if !generator.ValidCode(code) {
			c.Status(http.StatusNotFound)
			return
		}

		res, err := resolver.Resolve(c.Request.Context(), code)
		if err != nil {
			c.String(http.StatusServiceUnavailable, "Попробуйте позже")
			return
		}

		switch res.Status {
		case links.StatusRedirect:
			pub.Publish(audit.NewEvent(audit.ActionFollow, auth.UserID(c), code, res.OriginalURL))
			c.Redirect(http.StatusFound, res.OriginalURL)
		case links.StatusExpired:
			pub.Publish(audit.NewEvent(audit.ActionExpire, "", code, ""))
			c.Redirect(http.StatusFound, "/?message=ссылка+истекла")
		default:
			c.Redirect(http.StatusFound, "/?message=ссылка+не+найдена")
		}
	}
}

// ShortenHandler создает короткую ссылку для вошедшего пользователя
func ShortenHandler(registrar links.Registrar, pub *audit.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.ShortenRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "нужно поле url"})
			return
		}

		// Срок действия проверяем до любого обращения к хранилищу
		var expiresAt *time.Time
		if req.ExpiresAt != "" {
			t, err := time.ParseInLocation(expiresLayout, req.ExpiresAt, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "неверный формат срока действия"})
				return
			}
			expiresAt = &t
		}

		userID := auth.UserID(c)
		link, err := registrar.Register(c.Request.Context(), req.URL, userID, req.CustomAlias, expiresAt)
		if err != nil {
			writeRegisterError(c, err)
			return
		}

		pub.Publish(audit.NewEvent(audit.ActionShorten, userID, link.ShortCode, link.OriginalURL))

		c.JSON(http.StatusCreated, model.ShortenResponse{
			Result: registrar.PublicURL(link.ShortCode),
			QRPath: link.QRPath,
		})
	}
}

// ShortenAnonHandler создает анонимную короткую ссылку.
// Кастомные алиасы и срок действия анонимам недоступны.
func ShortenAnonHandler(registrar links.Registrar, pub *audit.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.ShortenRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "нужно поле url"})
			return
		}

		link, err := registrar.Register(c.Request.Context(), req.URL, "", "", nil)
		if err != nil {
			writeRegisterError(c, err)
			return
		}

		pub.Publish(audit.NewEvent(audit.ActionShorten, "", link.ShortCode, link.OriginalURL))

		c.JSON(http.StatusCreated, model.ShortenResponse{
			Result: registrar.PublicURL(link.ShortCode),
			QRPath: link.QRPath,
		})
	}
}

// DeleteHandler удаляет ссылку владельца.
// Чужая или несуществующая ссылка — не ошибка, а видимый пользователю отказ.
func DeleteHandler(registrar links.Registrar, pub *audit.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "неверный id"})
			return
		}

		userID := auth.UserID(c)
		deleted, err := registrar.Delete(c.Request.Context(), id, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotAuthorized) {
				c.JSON(http.StatusOK, gin.H{"deleted": false, "message": "ссылка не найдена или не принадлежит вам"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось удалить ссылку"})
			return
		}

		pub.Publish(audit.NewEvent(audit.ActionDelete, userID, deleted.ShortCode, deleted.OriginalURL))

		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// UserURLsHandler возвращает ссылки пользователя, старые первыми
func UserURLsHandler(registrar links.Registrar) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.UserID(c)

		userLinks, err := registrar.ListByUser(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить ссылки"})
			return
		}

		result := make([]model.LinkPair, 0, len(userLinks))
		for _, link := range userLinks {
			pair := model.LinkPair{
				ID:          link.ID,
				ShortURL:    registrar.PublicURL(link.ShortCode),
				OriginalURL: link.OriginalURL,
			}
			if link.ExpiresAt != nil {
				pair.ExpiresAt = link.ExpiresAt.Format(expiresLayout)
			}
			result = append(result, pair)
		}

		c.JSON(http.StatusOK, result)
	}
}

// PingHandler проверяет доступность базы данных
func PingHandler(database *db.DataBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if database == nil {
			c.String(http.StatusInternalServerError, "БД не настроена")
			return
		}
		if err := database.Ping(c.Request.Context()); err != nil {
			c.String(http.StatusInternalServerError, "БД недоступна")
			return
		}
		c.Status(http.StatusOK)
	}
}

// writeRegisterError переводит ошибки регистрации в HTTP-статусы
func writeRegisterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "алиас должен быть из 4-10 букв и цифр"})
	case errors.Is(err, model.ErrAliasTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "алиас уже занят"})
	case errors.Is(err, model.ErrCodeSpaceExhausted):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось подобрать код, попробуйте еще раз"})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "попробуйте позже"})
	}
}

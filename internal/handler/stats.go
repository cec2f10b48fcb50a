package handler

import (
	"net/http"

	"github.com/Popolzen/linkcut/internal/repository"
	"github.com/gin-gonic/gin"
)

// StatsHandler отдает количество ссылок и пользователей.
// Маршрут закрыт middleware доверенной подсети.
func StatsHandler(repo repository.LinkRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		urls, users, err := repo.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить статистику"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"urls": urls, "users": users})
	}
}

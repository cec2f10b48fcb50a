package subnet

import (
	"log"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TrustedSubnetMiddleware пускает на служебные маршруты только запросы
// из доверенной подсети (CIDR). IP клиента берется из заголовка X-Real-IP.
//
// Пустая или невалидная подсеть закрывает маршрут для всех:
//
//	internal := r.Group("/api/internal")
//	internal.Use(subnet.TrustedSubnetMiddleware(cfg.TrustedSubnet))
//	internal.GET("/stats", handler.StatsHandler(repo))
func TrustedSubnetMiddleware(trustedSubnet string) gin.HandlerFunc {
	// Если подсеть не указана, запрещаем доступ всем
	if trustedSubnet == "" {
		return func(c *gin.Context) {
			log.Println("Доступ запрещен: доверенная подсеть не настроена")
			c.AbortWithStatus(http.StatusForbidden)
		}
	}

	// Парсим CIDR один раз при создании middleware
	_, ipNet, err := net.ParseCIDR(trustedSubnet)
	if err != nil {
		log.Printf("Ошибка парсинга CIDR '%s': %v", trustedSubnet, err)
		return func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		}
	}

	return func(c *gin.Context) {
		realIP := c.GetHeader("X-Real-IP")
		if realIP == "" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		ip := net.ParseIP(realIP)
		if ip == nil {
			log.Printf("Доступ запрещен: невалидный IP '%s'", realIP)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		if !ipNet.Contains(ip) {
			log.Printf("Доступ запрещен: IP %s не входит в доверенную подсеть %s", realIP, trustedSubnet)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}

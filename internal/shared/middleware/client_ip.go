package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-checkout/internal/shared/utils"
)

// ClientIPMiddleware resolves the caller address once so handlers can store
// it with the order.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)
		c.Set(ContextKeyClientIP, clientIP)

		log.Debug().
			Str("ip", clientIP).
			Bool("is_private", utils.IsPrivateIP(clientIP)).
			Str("path", c.Request.URL.Path).
			Msg("Client IP extracted")

		c.Next()
	}
}

func GetClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextKeyClientIP); ip != "" {
		return ip
	}
	return utils.ExtractClientIP(c)
}

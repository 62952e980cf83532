package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/factory-erp/pkg/response"
)

// AllowPrivateIP reports whether the client address is loopback or private
// (10/8, 172.16/12, 192.168/16).
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		return isInternal(net.ParseIP(ClientIP(c)))
	}
}

// Only rejects requests for which allow returns false with 404.
func Only(allow AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allow(c) {
			c.Next()
			return
		}
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	}
}

package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetRealIP extracts the client IP, preferring reverse-proxy headers over
// the socket address. X-Real-IP wins, then the first public entry of
// X-Forwarded-For, then gin's ClientIP fallback.
func GetRealIP(c *gin.Context) string {
	realIP := strings.TrimSpace(c.Request.Header.Get("X-Real-IP"))
	if realIP != "" && net.ParseIP(realIP) != nil {
		return realIP
	}

	forwarded := c.Request.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		for _, ipStr := range strings.Split(forwarded, ",") {
			clientIP := strings.TrimSpace(ipStr)
			if ip := net.ParseIP(clientIP); ip != nil && !ip.IsPrivate() && !ip.IsLoopback() {
				return clientIP
			}
		}
	}

	return c.ClientIP()
}

// GetUserAgent extracts the User-Agent header
func GetUserAgent(c *gin.Context) string {
	return c.Request.UserAgent()
}

package auth

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

var staticSecurityHeaders = map[string]string{
	"X-Frame-Options":        "DENY",
	"X-Content-Type-Options": "nosniff",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
	"Permissions-Policy":     "camera=(), geolocation=(), microphone=(), payment=(), usb=()",
}

// SecurityHeadersMiddleware adds browser hardening headers to every response.
// The import page only posts forms to itself and to no third party, so the
// content security policy stays close to 'self'.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		for name, value := range staticSecurityHeaders {
			c.Header(name, value)
		}
		c.Header("Content-Security-Policy", contentSecurityPolicy(c.Request.Host))
		c.Next()
	}
}

func contentSecurityPolicy(host string) string {
	// 'self' alone is rejected by some browsers behind TLS-terminating proxies.
	formAction := "'self'"
	if host != "" {
		formAction += " https://" + host
	}
	return strings.Join([]string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"frame-ancestors 'none'",
		"form-action " + formAction,
	}, "; ")
}

// StrictTransportSecurityMiddleware sets HSTS on requests that arrived over
// HTTPS, directly or through a proxy.
func StrictTransportSecurityMiddleware(maxAge int) gin.HandlerFunc {
	value := fmt.Sprintf("max-age=%d; includeSubDomains", maxAge)
	return func(c *gin.Context) {
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Header("Strict-Transport-Security", value)
		}
		c.Next()
	}
}

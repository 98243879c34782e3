package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	C "github.com/swastikanata/ecommerce-dashboard/config"
	U "github.com/swastikanata/ecommerce-dashboard/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// scope constants.
const SCOPE_REQ_ID = "requestId"

const HEADER_REQUEST_ID = "X-Request-Id"

// cors prefix constants.
const PREFIX_PATH_API = "/api/"

// CustomCors opens the json api to any origin. Pages are same-origin, except in
// development where the local frontends are allowed.
func CustomCors() gin.HandlerFunc {
	return func(c *gin.Context) {
		corsConfig := cors.DefaultConfig()

		if strings.HasPrefix(c.Request.URL.Path, PREFIX_PATH_API) {
			corsConfig.AllowAllOrigins = true
			corsConfig.AddAllowHeaders(HEADER_REQUEST_ID)
		} else if C.IsDevelopment() {
			corsConfig.AllowOrigins = []string{"http://localhost:8080", "http://localhost:3000", "http://localhost:8501"}
		} else {
			c.Next()
			return
		}

		// Applys custom cors and proceed.
		cors.New(corsConfig)(c)
		c.Next()
	}
}

// RequestIdGenerator keeps the caller's X-Request-Id when it is a valid uuid, assigns a
// new one otherwise, and echoes it on the response.
func RequestIdGenerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.Request.Header.Get(HEADER_REQUEST_ID))
		if !U.IsValidUUID(reqID) {
			if reqID != "" {
				log.WithField("requestId", reqID).Debug("Invalid request id replaced.")
			}
			reqID = U.GetUUID()
		}
		U.SetScope(c, SCOPE_REQ_ID, reqID)
		c.Writer.Header().Set(HEADER_REQUEST_ID, reqID)
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		logCtx := log.WithFields(log.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    status,
			"latency":   time.Since(start).Milliseconds(),
			"clientIP":  c.ClientIP(),
			"RequestId": U.GetScopeByKeyAsString(c, SCOPE_REQ_ID),
		})
		if len(c.Errors) > 0 {
			logCtx = logCtx.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			logCtx.Error("Request failed.")
		case status >= http.StatusBadRequest:
			logCtx.Warn("Request rejected.")
		default:
			logCtx.Info("Request served.")
		}
	}
}

// Recovery turns a panic in a handler into a 500 json response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"path":      c.Request.URL.Path,
					"RequestId": U.GetScopeByKeyAsString(c, SCOPE_REQ_ID),
					"panic":     fmt.Sprintf("%v", r),
				}).Error("Recovered from panic.")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
			}
		}()
		c.Next()
	}
}

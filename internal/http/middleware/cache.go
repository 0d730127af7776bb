package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"offsetsdb/internal/cache"
	"offsetsdb/internal/utils"
)

// ResponseCache serves GET responses from the store when present and
// captures successful ones on the way out. Cache failures are logged and
// the request proceeds uncached.
func ResponseCache(store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cache.Key(c.Request.Method, c.Request.URL.Path, c.Request.URL.Query())
		if body, ok, err := store.Get(c.Request.Context(), key); err != nil {
			utils.LogEvent(GetRequestID(c), "cache", "get_failed", err.Error())
		} else if ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if c.Writer.Status() == http.StatusOK && w.body.Len() > 0 {
			if err := store.Set(c.Request.Context(), key, w.body.Bytes(), cache.DefaultTTL); err != nil {
				utils.LogEvent(GetRequestID(c), "cache", "set_failed", err.Error())
			}
		}
	}
}

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

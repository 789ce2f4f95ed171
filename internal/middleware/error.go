package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// responseRecorder is a custom ResponseWriter to capture status and body
type responseRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	body        string
	passthrough bool
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.statusCode = statusCode
	r.passthrough = statusCode < 400 || isJSON(r.Header().Get("Content-Type"))
	if !r.passthrough {
		r.Header().Set("Content-Type", "application/json")
		r.Header().Del("Content-Length")
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	if !r.passthrough {
		r.body += string(b)
		return len(b), nil
	}
	return r.ResponseWriter.Write(b)
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, "application/json")
}

// ErrorHandler wraps the whole HTTP stack: plain-text error replies (404 from
// the mux, http.Error) are rewritten as JSON, and panics become a 500.
func ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logrus.WithField("panic", err).WithField("path", r.URL.Path).Error("recovered from panic")
				if !rec.wroteHeader {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal Server Error", Code: "internal"})
				}
				return
			}
			if rec.wroteHeader && !rec.passthrough {
				json.NewEncoder(w).Encode(ErrorResponse{Error: strings.TrimSpace(rec.body)})
			}
		}()

		next.ServeHTTP(rec, r)
	})
}

// Recovery turns a panic inside a gin handler into a JSON 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logrus.WithField("panic", recovered).WithField("path", c.Request.URL.Path).Error("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error", Code: "internal"})
	})
}

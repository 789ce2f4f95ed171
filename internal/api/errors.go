package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
)

// Error codes carried in the "code" field of error bodies.
const (
	CodeValidation   = "validation"
	CodeConflict     = "conflict"
	CodeNotFound     = "not_found"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeInternal     = "internal"
)

// ErrorBody is the JSON shape of every error reply.
type ErrorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

// fieldName reports validation errors under the wire name of a field.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// HandleServiceError writes the reply for an error returned by a service.
func HandleServiceError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, CodeInternal
	switch {
	case errors.Is(err, service.ErrValidation):
		status, code = http.StatusBadRequest, CodeValidation
	case errors.Is(err, service.ErrConflict):
		status, code = http.StatusConflict, CodeConflict
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, service.ErrUnauthorized):
		status, code = http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status, code = http.StatusForbidden, CodeForbidden
	}

	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		c.Error(err)
		c.AbortWithStatusJSON(status, ErrorBody{Error: "internal server error", Code: code})
		return
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: err.Error(), Code: code})
}

// handleBindError reports a request body that could not be decoded or
// failed its binding rules.
func handleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = validationMessage(fe)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
			Error:  "request validation failed",
			Code:   CodeValidation,
			Fields: fields,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
		Error: fmt.Sprintf("invalid request body: %v", err),
		Code:  CodeValidation,
	})
}

// fieldPath drops the struct name from the namespace, so nested step errors
// read "steps[0].description".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

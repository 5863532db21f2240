package api

import (
	"fmt"
	"strings"

	"nnact/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// writeError 按错误类别映射 HTTP 状态码
func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		ValidationFailed(c, verr.Error(), verr.Fields)
	case errors.Is(err, errors.NotValid), errors.Is(err, errors.BadRequest):
		BadRequest(c, err.Error())
	case errors.Is(err, errors.NotFound):
		NotFound(c, err.Error())
	case errors.Is(err, errors.AlreadyExists):
		Conflict(c, err.Error())
	case errors.Is(err, errors.Unauthorized):
		Unauthorized(c, err.Error())
	default:
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).WithError(err).Error("request failed")
		InternalError(c, SafeErrorMessage(err, "Internal server error"))
	}
}

// bindError 把 gin 绑定错误转成字段级 400
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		BadRequest(c, "Invalid request body: "+SafeErrorMessage(err, "malformed JSON"))
		return
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, ok := fields[fe.Field()]; !ok {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}
	ValidationFailed(c, "Validation failed", fields)
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), "'", ""))
	case "isodate":
		return name + " must be a date in YYYY-MM-DD format"
	case "hhmm":
		return name + " must be a time in HH:MM (24h) format"
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", name, fe.Tag())
	}
}

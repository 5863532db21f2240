package api

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func init() {
	RegisterValidators()
}

// RegisterValidators 注册自定义校验规则，错误字段名使用 json 标签
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("isodate", isISODate)
	_ = v.RegisterValidation("hhmm", isHHMM)
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// isISODate YYYY-MM-DD
func isISODate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// isHHMM 24 小时制 HH:MM
func isHHMM(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != len(timeLayout) {
		return false
	}
	_, err := time.Parse(timeLayout, s)
	return err == nil
}

package api

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	cheqdAddrRe = regexp.MustCompile(`^cheqd1[0-9a-z]{38}$`)
	bookDateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// RegisterValidators installs the request-level validation rules on gin's
// binding engine. Safe to call more than once.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("cheqdaddr", func(fl validator.FieldLevel) bool {
		return cheqdAddrRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("bookdate", func(fl validator.FieldLevel) bool {
		return bookDateRe.MatchString(fl.Field().String())
	})
}

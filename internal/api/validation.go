package api

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tastebook/backend/internal/service"
)

// RegisterValidators installs the custom binding rules used by request
// types. Gin keeps one validator engine per process, so calling this more
// than once just re-registers the same rules.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return service.ValidatePassword(fl.Field().String()) == nil
	})
}

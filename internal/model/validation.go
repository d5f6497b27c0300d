package model

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs the domain validators on gin's binding
// engine so request structs can use them in binding tags.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("national_id", func(fl validator.FieldLevel) bool {
		return ValidNationalID(fl.Field().String())
	})
}

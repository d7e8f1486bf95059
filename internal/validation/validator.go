// Package validation plugs go-playground/validator into Fiber's Bind
// pipeline, so request structs are checked against their validate tags as
// part of every Bind().Body call.
package validation

import "github.com/go-playground/validator/v10"

// StructValidator implements fiber.Config.StructValidator.
type StructValidator struct {
	validate *validator.Validate
}

func New() *StructValidator {
	return &StructValidator{validate: validator.New()}
}

func (v *StructValidator) Validate(out any) error {
	return v.validate.Struct(out)
}

package validator

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// playername rejects control characters; the name ends up in every turn
	// and win message.
	if err := validate.RegisterValidation("playername", validPlayerName); err != nil {
		panic(err)
	}
}

// GetValidator returns the shared validator for client messages.
func GetValidator() *validator.Validate {
	return validate
}

func validPlayerName(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

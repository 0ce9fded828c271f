package validator

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
)

const DateLayout = "2006-01-02"

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	utrPattern   = regexp.MustCompile(`^[0-9]{12}$`)
)

// registerCustomRules installs the gym-specific tags. A failed registration is a
// programming error, so start-up stops.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("phone10", validatePhone)
	mustRegister("utr12", validateUTR)
	mustRegister("is-gender", validateGender)
	mustRegister("is-payment-method", validatePaymentMethod)
	mustRegister("is-user-role", validateUserRole)
	mustRegister("date-ymd", validateDate)
}

// Empty values pass every rule below; 'required' handles presence.

func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || phonePattern.MatchString(strings.TrimSpace(value))
}

func validateUTR(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || IsValidUTR(strings.TrimSpace(value))
}

func validateGender(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.Gender(strings.ToLower(value)) {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return true
	default:
		return false
	}
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PaymentMethod(value) {
	case models.PaymentMethodUPI, models.PaymentMethodCash:
		return true
	default:
		return false
	}
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := models.RoleDescriptions[models.RoleName(value)]
	return ok
}

func validateDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// IsValidPhone is the same check as the phone10 tag, for values that do not come through a DTO.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsValidUTR reports whether utr is a 12 digit UPI transaction reference.
func IsValidUTR(utr string) bool {
	return utrPattern.MatchString(utr)
}

package validator

import (
	"log"

	"fieldserve_backend/internal/models"
	"fieldserve_backend/internal/services"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules installs the domain validation tags. A rule that
// fails to register is a startup error, not a runtime one.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-order-status", validateOrderStatus)
	mustRegister("is-owner-kind", validateOwnerKind)
}

// Empty values are left to the 'required' tag in all rules below.

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.UserRole(value).Valid()
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.OrderStatus(value).Valid()
}

func validateOwnerKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := services.OwnerKindByName(value)
	return ok
}

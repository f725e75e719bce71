package dto

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidations installs the custom binding rules used by request DTOs
// on gin's validator engine.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return RegisterDecimalRules(v)
}

// RegisterDecimalRules adds decimal_gte0 and decimal_gt0 to v.
func RegisterDecimalRules(v *validator.Validate) error {
	if err := v.RegisterValidation("decimal_gte0", decimalRule(func(d decimal.Decimal) bool { return !d.IsNegative() })); err != nil {
		return err
	}
	return v.RegisterValidation("decimal_gt0", decimalRule(func(d decimal.Decimal) bool { return d.IsPositive() }))
}

func decimalRule(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		switch d := fl.Field().Interface().(type) {
		case decimal.Decimal:
			return ok(d)
		case *decimal.Decimal:
			return d == nil || ok(*d)
		default:
			return false
		}
	}
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func moneyPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(2)
	return &r
}

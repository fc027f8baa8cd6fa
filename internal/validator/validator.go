// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_side", validateTransactionSide)
		_ = v.RegisterValidation("asset_kind", validateAssetKind)
		_ = v.RegisterValidation("income_type", validateIncomeType)
	}
}

func validateTransactionSide(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "buy", "sell":
		return true
	}
	return false
}

func validateAssetKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "crypto", "stock", "fii":
		return true
	}
	return false
}

func validateIncomeType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "dividends", "jcp", "yield":
		return true
	}
	return false
}

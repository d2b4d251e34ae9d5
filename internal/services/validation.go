package services

import (
	"regexp"
	"strings"

	"rentguy/internal/common"

	"github.com/shopspring/decimal"
)

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	countryPattern  = regexp.MustCompile(`^[A-Z]{2}$`)
	hundred         = decimal.NewFromInt(100)
)

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validateCurrency(field, code string) error {
	if !currencyPattern.MatchString(code) {
		return common.NewValidation("%s must be a 3-letter currency code", field)
	}
	return nil
}

func validateCountry(field, code string) error {
	if !countryPattern.MatchString(code) {
		return common.NewValidation("%s must be a 2-letter country code", field)
	}
	return nil
}

func validateRate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return common.NewValidation("%s must be between 0 and 100", field)
	}
	return nil
}

func validateNonNegative(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return common.NewValidation("%s cannot be negative", field)
	}
	return nil
}

func validateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return common.NewValidation("%s is required", field)
	}
	return nil
}

func validationErr(msg string) error {
	return common.NewValidation("%s", msg)
}

package validator

import (
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// IsValidAddress returns is an address valid or not
func IsValidAddress(address string) bool {
	if !common.IsHexAddress(address) || !strings.HasPrefix(address, "0x") {
		return false
	}
	checksum := common.HexToAddress(address).Hex()
	return strings.ToLower(checksum) == strings.ToLower(address)
}

// IsWei returns whether s is a non negative base 10 integer
func IsWei(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// New returns a validator with the ledger tags registered:
//   address: 0x prefixed 20 bytes hex
//   wei:     decimal integer string
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("address", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && IsValidAddress(fl.Field().String())
	})
	_ = v.RegisterValidation("wei", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && IsWei(fl.Field().String())
	})
	return v
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

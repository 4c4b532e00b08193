package validators

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate = newValidator()

	skuPattern    = regexp.MustCompile(`^[a-zA-Z0-9_]{1,20}$`)
	ratioEpsilon  = decimal.New(1, -6)
	barrelRatioOK = decimal.NewFromInt(1)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("potion_ratio", validatePotionRatio)
	_ = v.RegisterValidation("barrel_ratio", validateBarrelRatio)
	_ = v.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		return IsSKU(fl.Field().String())
	})
	return v
}

// IsSKU reports whether value is a well-formed potion or barrel sku.
func IsSKU(value string) bool {
	return skuPattern.MatchString(value)
}

func validatePotionRatio(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice || field.Len() != len(types.PotionType{}) {
		return false
	}
	sum := 0
	for i := 0; i < field.Len(); i++ {
		v := int(field.Index(i).Int())
		if v < 0 || v > types.RatioTotal {
			return false
		}
		sum += v
	}
	return sum == types.RatioTotal
}

func validateBarrelRatio(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice || field.Len() != len(types.PotionType{}) {
		return false
	}
	sum := decimal.Zero
	for i := 0; i < field.Len(); i++ {
		v := field.Index(i).Float()
		if v < 0 || v > 1 {
			return false
		}
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum.Sub(barrelRatioOK).Abs().LessThanOrEqual(ratioEpsilon)
}

// Struct validates an already decoded struct, or each struct element of a slice.
func Struct(dest any) error {
	value := reflect.Indirect(reflect.ValueOf(dest))
	switch value.Kind() {
	case reflect.Struct:
		if err := validate.Struct(dest); err != nil {
			return formatValidationErrors(err, "")
		}
	case reflect.Slice:
		for i := 0; i < value.Len(); i++ {
			elem := reflect.Indirect(value.Index(i))
			if elem.Kind() != reflect.Struct {
				continue
			}
			if err := validate.Struct(elem.Interface()); err != nil {
				return formatValidationErrors(err, fmt.Sprintf("%d.", i))
			}
		}
	}
	return nil
}

func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	return Struct(dest)
}

func formatValidationErrors(err error, prefix string) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[prefix+fieldKey(fieldErr)] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	if ns == "" {
		return fe.Field()
	}
	return ns
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "potion_ratio":
		return "must be 4 integers summing to 100"
	case "barrel_ratio":
		return "must be 4 fractions summing to 1"
	case "sku":
		return "must be 1-20 letters, digits or underscores"
	}
	return "is invalid"
}

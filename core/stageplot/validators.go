package stageplot

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/stagedock/stagedock/core"
)

var (
	iconTypeTag  = "icontype"
	iconTypeText = "unknown icon type"

	providedByTag  = "providedby"
	providedByText = "must be one of: artist, venue, unspecified"

	channelNumTag  = "channelnum"
	channelNumText = "channel number must be a positive integer"
)

func init() {
	_ = core.Validate.RegisterValidation(iconTypeTag, iconTypeValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, iconTypeTag, iconTypeText)

	_ = core.Validate.RegisterValidation(providedByTag, providedByValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, providedByTag, providedByText)

	core.Validate.RegisterCustomTypeFunc(nullIntValuer, null.Int{})
	_ = core.Validate.RegisterValidation(channelNumTag, channelNumValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, channelNumTag, channelNumText)
}

// nullIntValuer lets the validator see through null.Int.
func nullIntValuer(field reflect.Value) interface{} {
	if n, ok := field.Interface().(null.Int); ok {
		if n.Valid {
			return n.Int
		}
	}
	return nil
}

func iconTypeValidation(fl validator.FieldLevel) bool {
	_, ok := IconDefFor(IconType(fl.Field().String()))
	return ok
}

func providedByValidation(fl validator.FieldLevel) bool {
	val := ProvidedBy(fl.Field().String())
	for _, p := range AllProvidedBy {
		if val == p {
			return true
		}
	}
	return false
}

func channelNumValidation(fl validator.FieldLevel) bool {
	switch n := fl.Field().Interface().(type) {
	case int:
		return n >= 1
	case int64:
		return n >= 1
	}
	return true
}

// Package namer contains the naming conventions used to derive the store keys.
package namer

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/neuronlabs/tunables/errors"
)

// ErrNamingConvention is the error classification for the naming convention issues.
var ErrNamingConvention = errors.New("naming convention")

// NamingConvention is the naming convention used for the derived keys.
type NamingConvention int

const (
	// Raw is the naming convention that doesn't change the name.
	Raw NamingConvention = iota
	// SnakeCase is the naming convention where all words are in lower case letters separated by the '_' character.
	// i.e.: naming_convention
	SnakeCase
	// CamelCase is the naming convention where words are not separated by any character or space and each word starts
	// with a capital letter.
	// i.e.: NamingConvention
	CamelCase
	// LowerCamelCase is the naming convention where words are not separated by any character or space and all but first words starts
	// with a capital letter.
	// i.e.: namingConvention
	LowerCamelCase
	// KebabCase is the naming convention where all words are in lower case letters separated by the '-' character.
	// i.e.: naming-convention
	KebabCase
)

// Parse parses the naming convention by its name.
func (n *NamingConvention) Parse(name string) error {
	switch strings.ToLower(name) {
	case "raw", "":
		*n = Raw
	case "snake":
		*n = SnakeCase
	case "lower_camel":
		*n = LowerCamelCase
	case "camel":
		*n = CamelCase
	case "kebab":
		*n = KebabCase
	default:
		return errors.WrapDetf(ErrNamingConvention, "unknown naming convention name: %s", name)
	}
	return nil
}

// Namer gets the Namer function for given naming convention.
func (n NamingConvention) Namer() Namer {
	switch n {
	case SnakeCase:
		return NamingSnake
	case CamelCase:
		return NamingCamel
	case LowerCamelCase:
		return NamingLowerCamel
	case KebabCase:
		return NamingKebab
	default:
		return NamingRaw
	}
}

// Name formats the 'raw' name with the naming convention.
func (n NamingConvention) Name(raw string) string {
	return n.Namer()(raw)
}

func (n NamingConvention) String() string {
	switch n {
	case Raw:
		return "raw"
	case SnakeCase:
		return "snake"
	case CamelCase:
		return "camel"
	case LowerCamelCase:
		return "lower_camel"
	case KebabCase:
		return "kebab"
	}
	return "unknown"
}

// Namer is the function that change the name with some prepared formatting.
type Namer func(string) string

// NamingRaw is a Namer function that returns the 'raw' name unchanged.
func NamingRaw(raw string) string {
	return raw
}

// NamingSnake is a Namer function that converts the 'TestingModelName' into the 'testing_model_name' format.
func NamingSnake(raw string) string {
	return strcase.ToSnake(raw)
}

// NamingKebab is a Namer function that converts the 'TestingModelName' into the 'testing-model-name' format.
func NamingKebab(raw string) string {
	return strcase.ToKebab(raw)
}

// NamingCamel is a Namer function that converts the 'TestingModelName' into the 'TestingModelName' format.
func NamingCamel(raw string) string {
	return strcase.ToCamel(raw)
}

// NamingLowerCamel is a Namer function that converts the 'TestingModelName' into the 'testingModelName' format.
func NamingLowerCamel(raw string) string {
	return strcase.ToLowerCamel(raw)
}

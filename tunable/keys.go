package tunable

import (
	"regexp"
	"runtime"
	"strings"
	"unicode"

	"github.com/neuronlabs/tunables/namer"
	"github.com/neuronlabs/tunables/store"
)

// DefaultPrefix is the default namespace prefix of the components.
const DefaultPrefix = "components"

// NamespaceRoot gets the namespace root key for the component 'name' bound under 'prefix'.
// An empty prefix places the component directly under the store root.
//
//	NamespaceRoot("components", "drive") -> "/components/drive"
//	NamespaceRoot("", "drive") -> "/drive"
func NamespaceRoot(prefix, name string) string {
	return store.JoinKey(prefix, name)
}

// TunableKey gets the fully qualified key of the tunable 'name' stored within optional 'subtable'.
func TunableKey(root, subtable, name string) string {
	return store.JoinKey(root, subtable, name)
}

// FeedbackKey derives the feedback key relative to the namespace root. The explicit 'key' is returned as is.
// Otherwise a 'get_' prefix is stripped from the 'method' name and the remainder is used, or the full method
// name when there is no such prefix. With the namer.Raw convention the name is not changed any further.
// Any other convention also strips the 'Get' prefix and formats the result i.e.:
//
//	FeedbackKey("GetAngle", "", namer.Raw) -> "GetAngle"
//	FeedbackKey("GetAngle", "", namer.LowerCamelCase) -> "angle"
func FeedbackKey(method, key string, convention namer.NamingConvention) string {
	if key != "" {
		return strings.Trim(key, store.PathSeparator)
	}
	name := method
	switch {
	case len(name) > 4 && strings.HasPrefix(name, "get_"):
		name = name[4:]
	case convention != namer.Raw && len(name) > 3 && strings.HasPrefix(name, "Get") && !unicode.IsLower(rune(name[3])):
		name = name[3:]
	}
	if convention == namer.Raw {
		return name
	}
	return convention.Name(name)
}

var anonymousFunc = regexp.MustCompile(`^(func)?\d+$`)

// funcName gets the function or method name of the function with the entry point 'pc'.
// Anonymous functions have no name.
func funcName(pc uintptr) string {
	f := runtime.FuncForPC(pc)
	if f == nil {
		return ""
	}
	name := strings.TrimSuffix(f.Name(), "-fm")
	name = strings.ReplaceAll(name, "[...]", "")
	if i := strings.LastIndexByte(name, '.'); i != -1 {
		name = name[i+1:]
	}
	if anonymousFunc.MatchString(name) {
		return ""
	}
	return name
}

func isPrivate(name string) bool {
	return strings.HasPrefix(name, "_")
}

func validName(name string) bool {
	return name != "" && !strings.Contains(name, store.PathSeparator)
}

package ripple

import (
	"math"
	"reflect"

	"github.com/dropDatabas3/rippleid/internal/providers"
)

// Per-request options understood by AuthorizationParams.
const (
	// OptionType set to TypeSignup sends the user to the registration page.
	OptionType = "_type"
	// OptionCIPDone tells Ripple ID the caller already ran the Customer
	// Identification Process for this user. Forwarded verbatim.
	OptionCIPDone = "_cip_done"

	TypeSignup = "signup"

	ParamLogin    = "_login"
	LoginRegister = "register"
)

// AuthorizationParams returns the extra query parameters for the Ripple ID
// authorization dialog. Only _type=signup and a truthy _cip_done are
// recognized; every other option is dropped.
func (s *Strategy) AuthorizationParams(opts providers.AuthOptions) map[string]any {
	return authorizationParams(opts)
}

func authorizationParams(opts providers.AuthOptions) map[string]any {
	params := make(map[string]any)
	if t, ok := opts[OptionType].(string); ok && t == TypeSignup {
		params[ParamLogin] = LoginRegister
	}
	if v, ok := opts[OptionCIPDone]; ok && truthy(v) {
		params[OptionCIPDone] = v
	}
	return params
}

// truthy: nil, false, "", and numeric zero are false; anything else is true.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

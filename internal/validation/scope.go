// Package validation valida los valores de configuración que viajan al proveedor.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Scope tokens: minúsculas, empiezan y terminan en [a-z0-9], en el medio
// también [:_.-], largo 1..64. Sin espacios ni ';'.
var scopeNameRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9:_\.-]{0,62}[a-z0-9])?$`)

// ErrInvalidScope marca un scope que no puede enviarse al proveedor.
var ErrInvalidScope = errors.New("invalid scope")

// ValidScopeName returns true if the provided scope name matches the allowed pattern.
func ValidScopeName(name string) bool {
	return scopeNameRe.MatchString(name)
}

// CheckScopes valida cada scope y que ninguno contenga sep, ya que el
// proveedor recibe la lista unida con ese separador.
func CheckScopes(scopes []string, sep string) error {
	for _, sc := range scopes {
		if !ValidScopeName(sc) {
			return fmt.Errorf("%w: %q", ErrInvalidScope, sc)
		}
		if sep != "" && strings.Contains(sc, sep) {
			return fmt.Errorf("%w: %q contains separator %q", ErrInvalidScope, sc, sep)
		}
	}
	return nil
}

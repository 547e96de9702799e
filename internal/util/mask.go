// Package util tiene helpers chicos para logs.
package util

import "strings"

// MaskEmail deja la primera letra del usuario y del dominio: a…@e….com
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	i := strings.IndexByte(s, '@')
	if i <= 0 {
		return MaskIdentity(s)
	}
	user, dom := s[:i], s[i+1:]
	if u := []rune(user); len(u) > 1 {
		user = string(u[:1]) + "…"
	}
	dparts := strings.Split(dom, ".")
	if d := []rune(dparts[0]); len(d) > 1 {
		dparts[0] = string(d[:1]) + "…"
	}
	return user + "@" + strings.Join(dparts, ".")
}

// MaskIdentity recorta un identificador opaco (cuenta Ripple, username) a
// sus primeros y últimos 4 caracteres.
func MaskIdentity(s string) string {
	r := []rune(strings.TrimSpace(s))
	switch {
	case len(r) == 0:
		return ""
	case len(r) <= 3:
		return "***"
	case len(r) <= 10:
		return string(r[:1]) + "…" + string(r[len(r)-1:])
	}
	return string(r[:4]) + "…" + string(r[len(r)-4:])
}

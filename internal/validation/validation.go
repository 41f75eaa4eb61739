// Package validation contiene las reglas de formato compartidas por los
// servicios admin.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Reglas de código (tenants y tipos de diccionario):
// - Empieza con letra.
// - Sigue con [A-Za-z0-9_.-].
// - Largo 1..50.
//
// Válidos: sex, order_status, Tenant-01
// Inválidos: "", 1abc, "con espacio", codigo;drop
var codeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.\-]{0,49}$`)

// ValidCode indica si s cumple las reglas de código.
func ValidCode(s string) bool {
	return codeRe.MatchString(s)
}

// Un path de API es absoluto, sin espacios ni query string.
var apiPathRe = regexp.MustCompile(`^/[A-Za-z0-9_\-./{}:]*$`)

// ValidApiPath indica si p es un path de API válido.
func ValidApiPath(p string) bool {
	return len(p) <= 500 && apiPathRe.MatchString(p)
}

var httpMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "PATCH": {}, "DELETE": {}, "HEAD": {}, "OPTIONS": {},
}

// NormalizeHttpMethods valida una lista de métodos separada por comas y la
// devuelve en mayúsculas, sin duplicados ni espacios. "" es válido.
func NormalizeHttpMethods(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", true
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, 4)
	for _, m := range strings.Split(s, ",") {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if _, ok := httpMethods[m]; !ok {
			return "", false
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return strings.Join(out, ","), true
}

// MaxLen indica si s tiene a lo sumo n caracteres (runas, no bytes).
func MaxLen(s string, n int) bool {
	return utf8.RuneCountInString(s) <= n
}

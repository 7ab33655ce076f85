package validation

import "regexp"

// Reglas para nombres de permiso OAuth de Square:
// - Mayúsculas y dígitos, separados por "_" (APPOINTMENTS_READ, MERCHANT_PROFILE_READ).
// - Empieza y termina en [A-Z0-9].
// - Largo 1..64.
//
// El token response viene de Square, pero igual filtramos antes de
// persistir: un scope malformado no debe terminar en la base.
var squareScopeRe = regexp.MustCompile(`^[A-Z0-9](?:[A-Z0-9_]{0,62}[A-Z0-9])?$`)

// ValidSquareScope devuelve true si el nombre cumple el patrón permitido.
func ValidSquareScope(name string) bool {
	return squareScopeRe.MatchString(name)
}

// FilterSquareScopes descarta los scopes que no cumplen el patrón,
// preservando el orden original. Devuelve nil si no sobrevive ninguno.
func FilterSquareScopes(scopes []string) []string {
	var out []string
	for _, s := range scopes {
		if ValidSquareScope(s) {
			out = append(out, s)
		}
	}
	return out
}

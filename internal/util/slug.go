package util

import (
	"strings"
	"unicode"
)

// Slugify deriva un slug URL-safe de un nombre de negocio: minúsculas,
// [a-z0-9] y guiones, sin guiones al borde. Puede devolver "" si el nombre
// no aporta ningún carácter usable (el caller decide el fallback).
func Slugify(name string) string {
	var b strings.Builder
	prevDash := true // evita guion inicial
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case unicode.IsSpace(r), r == '-', r == '_', r == '.', r == '/':
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

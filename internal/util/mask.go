package util

import "strings"

// MaskEmail deja reconocible un email para logs sin exponerlo entero:
// primera letra del usuario y del dominio, el resto ofuscado.
// "owner@example.com" → "o***@e***.com". Entrada sin "@" se ofusca
// completa.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		return "***"
	}
	user, domain := s[:at], s[at+1:]
	masked := user[:1] + "***"
	if dot := strings.LastIndexByte(domain, '.'); dot > 0 {
		return masked + "@" + domain[:1] + "***" + domain[dot:]
	}
	return masked + "@" + domain[:1] + "***"
}

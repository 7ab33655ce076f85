// Package helpers agrupa utilidades compartidas por controllers.
package helpers

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/dropDatabas3/frontdesk/internal/http/errors"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// ReadJSON decodifica el body JSON en dst con límite de tamaño y campos
// desconocidos rechazados. Errores se traducen a la taxonomía HTTP.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.ErrInvalidJSON.WithCause(err)
	}
	return nil
}

// WriteJSON serializa v con el status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WantsJSON decide la negociación de contenido del callback OAuth:
// JSON si el cliente lo pide explícitamente, HTML en caso contrario.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json")
}

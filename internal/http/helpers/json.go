// Package helpers agrupa utilidades de request/response para los controllers.
package helpers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/adminhub/internal/http/errors"
)

// MaxBodyBytes limita el body de los requests JSON.
const MaxBodyBytes = 1 << 20

// ReadJSON decodifica el body en v de forma tolerante (no falla por campos
// desconocidos). Un body vacío deja v sin tocar.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if ct != "" && !strings.Contains(ct, "application/json") {
		return httperrors.ErrInvalidJSON.WithDetail("Content-Type debe ser application/json")
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return httperrors.ErrBodyTooLarge
		}
		return httperrors.ErrInvalidJSON.WithCause(err)
	}
	return nil
}

// PathID lee el parámetro de ruta name como id positivo.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, httperrors.ErrInvalidParameter.WithDetail(name + " inválido: " + raw)
	}
	return id, nil
}

// QueryBool lee un booleano del query string; ausente o inválido es false.
func QueryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

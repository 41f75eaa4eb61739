package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrNotFound.WithDetail("staff 3"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, ErrNotFound.Message, env.Msg)
	assert.Equal(t, "staff 3", env.Detail)
	assert.Nil(t, env.Data)
}

func TestWriteError_WrappedAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("controller: %w", ErrConflict))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode(t, rec).Code)
}

func TestWriteError_PlainErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, stderrors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", env.Code)
	assert.Empty(t, env.Detail)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestWriteOK(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteOK(rec, http.StatusCreated, map[string]int{"id": 5})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"code":"OK","msg":"","data":{"id":5}}`, rec.Body.String())
}

func TestWithDetailDoesNotMutateCatalogue(t *testing.T) {
	e := ErrValidation.WithDetail("name requerido").WithCause(stderrors.New("x"))
	assert.Empty(t, ErrValidation.Detail)
	assert.Nil(t, ErrValidation.Err)
	assert.Equal(t, "name requerido", e.Detail)
	assert.ErrorContains(t, e, "VALIDATION_ERROR")
}

package errors

import (
	"encoding/json"
	"net/http"
)

// Envelope es la respuesta uniforme de la API:
//
//	{"success":true,"code":"OK","msg":"","data":...}
//	{"success":false,"code":"NOT_FOUND","msg":"...","detail":"..."}
type Envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Msg     string `json:"msg"`
	Data    any    `json:"data,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// CodeOK es el código de las respuestas exitosas.
const CodeOK = "OK"

// WriteError escribe err con el envelope uniforme. Los errores que no son
// AppError salen como INTERNAL_ERROR sin exponer la causa.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)
	writeEnvelope(w, appErr.HTTPStatus, Envelope{
		Success: false,
		Code:    appErr.Code,
		Msg:     appErr.Message,
		Detail:  appErr.Detail,
	})
}

// WriteOK escribe data con el envelope uniforme.
func WriteOK(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, Envelope{Success: true, Code: CodeOK, Data: data})
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

package repository

import "errors"

var (
	// ErrNotFound indica que el recurso solicitado no existe (o fue eliminado).
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto (ej: código duplicado).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPreconditionFailed indica que la versión enviada no coincide con la persistida.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrNoDatabase indica que el tenant no tiene base de datos configurada.
	ErrNoDatabase = errors.New("no database configured")

	// ErrTenantDisabled indica que el tenant existe pero está deshabilitado.
	ErrTenantDisabled = errors.New("tenant disabled")

	// ErrUnauthorized indica que la operación no está autorizada.
	ErrUnauthorized = errors.New("unauthorized")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInvalidInput verifica si el error es ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsPreconditionFailed verifica si el error es ErrPreconditionFailed.
func IsPreconditionFailed(err error) bool {
	return errors.Is(err, ErrPreconditionFailed)
}

// IsNoDatabase verifica si el error es ErrNoDatabase.
func IsNoDatabase(err error) bool {
	return errors.Is(err, ErrNoDatabase)
}

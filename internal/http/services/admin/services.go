// Package admin contiene los services de la API /api/admin: validan la
// entrada, arman las entidades y delegan en los repositorios del store.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/security/secretbox"
	"github.com/dropDatabas3/adminhub/internal/store"
)

// MigrationRecorder recibe el resultado de cada migración de tenant (métricas).
type MigrationRecorder interface {
	RecordTenantMigration(err error, d time.Duration)
}

// Deps contiene las dependencias para crear los services admin.
type Deps struct {
	DAL        store.DataAccessLayer
	Secrets    *secretbox.Box
	Migrations MigrationRecorder
}

// Services agrupa todos los services del dominio admin.
type Services struct {
	Staff           StaffService
	DictionaryTypes DictionaryTypeService
	Apis            ApiService
	Tenants         TenantService
}

// NewServices crea el agregador de services admin.
func NewServices(d Deps) Services {
	return Services{
		Staff:           NewStaffService(),
		DictionaryTypes: NewDictionaryTypeService(),
		Apis:            NewApiService(d.DAL),
		Tenants:         NewTenantService(d.DAL, d.Secrets, d.Migrations),
	}
}

// FieldError es un error de validación de un campo. errors.Is lo reconoce
// como repository.ErrInvalidInput.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Msg }

func (e *FieldError) Is(target error) bool { return target == repository.ErrInvalidInput }

func invalid(field, format string, args ...any) error {
	return &FieldError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// currentUser devuelve el usuario del request; sin usuario audita como anónimo.
func currentUser(ctx context.Context) claims.User {
	u, _ := claims.FromContext(ctx)
	return u
}

func requireIDs(ids []int64) error {
	if len(ids) == 0 {
		return invalid("ids", "al menos un id requerido")
	}
	for _, id := range ids {
		if id <= 0 {
			return invalid("ids", "id inválido %d", id)
		}
	}
	return nil
}

// deletedOne traduce una baja individual sin filas afectadas a not found.
func deletedOne(entity string, id, n int64) error {
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, repository.ErrNotFound)
	}
	return nil
}

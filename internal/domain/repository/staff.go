package repository

import (
	"context"
	"time"
)

// Sex es el sexo declarado de un empleado.
type Sex int

const (
	SexUnknown Sex = 0
	SexMale    Sex = 1
	SexFemale  Sex = 2
)

// Valid indica si el valor es uno de los definidos.
func (s Sex) Valid() bool {
	return s == SexUnknown || s == SexMale || s == SexFemale
}

const (
	// StaffJobNumberMaxLen es el largo máximo del número de legajo.
	StaffJobNumberMaxLen = 20
	// StaffIntroduceMaxLen es el largo máximo de la presentación personal.
	StaffIntroduceMaxLen = 500
)

// Staff es un empleado del tenant (tabla ad_staff).
type Staff struct {
	EntityBase
	TenantID  *int64     `db:"tenant_id"`
	Position  string     `db:"position"`
	JobNumber string     `db:"job_number"`
	Sex       *Sex       `db:"sex"`
	EntryTime *time.Time `db:"entry_time"`
	Introduce string     `db:"introduce"`
}

// StaffFilter filtra el listado de empleados.
type StaffFilter struct {
	// Key busca en cargo, legajo y presentación.
	Key string
}

// StaffRepository define operaciones sobre empleados de un tenant.
type StaffRepository interface {
	Get(ctx context.Context, id int64) (*Staff, error)
	List(ctx context.Context, f StaffFilter) ([]Staff, error)
	Page(ctx context.Context, q PageQuery[StaffFilter]) (*PageResult[Staff], error)
	Create(ctx context.Context, s *Staff) error
	Update(ctx context.Context, s *Staff) error
	SoftDelete(ctx context.Context, ids ...int64) (int64, error)
}

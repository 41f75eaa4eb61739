package admin

import (
	"time"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
)

// StaffRequest es el body de alta y modificación de empleados.
// Version solo se usa en la modificación.
type StaffRequest struct {
	Version   int64      `json:"version"`
	Position  string     `json:"position"`
	JobNumber string     `json:"job_number"`
	Sex       *int       `json:"sex"`
	EntryTime *time.Time `json:"entry_time"`
	Introduce string     `json:"introduce"`
}

type StaffResponse struct {
	AuditResponse
	TenantID  *int64     `json:"tenant_id,omitempty"`
	Position  string     `json:"position"`
	JobNumber string     `json:"job_number"`
	Sex       *int       `json:"sex,omitempty"`
	EntryTime *time.Time `json:"entry_time,omitempty"`
	Introduce string     `json:"introduce"`
}

func ToStaffResponse(s repository.Staff) StaffResponse {
	var sex *int
	if s.Sex != nil {
		v := int(*s.Sex)
		sex = &v
	}
	return StaffResponse{
		AuditResponse: ToAudit(s.EntityBase),
		TenantID:      s.TenantID,
		Position:      s.Position,
		JobNumber:     s.JobNumber,
		Sex:           sex,
		EntryTime:     s.EntryTime,
		Introduce:     s.Introduce,
	}
}

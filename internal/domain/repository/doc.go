// Package repository define las entidades de dominio y los contratos de repositorio.
//
// Estas interfaces representan contratos de negocio, independientes del
// motor relacional subyacente (PostgreSQL, MySQL o SQLite).
//
// Las implementaciones concretas viven en internal/store/sqlrepo.
//
// Arquitectura:
//
//	┌─────────────────────────────────────────────────────┐
//	│           Services / Controllers                    │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│        domain/repository (interfaces)               │
//	│  StaffRepository, ApiRepository, TenantRepository   │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│   store/sqlrepo (squirrel + sqlx sobre *store.DB)   │
//	└─────────────────────────────────────────────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Las lecturas excluyen registros con soft delete
//   - Errores de dominio están en errors.go
package repository

package logger

import (
	"time"

	"go.uber.org/zap"
)

// HTTP

func RequestID(v string) zap.Field       { return zap.String("request_id", v) }
func Method(v string) zap.Field          { return zap.String("method", v) }
func Path(v string) zap.Field            { return zap.String("path", v) }
func Status(v int) zap.Field             { return zap.Int("status", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }
func Bytes(v int) zap.Field              { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field        { return zap.String("client_ip", v) }

// Dominio

// TenantID es el id numérico del tenant; 0 significa plataforma.
func TenantID(v int64) zap.Field   { return zap.Int64("tenant_id", v) }
func UserID(v int64) zap.Field     { return zap.Int64("user_id", v) }
func Entity(v string) zap.Field    { return zap.String("entity", v) }
func EntityID(v int64) zap.Field   { return zap.Int64("entity_id", v) }
func Isolation(v string) zap.Field { return zap.String("isolation", v) }
func DbType(v string) zap.Field    { return zap.String("db_type", v) }

// Sistema

func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Key(v string) zap.Field       { return zap.String("key", v) }
func Count(v int) zap.Field        { return zap.Int("count", v) }
func Affected(v int64) zap.Field   { return zap.Int64("affected", v) }
func SQL(v string) zap.Field       { return zap.String("sql", v) }
func Args(v []any) zap.Field       { return zap.Any("args", v) }
func Err(err error) zap.Field      { return zap.Error(err) }

// Any es el escape para valores sin helper propio (ej: el valor de un panic).
func Any(k string, v any) zap.Field { return zap.Any(k, v) }

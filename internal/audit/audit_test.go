package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
)

func TestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	tid := int64(9)
	ctx := claims.WithUser(context.Background(), claims.User{ID: 4, Name: "ana", TenantID: &tid})
	ctx = WithRequestID(ctx, "rid-1")

	Log(ctx, EventDelete, "staff", logger.Affected(2))

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "audit", e.LoggerName)
	m := e.ContextMap()
	assert.Equal(t, "soft_delete", m["event"])
	assert.Equal(t, "staff", m["entity"])
	assert.Equal(t, int64(4), m["user_id"])
	assert.Equal(t, "ana", m["user_name"])
	assert.Equal(t, int64(9), m["tenant_id"])
	assert.Equal(t, "rid-1", m["request_id"])
	assert.Equal(t, int64(2), m["affected"])
}

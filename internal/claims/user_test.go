package claims

import (
	"context"
	"testing"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/stretchr/testify/assert"
)

func TestUser_Tenancy(t *testing.T) {
	var platform User
	assert.False(t, platform.HasTenant())
	assert.Equal(t, int64(0), platform.Tenant())
	assert.False(t, platform.OwnDB())

	tid := int64(9)
	u := User{ID: 1, TenantID: &tid, DataIsolationType: repository.IsolationOwnDb}
	assert.True(t, u.HasTenant())
	assert.True(t, u.OwnDB())

	u.DataIsolationType = repository.IsolationShareDb
	assert.False(t, u.OwnDB())
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), User{ID: 3, Name: "ana"})
	u, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "ana", u.Name)
}

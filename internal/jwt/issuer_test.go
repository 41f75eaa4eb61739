package jwt

import (
	"testing"
	"time"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123"

func TestSignParse_RoundTrip(t *testing.T) {
	iss := NewIssuer("adminhub", secret, time.Hour)
	tid := int64(4)
	tok, err := iss.Sign(claims.User{ID: 10, Name: "root", TenantID: &tid, DataIsolationType: repository.IsolationOwnDb})
	require.NoError(t, err)

	u, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(10), u.ID)
	assert.Equal(t, "root", u.Name)
	require.NotNil(t, u.TenantID)
	assert.Equal(t, int64(4), *u.TenantID)
	assert.True(t, u.OwnDB())
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := NewIssuer("adminhub", secret, time.Hour).Sign(claims.User{ID: 1})
	require.NoError(t, err)

	_, err = NewIssuer("adminhub", "another-secret-value", time.Hour).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_WrongIssuer(t *testing.T) {
	tok, err := NewIssuer("other", secret, time.Hour).Sign(claims.User{ID: 1})
	require.NoError(t, err)

	_, err = NewIssuer("adminhub", secret, time.Hour).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidIssuer)
}

func TestParse_Expired(t *testing.T) {
	iss := NewIssuer("adminhub", secret, time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := iss.Sign(claims.User{ID: 1})
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

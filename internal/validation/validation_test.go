package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCode(t *testing.T) {
	for _, v := range []string{"a", "sex", "order_status", "Tenant-01", "v1.2", "a" + strings.Repeat("b", 49)} {
		assert.True(t, ValidCode(v), v)
	}
	for _, v := range []string{"", "1abc", "_x", "con espacio", "codigo;drop", "a" + strings.Repeat("b", 50)} {
		assert.False(t, ValidCode(v), v)
	}
}

func TestValidApiPath(t *testing.T) {
	for _, v := range []string{"/", "/api/admin/staff", "/api/admin/staff/{id}", "/v1/x-y_z.json"} {
		assert.True(t, ValidApiPath(v), v)
	}
	for _, v := range []string{"", "api/admin", "/a b", "/a?b=1", "/" + strings.Repeat("a", 500)} {
		assert.False(t, ValidApiPath(v), v)
	}
}

func TestNormalizeHttpMethods(t *testing.T) {
	got, ok := NormalizeHttpMethods(" get, Post ,GET,,delete")
	assert.True(t, ok)
	assert.Equal(t, "GET,POST,DELETE", got)

	got, ok = NormalizeHttpMethods("")
	assert.True(t, ok)
	assert.Empty(t, got)

	_, ok = NormalizeHttpMethods("GET,FETCH")
	assert.False(t, ok)
}

func TestMaxLen(t *testing.T) {
	assert.True(t, MaxLen("ñandú", 5))
	assert.False(t, MaxLen("ñandú!", 5))
}

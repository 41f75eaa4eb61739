package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
)

func readRows(t *testing.T, b []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DictionaryTypeSheet}, f.GetSheetList())
	rows, err := f.GetRows(DictionaryTypeSheet)
	require.NoError(t, err)
	return rows
}

func TestDictionaryTypes(t *testing.T) {
	tid := int64(7)
	list := []repository.DictionaryType{
		{EntityBase: repository.EntityBase{ID: 1}, TenantID: &tid, Name: "Género", Code: "sex", Enabled: true, Sort: 2},
		{EntityBase: repository.EntityBase{ID: 2}, Name: "Estado", Code: "status", Description: "estados"},
	}

	b, err := DictionaryTypes(list)
	require.NoError(t, err)

	rows := readRows(t, b)
	require.Len(t, rows, 3)
	assert.Equal(t, DictionaryTypeHeader, rows[0])
	assert.Equal(t, []string{"7", "1", "Género", "sex", "", "Yes", "2"}, rows[1])
	assert.Equal(t, []string{"", "2", "Estado", "status", "estados", "No", "0"}, rows[2])
}

func TestDictionaryTypes_Empty(t *testing.T) {
	b, err := DictionaryTypes(nil)
	require.NoError(t, err)

	rows := readRows(t, b)
	require.Len(t, rows, 1)
	assert.Equal(t, DictionaryTypeHeader, rows[0])
}

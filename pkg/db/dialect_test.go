package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect(t *testing.T) {
	for _, typ := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialect(Config{Type: typ, Name: "x"})
		require.NoError(t, err, typ)
		assert.NotNil(t, d)
	}

	_, err := Dialect(Config{Type: "oracle"})
	assert.EqualError(t, err, "unsupported oracle type")
}

func TestOpenSQLiteMemory(t *testing.T) {
	conn, err := Open(Config{Type: "sqlite", Name: "file::memory:", MaxOpenConn: 1, MaxIdleConn: 1}, nil)
	require.NoError(t, err)

	var one int
	require.NoError(t, conn.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

package godrv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewritePlaceholders(t *testing.T) {
	for i, tc := range []struct {
		in, want string
	}{
		{"SELECT 1 FROM DUAL", "SELECT 1 FROM DUAL"},
		{"SELECT * FROM t WHERE a = ?", "SELECT * FROM t WHERE a = :1"},
		{"INSERT INTO t VALUES (?, ?, ?)", "INSERT INTO t VALUES (:1, :2, :3)"},
		// already numbered statements are left alone
		{"SELECT * FROM t WHERE a = :1 AND b = ?", "SELECT * FROM t WHERE a = :1 AND b = ?"},
		// literals keep their question marks
		{"SELECT '?' FROM t WHERE a = ?", "SELECT '?' FROM t WHERE a = :1"},
		{"UPDATE t SET a = 'x?y', b = ? WHERE c = ?", "UPDATE t SET a = 'x?y', b = :1 WHERE c = :2"},
	} {
		assert.Equal(t, tc.want, rewritePlaceholders(tc.in), "%d. %q", i, tc.in)
	}
}

func TestFilterErrPassesOrdinaryErrors(t *testing.T) {
	assert.Equal(t, NotImplemented, filterErr(NotImplemented))
	assert.NoError(t, filterErr(nil))
}

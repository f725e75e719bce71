package pgsql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder_NumbersPlaceholders(t *testing.T) {
	w := &whereBuilder{}
	w.add("owner_id = ?", "owner-1")
	w.add("(entry_date, created_at) < (?, ?)", time.Unix(0, 0), time.Unix(1, 0))

	assert.Equal(t, "WHERE owner_id = $1 AND (entry_date, created_at) < ($2, $3)", w.clause())
	assert.Equal(t, "LIMIT $4", w.limit(21))
	assert.Len(t, w.args, 4)
	assert.Equal(t, 21, w.args[3])
}

func TestWhereBuilder_Empty(t *testing.T) {
	w := &whereBuilder{}
	assert.Equal(t, "", w.clause())
}

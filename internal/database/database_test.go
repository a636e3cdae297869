package database

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, SESSION_CACHE_INDEX)
	assert.Equal(t, 2, USER_CACHE_INDEX)
	assert.Equal(t, 3, EVENTS_CACHE_INDEX)
}

func TestDB_StructCreation(t *testing.T) {
	log := logger.New("test")

	db := &DB{
		log: log,
	}

	assert.NotNil(t, db)
	assert.Nil(t, db.SQL)
}

// Cache builder paths against a live server are covered by integration
// tests; here we only exercise the builder's argument validation.
func TestCacheBuilder_Validation(t *testing.T) {
	t.Run("set without key", func(t *testing.T) {
		cb := NewCacheBuilder(nil, "").WithValue("value")
		err := cb.Set()
		assert.Error(t, err)
	})

	t.Run("get without key", func(t *testing.T) {
		cb := NewCacheBuilder(nil, "")
		var out any
		found, err := cb.Get(&out)
		assert.False(t, found)
		assert.Error(t, err)
	})

	t.Run("marshal failure is carried", func(t *testing.T) {
		cb := NewCacheBuilder(nil, "key").WithStruct(make(chan int))
		err := cb.Set()
		assert.Error(t, err)
	})
}

package medicationController

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOptionalDate(t *testing.T) {
	valid := "2026-02-10"
	badFormat := "02/10/2026"
	empty := ""

	t.Run("nil stays nil", func(t *testing.T) {
		result, err := parseOptionalDate(nil)
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("empty stays nil", func(t *testing.T) {
		result, err := parseOptionalDate(&empty)
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("valid date parses", func(t *testing.T) {
		result, err := parseOptionalDate(&valid)
		assert.NoError(t, err)
		if assert.NotNil(t, result) {
			assert.Equal(t, 2026, result.Year())
			assert.Equal(t, 10, result.Day())
		}
	})

	t.Run("wrong format errors", func(t *testing.T) {
		result, err := parseOptionalDate(&badFormat)
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

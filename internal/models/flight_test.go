package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatePart(t *testing.T) {
	assert.Equal(t, "2024-05-01", DatePart("2024-05-01T00:00:00.000Z"))
	assert.Equal(t, "2024-05-01", DatePart("2024-05-01"))
	assert.Equal(t, "", DatePart(""))

	day, ok := FlightRecord{Date: "2024-05-01T10:00:00Z"}.Day()
	assert.True(t, ok)
	assert.Equal(t, 1, day.Day())

	_, ok = FlightRecord{Date: "soon"}.Day()
	assert.False(t, ok)
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("economy").Valid())
	assert.False(t, Category("").Valid())
}

package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsFutureDate(t *testing.T) {
	assert.True(t, isFutureDate(time.Now().Format("2006-01-02")))
	assert.True(t, isFutureDate(time.Now().AddDate(0, 0, 7).Format("2006-01-02")))
	assert.False(t, isFutureDate(time.Now().AddDate(0, 0, -1).Format("2006-01-02")))
	assert.False(t, isFutureDate("not-a-date"))
}

func TestIsClockTime(t *testing.T) {
	assert.True(t, isClockTime("09:00"))
	assert.True(t, isClockTime("23:59"))
	assert.False(t, isClockTime("9:00"))
	assert.False(t, isClockTime("24:00"))
	assert.False(t, isClockTime("0930"))
}

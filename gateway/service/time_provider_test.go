package service

import (
	"testing"
	"time"

	"edgemesh/helpers"

	"github.com/stretchr/testify/assert"
)

func TestNewTimeProvider(t *testing.T) {
	assert.PanicsWithValue(t, "service.time_provider.go: now is required", func() {
		NewTimeProvider(nil)
	})
	clock := helpers.NewClock(helpers.TestNow())
	tp := NewTimeProvider(clock.Now)
	clock.Advance(time.Minute)
	assert.Equal(t, helpers.TestNow().Add(time.Minute), tp.Now())
}

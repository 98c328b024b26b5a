package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBoost_IsActiveAt(t *testing.T) {
	t.Parallel()

	now := time.Now()
	boost := &Boost{
		Type:      BoostTypeShield,
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
	}

	assert.True(t, boost.IsActiveAt(now))
	assert.False(t, boost.IsActiveAt(now.Add(-2*time.Hour)))
	assert.False(t, boost.IsActiveAt(now.Add(time.Hour)))
}

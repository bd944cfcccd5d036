package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldown_InactiveWithoutActivating(t *testing.T) {
	r := New(time.Minute)
	assert.False(t, r.IsActive())
}

func TestCooldown_ActiveImmediatelyAfterActivate(t *testing.T) {
	r := New(time.Minute)
	r.Activate()
	assert.True(t, r.IsActive())
}

func TestCooldown_ExpiresAfterDuration(t *testing.T) {
	r := New(10 * time.Millisecond)
	r.Activate()
	assert.True(t, r.IsActive())
	time.Sleep(20 * time.Millisecond)
	assert.False(t, r.IsActive())
}

func TestCooldown_HalfwayThroughIsStillActive(t *testing.T) {
	r := New(30 * time.Millisecond)
	r.Activate()
	time.Sleep(10 * time.Millisecond)
	assert.True(t, r.IsActive())
}

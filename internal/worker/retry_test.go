package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_NextDelay(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 5, BaseDelay: 30 * time.Second, MaxDelay: 30 * time.Minute}

	assert.Equal(t, 30*time.Second, policy.NextDelay(0))
	assert.Equal(t, time.Minute, policy.NextDelay(1))
	assert.Equal(t, 2*time.Minute, policy.NextDelay(2))
	assert.Equal(t, 4*time.Minute, policy.NextDelay(3))
}

func TestRetryPolicy_NextDelayCapped(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 5, BaseDelay: 30 * time.Second, MaxDelay: 2 * time.Minute}

	assert.Equal(t, 2*time.Minute, policy.NextDelay(3))
	assert.Equal(t, 2*time.Minute, policy.NextDelay(100))
}

func TestRetryPolicy_Exhausted(t *testing.T) {
	policy := DefaultRetryPolicy()

	assert.False(t, policy.Exhausted(0))
	assert.False(t, policy.Exhausted(4))
	assert.True(t, policy.Exhausted(5))
	assert.True(t, policy.Exhausted(6))
}

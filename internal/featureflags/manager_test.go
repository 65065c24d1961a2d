package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_Enabled(t *testing.T) {
	m := NewManager("realtime_notifications=on, ranked_feed=off,weird = ,half=50%")

	assert.True(t, m.Enabled("realtime_notifications", 1))
	assert.True(t, m.Enabled("REALTIME_NOTIFICATIONS", 1))
	assert.False(t, m.Enabled("ranked_feed", 1))
	assert.False(t, m.Enabled("unknown_flag", 1))
	assert.False(t, m.Enabled("weird", 1))
}

func TestManager_PercentRolloutIsDeterministic(t *testing.T) {
	m := NewManager("ranked_feed=50%")

	first := m.Enabled("ranked_feed", 123)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.Enabled("ranked_feed", 123))
	}

	// Anonymous users never fall into a percentage rollout.
	assert.False(t, m.Enabled("ranked_feed", 0))
}

func TestManager_PercentBounds(t *testing.T) {
	m := NewManager("all=100%,none=0%,bad=abc%")

	assert.True(t, m.Enabled("all", 7))
	assert.False(t, m.Enabled("none", 7))
	assert.False(t, m.Enabled("bad", 7))
}

func TestManager_Snapshot(t *testing.T) {
	m := NewManager("a=on,b=off")

	snap := m.Snapshot(1)
	assert.Equal(t, map[string]bool{"a": true, "b": false}, snap)

	raw := m.Raw()
	raw["a"] = "off"
	assert.Equal(t, "on", m.Raw()["a"]) // Raw returns a copy
}

func TestManager_NilSafe(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled("anything", 1))
}

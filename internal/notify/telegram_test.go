package notify

import (
	"strings"
	"testing"

	"amon/internal/attendance"
	"amon/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClientUnconfiguredIsNil(t *testing.T) {
	assert.Nil(t, NewClient("", "123", false, zap.NewNop()))
	assert.Nil(t, NewClient("token", "", false, zap.NewNop()))
	assert.NotNil(t, NewClient("token", "123", false, zap.NewNop()))
}

func TestNilClientMethodsAreNoOps(t *testing.T) {
	var c *Client
	assert.NoError(t, c.SendMessage("hi"))
	assert.NoError(t, c.SendPhoto([]byte{1}, "cap"))
	assert.NoError(t, c.SendCriticalAlert("login", "boom", 3))
	assert.NoError(t, c.SendChanges([]store.Change{{Date: "2025-07-01"}}))
}

func TestCheckResponse(t *testing.T) {
	require.NoError(t, checkResponse(strings.NewReader(`{"ok":true}`)))

	err := checkResponse(strings.NewReader(`{"ok":false,"description":"chat not found"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")

	assert.Error(t, checkResponse(strings.NewReader("not json")))
}

func TestDescribeEntry(t *testing.T) {
	assert.Equal(t, "untracked", describeEntry(nil))
	assert.Equal(t, "wfo", describeEntry(&attendance.HistoryEntry{
		FirstHalf: attendance.CategoryWFO, SecondHalf: attendance.CategoryWFO,
	}))
	assert.Equal(t, "absent / wfh", describeEntry(&attendance.HistoryEntry{
		FirstHalf: attendance.CategoryAbsent, SecondHalf: attendance.CategoryWFH,
	}))
}

func TestDebugModeSkipsNetwork(t *testing.T) {
	c := NewClient("token", "123", true, zap.NewNop())
	// No HTTP server behind these; debug mode must short-circuit.
	assert.NoError(t, c.SendMessage("hello"))
	assert.NoError(t, c.SendPhoto([]byte{0x89, 0x50}, "calendar"))
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_TriggerPayload(t *testing.T) {
	payload := []byte(`{"table":"user_settings","type":"UPDATE","operator_id":"op-1","new_row":{"operator_id":"op-1","display_template":"colorful"}}`)
	event, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, TableSettings, event.Table)
	assert.Equal(t, EventUpdate, event.Type)
	assert.True(t, event.HasRow())
}

func TestDecode_NullRow(t *testing.T) {
	event, err := Decode([]byte(`{"table":"menu_items","type":"delete","operator_id":"op-1","new_row":null}`))
	require.NoError(t, err)
	assert.False(t, event.HasRow())
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	require.ErrorIs(t, err, ErrInvalidEvent)

	_, err = Decode([]byte(`{"table":"orders","type":"insert","operator_id":"op"}`))
	require.ErrorIs(t, err, ErrInvalidEvent)

	_, err = Decode([]byte(`{"table":"menu_items","type":"truncate","operator_id":"op"}`))
	require.ErrorIs(t, err, ErrInvalidEvent)

	_, err = Decode([]byte(`{"table":"menu_items","type":"insert"}`))
	require.ErrorIs(t, err, ErrInvalidEvent)
}

func TestNewEvent_EncodesRow(t *testing.T) {
	event, err := NewEvent(TableSettings, EventUpdate, "op-1", map[string]string{"display_template": "minimalist"})
	require.NoError(t, err)

	raw, err := event.Encode()
	require.NoError(t, err)
	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"display_template":"minimalist"}`, string(decoded.NewRow))
}

func TestStatus_Degraded(t *testing.T) {
	assert.False(t, StatusLive.Degraded())
	assert.True(t, StatusOutdated.Degraded())
	assert.True(t, StatusResyncing.Degraded())
}

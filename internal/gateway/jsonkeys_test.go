package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeJSONKeysConvertsCamelCaseToSnakeCase(t *testing.T) {
	out, err := normalizeJSONKeys([]byte(`{"doorId":2,"lockCommand":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"door_id":2,"lock_command":1}`, string(out))
}

func TestNormalizeJSONKeysLeavesSnakeCaseUnchanged(t *testing.T) {
	out, err := normalizeJSONKeys([]byte(`{"door_id":2}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"door_id":2}`, string(out))
}

func TestNormalizeJSONKeysEmptyBodyBecomesEmptyObject(t *testing.T) {
	out, err := normalizeJSONKeys(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestNormalizeJSONKeysRejectsInvalidJSON(t *testing.T) {
	_, err := normalizeJSONKeys([]byte(`{not json`))
	require.Error(t, err)
}

func TestHasFieldDistinguishesPresenceFromAbsence(t *testing.T) {
	body := []byte(`{"door_id":0}`)
	assert.True(t, hasField(body, "door_id"))
	assert.False(t, hasField(body, "command"))
}

package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodycontrol/someip-gateway/internal/taxonomy"
)

func TestValidateStructAcceptsInRangeValues(t *testing.T) {
	err := validateStruct(doorLockRequest{DoorID: 2, Command: 1})
	assert.NoError(t, err)
}

func TestValidateStructRejectsOutOfRangeField(t *testing.T) {
	err := validateStruct(doorLockRequest{DoorID: 9, Command: 0})
	require.Error(t, err)
	var terr *taxonomy.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, taxonomy.KindInvalidArgument, terr.Kind)
}

func TestValidateStructRejectsZeroPresetID(t *testing.T) {
	err := validateStruct(seatMemoryRequest{})
	require.Error(t, err)
}

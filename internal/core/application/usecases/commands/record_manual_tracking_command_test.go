package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordManualTrackingCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	eta := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	cmd, err := commands.NewRecordManualTrackingCommand(
		id, "RR123456785NL", "international", "postnl", &eta, shipment.PackageDetails{})
	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, "RR123456785NL", cmd.TrackingNumber())
	assert.Equal(t, "international", cmd.ServiceType())
	assert.Equal(t, "postnl", cmd.Carrier())
	require.NotNil(t, cmd.EstimatedDelivery())
	assert.Equal(t, eta, *cmd.EstimatedDelivery())
}

func TestNewRecordManualTrackingCommand_EmptyTrackingNumber(t *testing.T) {
	id := kernel.NewUUID()
	_, err := commands.NewRecordManualTrackingCommand(
		id, "", "international", "postnl", nil, shipment.PackageDetails{})
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrTrackingNumberIsRequired)
}

func TestNewRecordManualTrackingCommand_EmptyCarrier(t *testing.T) {
	id := kernel.NewUUID()
	_, err := commands.NewRecordManualTrackingCommand(
		id, "RR123456785NL", "international", "", nil, shipment.PackageDetails{})
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCarrierIsRequired)
}

func TestNewRecordManualTrackingCommand_EmptyServiceType(t *testing.T) {
	id := kernel.NewUUID()
	_, err := commands.NewRecordManualTrackingCommand(
		id, "RR123456785NL", "", "postnl", nil, shipment.PackageDetails{})
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrServiceTypeIsRequired)
}

func TestNewRecordManualTrackingCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewRecordManualTrackingCommand(
		kernel.UUID{}, "RR123456785NL", "international", "postnl", nil, shipment.PackageDetails{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestRecordManualTrackingCommand_Validate_ZeroValue(t *testing.T) {
	cmd := commands.RecordManualTrackingCommand{}
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrRecordManualTrackingCommandIsNotConstructed)
}

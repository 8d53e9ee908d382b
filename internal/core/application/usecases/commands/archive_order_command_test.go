package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArchiveOrderCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()

	cmd, err := commands.NewArchiveOrderCommand(orderID)

	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.NoError(t, cmd.Validate())
}

func TestNewArchiveOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewArchiveOrderCommand(kernel.UUID{})

	require.Error(t, err)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestArchiveOrderCommand_Validate_ZeroValue(t *testing.T) {
	var cmd commands.ArchiveOrderCommand

	err := cmd.Validate()

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrArchiveOrderCommandIsNotConstructed)
}

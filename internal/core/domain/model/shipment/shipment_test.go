package shipment_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestShipment(t *testing.T) *shipment.Shipment {
	t.Helper()
	s, err := shipment.NewShipment(
		kernel.NewUUID(),
		"1Z999",
		"ups",
		"GROUND",
		"https://labels.example.com/1Z999.pdf",
		nil,
		shipment.PackageDetails{},
		testNow,
	)
	require.NoError(t, err)
	return s
}

func newTestEvent(t *testing.T, ts time.Time, status, location string) shipment.TrackingEvent {
	t.Helper()
	event, err := shipment.NewTrackingEvent(ts, status, "", location, false)
	require.NoError(t, err)
	return event
}

func TestNewShipment(t *testing.T) {
	t.Run("creates_pending_shipment", func(t *testing.T) {
		s := newTestShipment(t)

		assert.Equal(t, shipment.Pending, s.Status())
		assert.Equal(t, "1Z999", s.TrackingNumber())
		assert.Equal(t, "ups", s.Carrier())
		assert.Equal(t, "GROUND", s.ServiceType())
		assert.Equal(t, testNow, s.LastUpdated())
		assert.Empty(t, s.TrackingHistory())
		assert.False(t, s.NeedsAttention())
		require.NoError(t, s.Validate())
	})

	t.Run("requires_tracking_number", func(t *testing.T) {
		_, err := shipment.NewShipment(
			kernel.NewUUID(), "", "ups", "GROUND", "", nil, shipment.PackageDetails{}, testNow)
		require.Error(t, err)
	})

	t.Run("requires_carrier", func(t *testing.T) {
		_, err := shipment.NewShipment(
			kernel.NewUUID(), "1Z999", "", "GROUND", "", nil, shipment.PackageDetails{}, testNow)
		require.Error(t, err)
	})

	t.Run("requires_service_type", func(t *testing.T) {
		_, err := shipment.NewShipment(
			kernel.NewUUID(), "1Z999", "ups", "", "", nil, shipment.PackageDetails{}, testNow)
		require.Error(t, err)
	})

	t.Run("zero_value_is_not_constructed", func(t *testing.T) {
		var s shipment.Shipment
		require.ErrorIs(t, s.Validate(), shipment.ErrShipmentIsNotConstructed)
	})
}

func TestShipment_ApplyCarrierSnapshot(t *testing.T) {
	t.Run("appends_new_events_and_updates_status", func(t *testing.T) {
		s := newTestShipment(t)
		snapshot := shipment.TrackingSnapshot{
			Status: shipment.InTransit,
			Events: []shipment.TrackingEvent{
				newTestEvent(t, testNow.Add(1*time.Hour), "Departed facility", "Louisville, KY"),
			},
		}

		appended, err := s.ApplyCarrierSnapshot(snapshot, testNow.Add(2*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, 1, appended)
		assert.Equal(t, shipment.InTransit, s.Status())
		assert.Len(t, s.TrackingHistory(), 1)
		assert.Equal(t, testNow.Add(2*time.Hour), s.LastUpdated())
	})

	t.Run("is_idempotent_for_identical_snapshot", func(t *testing.T) {
		s := newTestShipment(t)
		snapshot := shipment.TrackingSnapshot{
			Status: shipment.InTransit,
			Events: []shipment.TrackingEvent{
				newTestEvent(t, testNow.Add(1*time.Hour), "Departed facility", "Louisville, KY"),
				newTestEvent(t, testNow.Add(3*time.Hour), "Arrived at facility", "Nashville, TN"),
			},
		}

		_, err := s.ApplyCarrierSnapshot(snapshot, testNow.Add(4*time.Hour))
		require.NoError(t, err)
		firstHistory := s.TrackingHistory()

		appended, err := s.ApplyCarrierSnapshot(snapshot, testNow.Add(5*time.Hour))
		require.NoError(t, err)

		assert.Equal(t, 0, appended)
		assert.Equal(t, firstHistory, s.TrackingHistory())
		assert.Equal(t, shipment.InTransit, s.Status())
	})

	t.Run("keeps_history_in_chronological_order", func(t *testing.T) {
		s := newTestShipment(t)

		_, err := s.ApplyCarrierSnapshot(shipment.TrackingSnapshot{
			Status: shipment.InTransit,
			Events: []shipment.TrackingEvent{
				newTestEvent(t, testNow.Add(3*time.Hour), "Arrived at facility", "Nashville, TN"),
			},
		}, testNow.Add(4*time.Hour))
		require.NoError(t, err)

		// Carrier back-fills an older scan in a later snapshot.
		_, err = s.ApplyCarrierSnapshot(shipment.TrackingSnapshot{
			Status: shipment.InTransit,
			Events: []shipment.TrackingEvent{
				newTestEvent(t, testNow.Add(1*time.Hour), "Departed facility", "Louisville, KY"),
			},
		}, testNow.Add(5*time.Hour))
		require.NoError(t, err)

		history := s.TrackingHistory()
		require.Len(t, history, 2)
		assert.Equal(t, "Departed facility", history[0].Status())
		assert.Equal(t, "Arrived at facility", history[1].Status())
	})

	t.Run("same_timestamp_different_location_is_a_distinct_event", func(t *testing.T) {
		s := newTestShipment(t)
		ts := testNow.Add(1 * time.Hour)

		_, err := s.ApplyCarrierSnapshot(shipment.TrackingSnapshot{
			Status: shipment.InTransit,
			Events: []shipment.TrackingEvent{
				newTestEvent(t, ts, "Departed facility", "Louisville, KY"),
				newTestEvent(t, ts, "Departed facility", "Memphis, TN"),
			},
		}, testNow.Add(2*time.Hour))

		require.NoError(t, err)
		assert.Len(t, s.TrackingHistory(), 2)
	})

	t.Run("delivered_snapshot_sets_delivery_fields_once", func(t *testing.T) {
		s := newTestShipment(t)
		deliveredAt := testNow.Add(24 * time.Hour)

		_, err := s.ApplyCarrierSnapshot(shipment.TrackingSnapshot{
			Status:      shipment.Delivered,
			DeliveredAt: &deliveredAt,
			ReceivedBy:  "J. Smith",
			Signature:   "JS",
			Events: []shipment.TrackingEvent{
				newTestEvent(t, deliveredAt, "Delivered", "Front door"),
			},
		}, testNow.Add(25*time.Hour))
		require.NoError(t, err)

		require.NotNil(t, s.DeliveredAt())
		assert.Equal(t, deliveredAt, *s.DeliveredAt())
		assert.Equal(t, "J. Smith", s.ReceivedBy())
		assert.Equal(t, "JS", s.Signature())

		// Re-applying a delivered snapshot must not move the delivery time.
		laterDelivery := deliveredAt.Add(time.Hour)
		_, err = s.ApplyCarrierSnapshot(shipment.TrackingSnapshot{
			Status:      shipment.Delivered,
			DeliveredAt: &laterDelivery,
			ReceivedBy:  "Someone Else",
		}, testNow.Add(26*time.Hour))
		require.NoError(t, err)

		assert.Equal(t, deliveredAt, *s.DeliveredAt())
		assert.Equal(t, "J. Smith", s.ReceivedBy())
	})

	t.Run("delivered_snapshot_without_timestamp_uses_now", func(t *testing.T) {
		s := newTestShipment(t)
		now := testNow.Add(30 * time.Hour)

		_, err := s.ApplyCarrierSnapshot(shipment.TrackingSnapshot{
			Status: shipment.Delivered,
		}, now)
		require.NoError(t, err)

		require.NotNil(t, s.DeliveredAt())
		assert.Equal(t, now, *s.DeliveredAt())
	})

	t.Run("clears_attention_flag", func(t *testing.T) {
		s := newTestShipment(t)
		s.FlagForAttention(testNow.Add(time.Hour))
		require.True(t, s.NeedsAttention())

		_, err := s.ApplyCarrierSnapshot(shipment.TrackingSnapshot{
			Status: shipment.InTransit,
		}, testNow.Add(2*time.Hour))
		require.NoError(t, err)

		assert.False(t, s.NeedsAttention())
	})

	t.Run("rejects_invalid_snapshot_status", func(t *testing.T) {
		s := newTestShipment(t)

		_, err := s.ApplyCarrierSnapshot(shipment.TrackingSnapshot{
			Status: shipment.Unknown,
		}, testNow)

		require.Error(t, err)
		assert.Equal(t, shipment.Pending, s.Status())
	})
}

func TestShipment_MarkShipped(t *testing.T) {
	s := newTestShipment(t)

	s.MarkShipped(testNow.Add(time.Hour))
	require.NotNil(t, s.ShippedAt())
	first := *s.ShippedAt()

	// Retried transitions keep the original hand-off time.
	s.MarkShipped(testNow.Add(2 * time.Hour))
	assert.Equal(t, first, *s.ShippedAt())
}

func TestRestoreShipment(t *testing.T) {
	t.Run("restores_full_state", func(t *testing.T) {
		id := kernel.NewUUID()
		deliveredAt := testNow.Add(24 * time.Hour)
		history := []shipment.TrackingEvent{
			newTestEvent(t, testNow.Add(3*time.Hour), "Arrived at facility", "Nashville, TN"),
			newTestEvent(t, testNow.Add(1*time.Hour), "Departed facility", "Louisville, KY"),
		}

		s, err := shipment.RestoreShipment(
			id, "1Z999", "ups", "GROUND",
			shipment.Delivered, "https://labels.example.com/1Z999.pdf",
			nil, nil, &deliveredAt, "J. Smith", "JS",
			testNow.Add(25*time.Hour), false,
			shipment.PackageDetails{}, history,
		)

		require.NoError(t, err)
		assert.Equal(t, shipment.Delivered, s.Status())
		assert.True(t, id.IsEqual(s.ID()))

		// History is re-sorted on restore.
		restored := s.TrackingHistory()
		require.Len(t, restored, 2)
		assert.Equal(t, "Departed facility", restored[0].Status())
	})

	t.Run("rejects_invalid_status", func(t *testing.T) {
		_, err := shipment.RestoreShipment(
			kernel.NewUUID(), "1Z999", "ups", "GROUND",
			shipment.Unknown, "", nil, nil, nil, "", "",
			testNow, false, shipment.PackageDetails{}, nil,
		)
		require.Error(t, err)
	})
}

func TestNewPackageDetails(t *testing.T) {
	t.Run("valid_details", func(t *testing.T) {
		details, err := shipment.NewPackageDetails(1200, 30, 20, 10, "parcel", 1)
		require.NoError(t, err)
		assert.Equal(t, 1200, details.WeightGrams())
		assert.Equal(t, 1, details.PackageCount())
		assert.False(t, details.IsZero())
	})

	t.Run("rejects_non_positive_weight", func(t *testing.T) {
		_, err := shipment.NewPackageDetails(0, 30, 20, 10, "parcel", 1)
		require.Error(t, err)
	})

	t.Run("rejects_non_positive_dimensions", func(t *testing.T) {
		_, err := shipment.NewPackageDetails(1200, 30, 0, 10, "parcel", 1)
		require.Error(t, err)
	})

	t.Run("rejects_zero_package_count", func(t *testing.T) {
		_, err := shipment.NewPackageDetails(1200, 30, 20, 10, "parcel", 0)
		require.Error(t, err)
	})

	t.Run("zero_value_reports_not_provided", func(t *testing.T) {
		var details shipment.PackageDetails
		assert.True(t, details.IsZero())
	})
}

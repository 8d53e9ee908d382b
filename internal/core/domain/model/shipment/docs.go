// Package shipment contains the carrier-facing sub-record of an order:
// tracking number, label metadata, package details, and the append-only
// tracking history reconciled from carrier snapshots.
//
// A Shipment belongs to exactly one order and never outlives it. Its status
// lifecycle is independent from the order status but causally linked: a
// delivered shipment triggers (via the application layer) an attempt to move
// the owning order to delivered.
//
// The single mutation path for carrier-reported state is ApplyCarrierSnapshot,
// which merges snapshots idempotently: the same carrier event, identified by
// its (timestamp, status, location) tuple, is never appended twice.
package shipment

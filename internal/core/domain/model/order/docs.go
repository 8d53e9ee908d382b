// Package order contains the Order aggregate root and its owned value
// objects: line items, the shipping address, and the order status machine.
//
// The order status lifecycle is guarded in exactly one place, the Status
// transition table, rather than re-derived at call sites. The aggregate
// additionally enforces cross-field rules: moving to shipped requires a
// shipment with a tracking number, and monetary totals must reconcile with
// their components within currency rounding tolerance.
package order

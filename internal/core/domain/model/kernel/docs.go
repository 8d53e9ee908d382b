// Package kernel contains shared value objects used across the domain model:
// UUID identifiers and Money amounts. Value objects are immutable and are
// created through factory functions that enforce their invariants.
package kernel

// Package core defines the identity model shared by the entity and relation
// indices.
//
// Three identity forms exist for every entity:
//
//   - EntityID: globally unique, monotonically increasing, never reused.
//   - EntityUID: unique within an EntityType, sequential from 1, used
//     directly as a slot index (uid - 1).
//   - EntityKey: the full (EntityID, EntityUID, EntityType) triple.
//
// EntityRef drops the global id and is what most hot paths carry. Handle
// pairs a ref with the slot generation observed when the handle was taken,
// so a holder can detect that the entity was removed in the meantime.
package core

// Package entity provides the EntityIndex: the authoritative registry that
// maps every identity form to its entity payload in O(1).
//
// Three lookup spaces are maintained:
//
//   - by EntityID, through an id -> EntityRef map;
//   - by (EntityUID, EntityType), through a per-type slot table indexed by
//     uid - 1 (no hashing);
//   - by content key, through a key -> Handle map whose entries carry the
//     slot generation observed at insertion.
//
// Removal tombstones the slot and bumps its generation. Content-key entries
// are not touched on removal; a lookup that finds a generation mismatch
// evicts the entry and reports a miss.
//
// # Concurrency
//
// All methods are safe for concurrent use. Reads share a RWMutex; writes and
// stale-entry eviction take it exclusively. Counters are atomic, so the
// count methods never block.
package entity

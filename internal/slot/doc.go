// Package slot provides a paged, generational slot table.
//
// A Table maps a dense 0-based index to a Slot holding one payload and a
// generation counter. Removing a payload tombstones the slot and bumps its
// generation; the slot itself is never compacted away, so indices stay
// stable and stale external handles can be detected by comparing
// generations.
//
// Pages are fixed-size, so growth only appends page pointers and never
// moves existing slots.
//
// Tables are not safe for concurrent mutation. Callers serialize writes.
package slot

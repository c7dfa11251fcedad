// Package closure computes and stores transitive reachability over EntityIDs.
//
// Sets are 64-bit Roaring bitmaps, so typed queries are plain intersections
// against per-type membership sets and results come out in ascending id
// order. Walker performs the breadth-first traversal used to fill them.
package closure

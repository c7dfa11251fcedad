// Package conv provides checked conversions between identity integers and
// slice indices.
//
// Slot tables index by int while identities are fixed-width unsigned types.
// Every conversion reports failure instead of wrapping or panicking.
package conv

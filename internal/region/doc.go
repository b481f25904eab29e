// Package region locates, replaces, and removes a marker-delimited block of
// lines inside a text document, preserving everything outside the block.
//
// A managed region starts at the first line containing the start marker and
// runs through the brace-balanced closure of the block opened around the
// first end marker after it. Brace depth is tracked per line with a simple
// { minus } count. That heuristic deliberately ignores braces inside CSS
// strings and comments; files relying on those constructs inside the managed
// region are not supported.
//
// All operations are pure functions over line slices. Callers split and
// rejoin file content with [SplitLines] and [JoinLines] so splice positions
// are stable across the round trip.
package region

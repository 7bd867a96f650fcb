// Package conv provides bounds-checked integer conversions for counts and
// sizes that arrive from files or flags.
package conv

// Package swizzle re-addresses texture blocks between row-major order and
// the physical memory layouts used by console GPUs.
//
// All functions work on byte slices indexed by computed offsets. The
// address functions are pure; the copy loops write into a caller supplied
// destination and never alias their source.
package swizzle

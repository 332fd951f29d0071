// Package dtype converts raw NCStream payload bytes into typed Go
// slices. It owns the fixed-width element decoding (both byte orders,
// signed and unsigned variants, enum code widths) and the DEFLATE
// inflation step that precedes it.
package dtype

// Package quarkgl is a small software 3D renderer for previewing pixel
// installations.
//
// It draws three kinds of primitives into a caller-provided Target:
// points (screen-space discs sized by perspective), segments (thick or
// hairline) and flat triangle meshes. A float depth buffer resolves overlap.
//
// Pipeline (fixed):
//
//	Scene → World → View → Projection → Near clip → Rasterization → Target.
//
// The renderer keeps its buffers between frames and does not allocate in the
// render path once warmed up.
package quarkgl

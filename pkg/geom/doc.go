// Package geom holds the small value types shared by the brickwork
// packages: vectors, exact 3x3 rotations and axis-aligned boxes.
package geom

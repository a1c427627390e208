// Package geometry provides the planar primitives behind the interaction
// and map features: oriented boxes, convex polygons, Minkowski differences,
// box IoU and signed distances to polylines.
//
// Conventions: polygons are convex with counter-clockwise vertices; headings
// are yaw angles in radians measured from +x; a box's length runs along its
// heading and its width across it.
//
// Dependency rule: geometry is a leaf package.
package geometry

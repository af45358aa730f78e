// Package geo converts geodetic positions reported by vehicles into a local
// planar frame anchored at a fixed reference point.
//
// The default projection is a WGS84 local tangent plane: X grows to the north
// and Y to the east, both in metres, using the meridional and prime-vertical
// radii of curvature at the origin latitude. It is accurate to well under a
// metre for the few tens of kilometres a survey area spans, and it is a pure
// function of its input and the origin, so repeated calls are bit-identical.
package geo

// Package model holds the value types shared across skyframe: sky
// coordinates and their frames, geodetic, geocentric and tangent-plane
// positions, observatory locations, antenna pairs and UVW vectors, and the
// error taxonomy every package reports through.
//
// Angles are radians throughout. Constructors named *FromDegrees take
// degrees for convenience.
package model

package model

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

// GeodeticPosition is a latitude and longitude in radians and a height in
// metres above the reference ellipsoid.
type GeodeticPosition struct {
	Latitude  float64
	Longitude float64
	Height    float64
}

// GeodeticFromDegrees builds a GeodeticPosition from degrees and metres.
func GeodeticFromDegrees(latDeg, lonDeg, heightM float64) GeodeticPosition {
	return GeodeticPosition{
		Latitude:  unit.AngleFromDeg(latDeg).Rad(),
		Longitude: unit.AngleFromDeg(lonDeg).Rad(),
		Height:    heightM,
	}
}

// Validate rejects non-finite values and latitudes outside [-π/2, π/2].
func (p GeodeticPosition) Validate() error {
	if !finite(p.Latitude) || !finite(p.Longitude) || !finite(p.Height) {
		return &PositionError{Index: -1, Position: [3]float64{p.Latitude, p.Longitude, p.Height}}
	}
	return checkLatitude("latitude", p.Latitude)
}

func (p GeodeticPosition) String() string {
	return fmt.Sprintf("(%.8f°, %.8f°, %.3f m)", unit.Angle(p.Latitude).Deg(), unit.Angle(p.Longitude).Deg(), p.Height)
}

// GeocentricPosition is an Earth-centred Earth-fixed Cartesian position in
// metres.
type GeocentricPosition struct {
	X, Y, Z float64
}

// Vec returns p as a gonum r3 vector.
func (p GeocentricPosition) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// GeocentricFromVec converts a gonum r3 vector.
func GeocentricFromVec(v r3.Vec) GeocentricPosition {
	return GeocentricPosition{X: v.X, Y: v.Y, Z: v.Z}
}

// Sub returns p - q.
func (p GeocentricPosition) Sub(q GeocentricPosition) GeocentricPosition {
	return GeocentricFromVec(r3.Sub(p.Vec(), q.Vec()))
}

// Norm returns the distance of p from the Earth's centre.
func (p GeocentricPosition) Norm() float64 { return r3.Norm(p.Vec()) }

// Finite reports whether every component is finite.
func (p GeocentricPosition) Finite() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

// TangentPlanePosition is an east, north, height offset in metres from a
// tangent-plane origin.
type TangentPlanePosition struct {
	East   float64
	North  float64
	Height float64
}

// Finite reports whether every component is finite.
func (p TangentPlanePosition) Finite() bool {
	return finite(p.East) && finite(p.North) && finite(p.Height)
}

// LocalXYZ is a geocentric vector rotated about the pole so that X lies in
// the meridian of the array: X towards (HA 0, Dec 0), Y towards (HA -6h,
// Dec 0) and Z towards the north celestial pole. Baseline coordinates in
// this frame feed the UVW rotation.
type LocalXYZ struct {
	X, Y, Z float64
}

// Vec returns p as a gonum r3 vector.
func (p LocalXYZ) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// Sub returns p - q.
func (p LocalXYZ) Sub(q LocalXYZ) LocalXYZ {
	return LocalXYZ{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// ObservatoryLocation is a named geodetic site.
type ObservatoryLocation struct {
	Name     string
	Geodetic GeodeticPosition
}

// Latitude returns the geodetic latitude in radians.
func (o ObservatoryLocation) Latitude() float64 { return o.Geodetic.Latitude }

// Longitude returns the east longitude in radians.
func (o ObservatoryLocation) Longitude() float64 { return o.Geodetic.Longitude }

// Validate checks the site's geodetic position.
func (o ObservatoryLocation) Validate() error { return o.Geodetic.Validate() }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Package geodesy converts positions between geodetic, geocentric and
// local tangent-plane frames on a caller-supplied reference ellipsoid.
package geodesy

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/skyframe/constants"
)

// Ellipsoid is an oblate reference ellipsoid. It is a value: conversions
// take it as an explicit argument so alternative ellipsoids can be
// substituted without touching package state.
type Ellipsoid struct {
	Name string
	// A is the semi-major axis in metres.
	A float64
	// F is the flattening.
	F float64
}

// WGS84 returns the WGS 84 ellipsoid.
func WGS84() Ellipsoid {
	return Ellipsoid{Name: "WGS84", A: constants.WGS84SemiMajorAxis, F: constants.WGS84Flattening}
}

// GRS80 returns the GRS 80 ellipsoid.
func GRS80() Ellipsoid {
	return Ellipsoid{Name: "GRS80", A: constants.GRS80SemiMajorAxis, F: constants.GRS80Flattening}
}

// NewEllipsoid validates and returns a custom ellipsoid.
func NewEllipsoid(name string, a, f float64) (Ellipsoid, error) {
	e := Ellipsoid{Name: name, A: a, F: f}
	if err := e.Validate(); err != nil {
		return Ellipsoid{}, err
	}
	return e, nil
}

// ByName returns a built-in ellipsoid.
func ByName(name string) (Ellipsoid, error) {
	switch name {
	case "WGS84", "wgs84":
		return WGS84(), nil
	case "GRS80", "grs80":
		return GRS80(), nil
	default:
		return Ellipsoid{}, fmt.Errorf("unknown ellipsoid %q", name)
	}
}

// Validate requires a positive radius and a flattening in [0, 1).
func (e Ellipsoid) Validate() error {
	if !(e.A > 0) || math.IsInf(e.A, 0) {
		return fmt.Errorf("ellipsoid %q: semi-major axis %v must be positive", e.Name, e.A)
	}
	if !(e.F >= 0 && e.F < 1) {
		return fmt.Errorf("ellipsoid %q: flattening %v must be in [0, 1)", e.Name, e.F)
	}
	return nil
}

// B returns the semi-minor axis.
func (e Ellipsoid) B() float64 { return e.A * (1 - e.F) }

// E2 returns the first eccentricity squared.
func (e Ellipsoid) E2() float64 { return e.F * (2 - e.F) }

// EP2 returns the second eccentricity squared.
func (e Ellipsoid) EP2() float64 {
	e2 := e.E2()
	return e2 / (1 - e2)
}

// PrimeVerticalRadius returns N(φ), the radius of curvature in the prime
// vertical at geodetic latitude lat.
func (e Ellipsoid) PrimeVerticalRadius(lat float64) float64 {
	s := math.Sin(lat)
	return e.A / math.Sqrt(1-e.E2()*s*s)
}

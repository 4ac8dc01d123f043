// Package frames converts sky positions between equatorial, hour-angle and
// horizontal systems and between equinoxes.
//
// The numeric series behind sidereal time, precession and nutation sit
// behind Provider so the rotations built from them can be exercised
// against more than one implementation.
package frames

import (
	"math"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"

	"github.com/signalsfoundry/skyframe/constants"
	"github.com/signalsfoundry/skyframe/model"
)

// Provider supplies the epoch-dependent series used by Transformer.
// All angles are radians.
type Provider interface {
	Name() string
	// MeanSidereal returns Greenwich mean sidereal time for a UT1 Julian date.
	MeanSidereal(jdUT1 float64) float64
	// PrecessionAngles returns the IAU 1976 equatorial precession angles
	// from J2000.0 to the equinox of the TT Julian date.
	PrecessionAngles(jdTT float64) (zeta, z, theta float64)
	// Nutation returns nutation in longitude and obliquity and the mean
	// obliquity of the ecliptic at a TT Julian date.
	Nutation(jdTT float64) (dpsi, deps, eps0 float64)
}

// IAU1976 implements Provider with the IAU 1982 sidereal time of
// go-satellite, Lieske precession and a four-term nutation series good to
// about half an arcsecond.
type IAU1976 struct{}

// Name implements Provider.
func (IAU1976) Name() string { return "iau1976" }

// MeanSidereal is the IAU 1982 GMST via go-satellite.
func (IAU1976) MeanSidereal(jdUT1 float64) float64 {
	return model.NormalizeRA(satellite.ThetaG_JD(jdUT1))
}

// PrecessionAngles returns the Lieske (IAU 1976) angles.
func (IAU1976) PrecessionAngles(jdTT float64) (zeta, z, theta float64) {
	return lieske(centuries(jdTT))
}

// Nutation evaluates the four largest IAU 1980 terms.
func (IAU1976) Nutation(jdTT float64) (dpsi, deps, eps0 float64) {
	t := centuries(jdTT)

	// Mean longitudes of the Sun and Moon and of the Moon's ascending node.
	l := (280.4665 + 36000.7698*t) * constants.DegToRad
	lp := (218.3165 + 481267.8813*t) * constants.DegToRad
	om := (125.04452 - 1934.136261*t) * constants.DegToRad

	dpsi = (-17.20*math.Sin(om) - 1.32*math.Sin(2*l) - 0.23*math.Sin(2*lp) + 0.21*math.Sin(2*om)) * constants.ArcsecToRad
	deps = (9.20*math.Cos(om) + 0.57*math.Cos(2*l) + 0.10*math.Cos(2*lp) - 0.09*math.Cos(2*om)) * constants.ArcsecToRad
	eps0 = meanObliquity(t)
	return dpsi, deps, eps0
}

// Meeus implements Provider with the sidereal time and full IAU 1980
// nutation series of soniakeys/meeus. Precession is shared with IAU1976.
type Meeus struct{}

// Name implements Provider.
func (Meeus) Name() string { return "meeus" }

// MeanSidereal is sidereal.Mean from soniakeys/meeus.
func (Meeus) MeanSidereal(jdUT1 float64) float64 {
	return model.NormalizeRA(sidereal.Mean(jdUT1).Rad())
}

// PrecessionAngles returns the Lieske (IAU 1976) angles.
func (Meeus) PrecessionAngles(jdTT float64) (zeta, z, theta float64) {
	return lieske(centuries(jdTT))
}

// Nutation evaluates the full IAU 1980 series.
func (Meeus) Nutation(jdTT float64) (dpsi, deps, eps0 float64) {
	dp, de := nutation.Nutation(jdTT)
	return dp.Rad(), de.Rad(), nutation.MeanObliquity(jdTT).Rad()
}

// ProviderByName returns the built-in provider called name, or false.
func ProviderByName(name string) (Provider, bool) {
	switch name {
	case "iau1976", "":
		return IAU1976{}, true
	case "meeus":
		return Meeus{}, true
	default:
		return nil, false
	}
}

func centuries(jdTT float64) float64 {
	return (jdTT - constants.JDJ2000) / constants.DaysPerJulianCentury
}

// lieske evaluates the IAU 1976 precession angles for t TT centuries
// after J2000.0.
func lieske(t float64) (zeta, z, theta float64) {
	zeta = (2306.2181 + (0.30188+0.017998*t)*t) * t * constants.ArcsecToRad
	z = (2306.2181 + (1.09468+0.018203*t)*t) * t * constants.ArcsecToRad
	theta = (2004.3109 - (0.42665+0.041833*t)*t) * t * constants.ArcsecToRad
	return zeta, z, theta
}

// meanObliquity is the IAU 1980 mean obliquity of the ecliptic.
func meanObliquity(t float64) float64 {
	return (84381.448 + (-46.8150+(-0.00059+0.001813*t)*t)*t) * constants.ArcsecToRad
}

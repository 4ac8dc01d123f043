// Package constants holds the numeric constants that form part of the
// public contract of skyframe. Changing any value here is a breaking change
// for downstream pipelines that persist derived quantities.
package constants

import "math"

// Physical constants.
const (
	// SpeedOfLight is the speed of light in vacuum (m/s).
	SpeedOfLight = 299792458.0

	// EarthRotationRate is the IAU mean angular velocity of the Earth (rad/s).
	EarthRotationRate = 7.292115146706979e-5

	// SolarToSidereal is the ratio of a solar day to a sidereal day.
	SolarToSidereal = 1.002737909350795
)

// Time constants.
const (
	// SecondsPerDay is the number of SI seconds in a Julian day.
	SecondsPerDay = 86400.0

	// DaysPerJulianCentury is the length of a Julian century in days.
	DaysPerJulianCentury = 36525.0

	// JDJ2000 is the Julian date of the J2000.0 epoch (2000-01-01 12:00 TT).
	JDJ2000 = 2451545.0

	// JDB1950 is the Julian date of the B1950.0 epoch (TT).
	JDB1950 = 2433282.4235

	// MJDOffset converts a Julian date to a Modified Julian date.
	MJDOffset = 2400000.5

	// JDUnixEpoch is the Julian date of 1970-01-01 00:00 UTC.
	JDUnixEpoch = 2440587.5

	// JDGPSEpoch is the Julian date of the GPS epoch, 1980-01-06 00:00 UTC.
	JDGPSEpoch = 2444244.5

	// TTMinusTAI is the fixed offset between terrestrial time and TAI (s).
	TTMinusTAI = 32.184

	// TAIMinusGPS is the fixed offset between TAI and GPS time (s).
	TAIMinusGPS = 19.0
)

// Reference ellipsoids.
const (
	// WGS84SemiMajorAxis is the WGS 84 equatorial radius (m).
	WGS84SemiMajorAxis = 6378137.0
	// WGS84Flattening is the WGS 84 flattening.
	WGS84Flattening = 1.0 / 298.257223563

	// GRS80SemiMajorAxis is the GRS 80 equatorial radius (m).
	GRS80SemiMajorAxis = 6378137.0
	// GRS80Flattening is the GRS 80 flattening.
	GRS80Flattening = 1.0 / 298.257222101
)

// Murchison Widefield Array site, geodetic on WGS 84.
const (
	MWALatitudeDeg  = -26.703319405555554
	MWALongitudeDeg = 116.67081523611111
	MWAHeightM      = 377.827

	MWALatitudeRad  = MWALatitudeDeg * math.Pi / 180
	MWALongitudeRad = MWALongitudeDeg * math.Pi / 180
)

// Angular conversions.
const (
	DegToRad    = math.Pi / 180
	RadToDeg    = 180 / math.Pi
	ArcsecToRad = math.Pi / (180 * 3600)
	TwoPi       = 2 * math.Pi
)

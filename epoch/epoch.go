// Package epoch provides time-scale aware instants for astrometric work.
//
// An Epoch is a two-part Julian date tagged with the time scale it is
// expressed in. Frame transformations never accept bare floats for time:
// precession and nutation read TT, sidereal time reads UT1, and each
// operation converts the Epoch it is given to the scale it needs.
package epoch

import (
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/skyframe/constants"
)

// Scale identifies a time scale.
type Scale int

const (
	// UTC is coordinated universal time.
	UTC Scale = iota
	// TAI is international atomic time.
	TAI
	// TT is terrestrial time, the argument of precession and nutation.
	TT
	// UT1 is universal time tied to Earth rotation, the argument of
	// sidereal time. UT1 = UTC + DUT1.
	UT1
	// GPS is GPS system time, a fixed 19 s behind TAI.
	GPS
)

func (s Scale) String() string {
	switch s {
	case UTC:
		return "UTC"
	case TAI:
		return "TAI"
	case TT:
		return "TT"
	case UT1:
		return "UT1"
	case GPS:
		return "GPS"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

// Epoch is an immutable instant. The Julian date is held in two parts so
// that sub-millisecond resolution survives the large day number.
type Epoch struct {
	scale Scale
	jd1   float64
	jd2   float64
	// dut1 is UT1-UTC in seconds. It rides along with the value so that
	// UT1 conversions stay consistent for the lifetime of the epoch.
	dut1 float64
}

// FromTime returns the UTC epoch for t.
func FromTime(t time.Time) Epoch {
	t = t.UTC()
	sec := t.Unix()
	days := sec / 86400
	rem := sec % 86400
	if rem < 0 {
		rem += 86400
		days--
	}
	frac := (float64(rem) + float64(t.Nanosecond())/1e9) / constants.SecondsPerDay
	return normalize(Epoch{scale: UTC, jd1: constants.JDUnixEpoch + float64(days), jd2: frac})
}

// FromJD returns an epoch for a Julian date in the given scale.
func FromJD(jd float64, s Scale) Epoch {
	return FromJD2(jd, 0, s)
}

// FromJD2 returns an epoch for a two-part Julian date jd1+jd2.
func FromJD2(jd1, jd2 float64, s Scale) Epoch {
	return normalize(Epoch{scale: s, jd1: jd1, jd2: jd2})
}

// FromMJD returns an epoch for a Modified Julian date.
func FromMJD(mjd float64, s Scale) Epoch {
	return FromJD2(constants.MJDOffset, mjd, s)
}

// FromGPSSeconds returns the GPS-scale epoch that lies gps seconds after
// the GPS epoch. MWA observation IDs are GPS seconds.
func FromGPSSeconds(gps float64) Epoch {
	return FromJD2(constants.JDGPSEpoch, gps/constants.SecondsPerDay, GPS)
}

// J2000 is the J2000.0 reference epoch in TT.
func J2000() Epoch { return FromJD(constants.JDJ2000, TT) }

// B1950 is the B1950.0 reference epoch in TT.
func B1950() Epoch { return FromJD(constants.JDB1950, TT) }

// FromJulianYear returns the TT epoch for a Julian epoch year such as 2000.0.
func FromJulianYear(year float64) Epoch {
	return FromJD2(constants.JDJ2000, (year-2000)*365.25, TT)
}

// Scale reports the time scale of e.
func (e Epoch) Scale() Scale { return e.scale }

// JD returns the Julian date as a single float.
func (e Epoch) JD() float64 { return e.jd1 + e.jd2 }

// JD2 returns the two-part Julian date.
func (e Epoch) JD2() (float64, float64) { return e.jd1, e.jd2 }

// MJD returns the Modified Julian date.
func (e Epoch) MJD() float64 { return (e.jd1 - constants.MJDOffset) + e.jd2 }

// DUT1 returns UT1-UTC in seconds.
func (e Epoch) DUT1() float64 { return e.dut1 }

// WithDUT1 returns a copy of e carrying the given UT1-UTC offset.
func (e Epoch) WithDUT1(seconds float64) Epoch {
	e.dut1 = seconds
	return e
}

// IsZero reports whether e is the zero Epoch.
func (e Epoch) IsZero() bool { return e.jd1 == 0 && e.jd2 == 0 }

// AddSeconds returns e advanced by s seconds of its own scale.
func (e Epoch) AddSeconds(s float64) Epoch {
	e.jd2 += s / constants.SecondsPerDay
	return normalize(e)
}

// Add returns e advanced by d.
func (e Epoch) Add(d time.Duration) Epoch {
	return e.AddSeconds(d.Seconds())
}

// Sub returns e-o in seconds, after bringing o to the scale of e.
func (e Epoch) Sub(o Epoch) float64 {
	o = o.To(e.scale)
	return ((e.jd1 - o.jd1) + (e.jd2 - o.jd2)) * constants.SecondsPerDay
}

// Before reports whether e is earlier than o.
func (e Epoch) Before(o Epoch) bool { return e.Sub(o) < 0 }

// To converts e to scale s.
func (e Epoch) To(s Scale) Epoch {
	if e.scale == s {
		return e
	}
	return e.tai().fromTAI(s)
}

// UTC converts e to UTC.
func (e Epoch) UTC() Epoch { return e.To(UTC) }

// TAI converts e to TAI.
func (e Epoch) TAI() Epoch { return e.To(TAI) }

// TT converts e to terrestrial time.
func (e Epoch) TT() Epoch { return e.To(TT) }

// UT1 converts e to UT1 using the carried DUT1.
func (e Epoch) UT1() Epoch { return e.To(UT1) }

// GPS converts e to GPS time.
func (e Epoch) GPS() Epoch { return e.To(GPS) }

// GPSSeconds returns seconds since the GPS epoch.
func (e Epoch) GPSSeconds() float64 {
	g := e.To(GPS)
	return ((g.jd1 - constants.JDGPSEpoch) + g.jd2) * constants.SecondsPerDay
}

// Time returns e as a UTC time.Time, rounded to the nearest nanosecond.
func (e Epoch) Time() time.Time {
	u := e.To(UTC)
	dayOffset := u.jd1 - constants.JDUnixEpoch
	whole := math.Floor(dayOffset)
	frac := (dayOffset - whole) + u.jd2
	sec := int64(whole) * 86400
	ns := int64(math.Round(frac * constants.SecondsPerDay * 1e9))
	return time.Unix(sec, 0).Add(time.Duration(ns)).UTC()
}

// JulianCenturies returns TT Julian centuries since J2000.0.
func (e Epoch) JulianCenturies() float64 {
	t := e.To(TT)
	return ((t.jd1 - constants.JDJ2000) + t.jd2) / constants.DaysPerJulianCentury
}

// JulianYear returns the Julian epoch year in TT, e.g. 2000.0 at J2000.
func (e Epoch) JulianYear() float64 {
	return 2000 + e.JulianCenturies()*100
}

func (e Epoch) String() string {
	return fmt.Sprintf("JD %.9f %s", e.JD(), e.scale)
}

func (e Epoch) tai() Epoch {
	switch e.scale {
	case TAI:
		return e
	case TT:
		return e.shift(TAI, -constants.TTMinusTAI)
	case GPS:
		return e.shift(TAI, constants.TAIMinusGPS)
	case UTC:
		return e.shift(TAI, taiMinusUTC(e.MJD()))
	case UT1:
		utc := e.shift(UTC, -e.dut1)
		return utc.shift(TAI, taiMinusUTC(utc.MJD()))
	default:
		panic(fmt.Sprintf("epoch: unknown scale %d", int(e.scale)))
	}
}

func (e Epoch) fromTAI(s Scale) Epoch {
	switch s {
	case TAI:
		return e
	case TT:
		return e.shift(TT, constants.TTMinusTAI)
	case GPS:
		return e.shift(GPS, -constants.TAIMinusGPS)
	case UTC:
		return e.shift(UTC, -utcOffsetFromTAI(e.MJD()))
	case UT1:
		utc := e.shift(UTC, -utcOffsetFromTAI(e.MJD()))
		return utc.shift(UT1, e.dut1)
	default:
		panic(fmt.Sprintf("epoch: unknown scale %d", int(s)))
	}
}

func (e Epoch) shift(s Scale, seconds float64) Epoch {
	e.scale = s
	e.jd2 += seconds / constants.SecondsPerDay
	return normalize(e)
}

// normalize keeps jd2 in [-0.5, 0.5) so precision stays in the small part.
func normalize(e Epoch) Epoch {
	if w := math.Floor(e.jd2 + 0.5); w != 0 {
		e.jd1 += w
		e.jd2 -= w
	}
	return e
}

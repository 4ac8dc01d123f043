package model

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"

	"github.com/signalsfoundry/skyframe/constants"
	"github.com/signalsfoundry/skyframe/epoch"
)

// FrameKind names the equator and equinox an equatorial coordinate is
// referred to.
type FrameKind int

const (
	// FrameJ2000 is the mean equator and equinox of J2000.0.
	FrameJ2000 FrameKind = iota
	// FrameB1950 is the mean equator and equinox of B1950.0.
	FrameB1950
	// FrameMeanOfDate is the mean equator and equinox of Frame.Equinox.
	FrameMeanOfDate
	// FrameApparentOfDate is the true equator and equinox of Frame.Equinox.
	FrameApparentOfDate
)

func (k FrameKind) String() string {
	switch k {
	case FrameJ2000:
		return "J2000"
	case FrameB1950:
		return "B1950"
	case FrameMeanOfDate:
		return "mean-of-date"
	case FrameApparentOfDate:
		return "apparent-of-date"
	default:
		return fmt.Sprintf("FrameKind(%d)", int(k))
	}
}

// Frame tags an equatorial coordinate with its reference frame.
type Frame struct {
	Kind FrameKind
	// Equinox is only meaningful for the of-date kinds.
	Equinox epoch.Epoch
}

// J2000Frame is the catalogue frame.
func J2000Frame() Frame { return Frame{Kind: FrameJ2000} }

// OfDate returns the mean or apparent frame of the given epoch.
func OfDate(e epoch.Epoch, apparent bool) Frame {
	if apparent {
		return Frame{Kind: FrameApparentOfDate, Equinox: e}
	}
	return Frame{Kind: FrameMeanOfDate, Equinox: e}
}

// EquinoxEpoch returns the epoch of the frame's equinox in TT.
func (f Frame) EquinoxEpoch() epoch.Epoch {
	switch f.Kind {
	case FrameJ2000:
		return epoch.J2000()
	case FrameB1950:
		return epoch.B1950()
	default:
		return f.Equinox.TT()
	}
}

// Apparent reports whether the frame includes nutation.
func (f Frame) Apparent() bool { return f.Kind == FrameApparentOfDate }

func (f Frame) String() string {
	switch f.Kind {
	case FrameMeanOfDate, FrameApparentOfDate:
		return fmt.Sprintf("%s(J%.4f)", f.Kind, f.Equinox.JulianYear())
	default:
		return f.Kind.String()
	}
}

// EquatorialCoord is a right ascension and declination in radians.
// RA lies in [0, 2π) and Dec in [-π/2, π/2].
type EquatorialCoord struct {
	RA    float64
	Dec   float64
	Frame Frame
}

// NewEquatorial builds a J2000 coordinate from radians, normalising RA.
func NewEquatorial(ra, dec float64) EquatorialCoord {
	return EquatorialCoord{RA: NormalizeRA(ra), Dec: dec, Frame: J2000Frame()}
}

// EquatorialFromDegrees builds a J2000 coordinate from degrees.
func EquatorialFromDegrees(raDeg, decDeg float64) EquatorialCoord {
	return NewEquatorial(unit.AngleFromDeg(raDeg).Rad(), unit.AngleFromDeg(decDeg).Rad())
}

// Validate checks the coordinate against its documented ranges.
func (c EquatorialCoord) Validate() error {
	if math.IsNaN(c.RA) || c.RA < 0 || c.RA >= constants.TwoPi {
		return &CoordinateError{Quantity: "right ascension", Value: c.RA}
	}
	if err := checkLatitude("declination", c.Dec); err != nil {
		return err
	}
	return nil
}

// In returns a copy of c re-tagged with frame f; the angles are unchanged.
func (c EquatorialCoord) In(f Frame) EquatorialCoord {
	c.Frame = f
	return c
}

// Cartesian returns the unit direction vector of c.
func (c EquatorialCoord) Cartesian() (x, y, z float64) {
	sr, cr := math.Sincos(c.RA)
	sd, cd := math.Sincos(c.Dec)
	return cd * cr, cd * sr, sd
}

// EquatorialFromCartesian inverts Cartesian for a unit-length vector.
func EquatorialFromCartesian(x, y, z float64, f Frame) EquatorialCoord {
	r := math.Hypot(x, y)
	ra := 0.0
	if r != 0 {
		ra = math.Atan2(y, x)
	}
	return EquatorialCoord{RA: NormalizeRA(ra), Dec: math.Atan2(z, r), Frame: f}
}

func (c EquatorialCoord) String() string {
	return fmt.Sprintf("(%.6f°, %.6f°) %s", unit.Angle(c.RA).Deg(), unit.Angle(c.Dec).Deg(), c.Frame)
}

// HADec is an hour angle and declination in radians.
type HADec struct {
	HA  float64
	Dec float64
}

// HADecFromDegrees builds an HADec from degrees.
func HADecFromDegrees(haDeg, decDeg float64) HADec {
	return HADec{HA: unit.AngleFromDeg(haDeg).Rad(), Dec: unit.AngleFromDeg(decDeg).Rad()}
}

// Validate checks the declination; any finite hour angle is accepted.
func (h HADec) Validate() error {
	if math.IsNaN(h.HA) || math.IsInf(h.HA, 0) {
		return &CoordinateError{Quantity: "hour angle", Value: h.HA}
	}
	return checkLatitude("declination", h.Dec)
}

// HorizontalCoord is an azimuth (from north through east, [0, 2π)) and
// elevation ([-π/2, π/2]) in radians.
type HorizontalCoord struct {
	Az float64
	El float64
}

// HorizontalFromDegrees builds a horizontal coordinate from degrees.
func HorizontalFromDegrees(azDeg, elDeg float64) HorizontalCoord {
	return HorizontalCoord{Az: unit.AngleFromDeg(azDeg).Rad(), El: unit.AngleFromDeg(elDeg).Rad()}
}

// ZenithAngle returns π/2 - El.
func (h HorizontalCoord) ZenithAngle() float64 { return math.Pi/2 - h.El }

// Validate checks the coordinate against its documented ranges.
func (h HorizontalCoord) Validate() error {
	if math.IsNaN(h.Az) || math.IsInf(h.Az, 0) {
		return &CoordinateError{Quantity: "azimuth", Value: h.Az}
	}
	return checkLatitude("elevation", h.El)
}

func (h HorizontalCoord) String() string {
	return fmt.Sprintf("(%.4f°, %.4f°)", unit.Angle(h.Az).Deg(), unit.Angle(h.El).Deg())
}

// SkyFrame is the closed set of sky coordinate systems.
type SkyFrame int

const (
	// SkyEquatorial is right ascension and declination in an equinox frame.
	SkyEquatorial SkyFrame = iota
	// SkyHourAngle is local hour angle and declination.
	SkyHourAngle
	// SkyHorizontal is azimuth from north through east and elevation.
	SkyHorizontal
)

func (f SkyFrame) String() string {
	switch f {
	case SkyEquatorial:
		return "equatorial"
	case SkyHourAngle:
		return "hour-angle"
	case SkyHorizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("SkyFrame(%d)", int(f))
	}
}

// SkyPosition is a tagged sky direction. Lon is RA, HA or Az and Lat is
// Dec or El depending on Frame. Equatorial positions carry Equinox.
type SkyPosition struct {
	Frame   SkyFrame
	Lon     float64
	Lat     float64
	Equinox Frame
}

// Sky wraps c as a SkyPosition.
func (c EquatorialCoord) Sky() SkyPosition {
	return SkyPosition{Frame: SkyEquatorial, Lon: c.RA, Lat: c.Dec, Equinox: c.Frame}
}

// Sky wraps h as a SkyPosition.
func (h HADec) Sky() SkyPosition { return SkyPosition{Frame: SkyHourAngle, Lon: h.HA, Lat: h.Dec} }

// Sky wraps h as a SkyPosition.
func (h HorizontalCoord) Sky() SkyPosition {
	return SkyPosition{Frame: SkyHorizontal, Lon: h.Az, Lat: h.El}
}

// Equatorial unwraps an equatorial SkyPosition.
func (p SkyPosition) Equatorial() EquatorialCoord {
	return EquatorialCoord{RA: p.Lon, Dec: p.Lat, Frame: p.Equinox}
}

// HADec unwraps an hour-angle SkyPosition.
func (p SkyPosition) HADec() HADec { return HADec{HA: p.Lon, Dec: p.Lat} }

// Horizontal unwraps a horizontal SkyPosition.
func (p SkyPosition) Horizontal() HorizontalCoord { return HorizontalCoord{Az: p.Lon, El: p.Lat} }

// NormalizeRA wraps an angle into [0, 2π).
func NormalizeRA(a float64) float64 {
	r := unit.PMod(a, constants.TwoPi)
	if r >= constants.TwoPi {
		r = 0
	}
	return r
}

// NormalizePi wraps an angle into [-π, π).
func NormalizePi(a float64) float64 {
	return unit.PMod(a+math.Pi, constants.TwoPi) - math.Pi
}

func checkLatitude(quantity string, v float64) error {
	if math.IsNaN(v) || v < -math.Pi/2 || v > math.Pi/2 {
		return &CoordinateError{Quantity: quantity, Value: v}
	}
	return nil
}

package frames

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/skyframe/epoch"
	"github.com/signalsfoundry/skyframe/model"
)

// Transformer converts sky positions for an observatory and epoch. A
// Transformer is immutable after construction and safe for concurrent use.
type Transformer struct {
	provider      Provider
	nutation      bool
	precessToDate bool
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithProvider selects the sidereal time, precession and nutation series.
func WithProvider(p Provider) Option {
	return func(t *Transformer) {
		if p != nil {
			t.provider = p
		}
	}
}

// WithNutation adds the equation of the equinoxes to sidereal time and
// makes ToDate produce apparent rather than mean positions. Off by default.
func WithNutation(on bool) Option {
	return func(t *Transformer) { t.nutation = on }
}

// WithPrecessToDate makes hour angles refer to the equinox of date, the
// frame sidereal time is measured in. On by default. Turning it off pairs
// catalogue J2000.0 right ascensions with sidereal time of date, which is
// off by the accumulated precession since J2000.0.
func WithPrecessToDate(on bool) Option {
	return func(t *Transformer) { t.precessToDate = on }
}

// NewTransformer returns a Transformer using the IAU1976 provider unless
// configured otherwise.
func NewTransformer(opts ...Option) *Transformer {
	t := &Transformer{provider: IAU1976{}, precessToDate: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Provider returns the sidereal time, precession and nutation series in use.
func (t *Transformer) Provider() Provider { return t.provider }

// Nutation reports whether sidereal time and frames of date are apparent.
func (t *Transformer) Nutation() bool { return t.nutation }

// PrecessToDate reports whether hour angles refer to the equinox of date.
func (t *Transformer) PrecessToDate() bool { return t.precessToDate }

func (t *Transformer) String() string {
	return fmt.Sprintf("frames(%s, nutation=%t, precessToDate=%t)", t.provider.Name(), t.nutation, t.precessToDate)
}

// GreenwichSidereal returns Greenwich sidereal time in [0, 2π): mean, or
// apparent when nutation is enabled.
func (t *Transformer) GreenwichSidereal(at epoch.Epoch) float64 {
	gst := t.provider.MeanSidereal(at.UT1().JD())
	if t.nutation {
		gst += t.EquationOfEquinoxes(at)
	}
	return model.NormalizeRA(gst)
}

// EquationOfEquinoxes returns Δψ·cos ε in radians.
func (t *Transformer) EquationOfEquinoxes(at epoch.Epoch) float64 {
	dpsi, deps, eps0 := t.provider.Nutation(at.TT().JD())
	return dpsi * math.Cos(eps0+deps)
}

// LocalSidereal returns local sidereal time in [0, 2π) at east longitude
// lon. Horizontal conversions and UVW rotations both go through here.
func (t *Transformer) LocalSidereal(at epoch.Epoch, lon float64) float64 {
	return model.NormalizeRA(t.GreenwichSidereal(at) + lon)
}

// HourAngleFrame is the equatorial frame hour angles refer to at epoch at.
func (t *Transformer) HourAngleFrame(at epoch.Epoch) model.Frame {
	if t.precessToDate {
		return model.OfDate(at, t.nutation)
	}
	return model.J2000Frame()
}

// HourAngle returns the hour angle and declination of eq seen from site.
// eq is first moved to HourAngleFrame when it is tagged with another frame.
func (t *Transformer) HourAngle(eq model.EquatorialCoord, site model.ObservatoryLocation, at epoch.Epoch) (model.HADec, error) {
	if err := eq.Validate(); err != nil {
		return model.HADec{}, err
	}
	if err := site.Validate(); err != nil {
		return model.HADec{}, fmt.Errorf("site %s: %w", site.Name, err)
	}
	eq, err := t.Precess(eq, eq.Frame, t.HourAngleFrame(at))
	if err != nil {
		return model.HADec{}, err
	}
	lst := t.LocalSidereal(at, site.Longitude())
	return model.HADec{HA: model.NormalizePi(lst - eq.RA), Dec: eq.Dec}, nil
}

// ToHorizontal returns the azimuth and elevation of eq seen from site.
// At the zenith the azimuth is 0.
func (t *Transformer) ToHorizontal(eq model.EquatorialCoord, site model.ObservatoryLocation, at epoch.Epoch) (model.HorizontalCoord, error) {
	hd, err := t.HourAngle(eq, site, at)
	if err != nil {
		return model.HorizontalCoord{}, err
	}
	return HADecToAzEl(hd, site.Latitude()), nil
}

// ToEquatorial inverts ToHorizontal and returns a J2000 coordinate.
func (t *Transformer) ToEquatorial(h model.HorizontalCoord, site model.ObservatoryLocation, at epoch.Epoch) (model.EquatorialCoord, error) {
	return t.ToEquatorialIn(h, site, at, model.J2000Frame())
}

// ToEquatorialIn inverts ToHorizontal and returns a coordinate in frame f.
func (t *Transformer) ToEquatorialIn(h model.HorizontalCoord, site model.ObservatoryLocation, at epoch.Epoch, f model.Frame) (model.EquatorialCoord, error) {
	if err := h.Validate(); err != nil {
		return model.EquatorialCoord{}, err
	}
	if err := site.Validate(); err != nil {
		return model.EquatorialCoord{}, fmt.Errorf("site %s: %w", site.Name, err)
	}
	hd := AzElToHADec(h, site.Latitude())
	return t.fromHADec(hd, site, at, f)
}

func (t *Transformer) fromHADec(hd model.HADec, site model.ObservatoryLocation, at epoch.Epoch, f model.Frame) (model.EquatorialCoord, error) {
	lst := t.LocalSidereal(at, site.Longitude())
	haFrame := t.HourAngleFrame(at)
	eq := model.EquatorialCoord{RA: model.NormalizeRA(lst - hd.HA), Dec: hd.Dec, Frame: haFrame}
	return t.Precess(eq, haFrame, f)
}

// HADecToAzEl converts hour angle and declination to azimuth and
// elevation at geodetic latitude lat. At the zenith the azimuth is 0.
func HADecToAzEl(hd model.HADec, lat float64) model.HorizontalCoord {
	sh, ch := math.Sincos(hd.HA)
	sd, cd := math.Sincos(hd.Dec)
	sp, cp := math.Sincos(lat)

	x := -ch*cd*sp + sd*cp
	y := -sh * cd
	z := ch*cd*cp + sd*sp

	r := math.Hypot(x, y)
	az := 0.0
	if r != 0 {
		az = math.Atan2(y, x)
	}
	return model.HorizontalCoord{Az: model.NormalizeRA(az), El: math.Atan2(z, r)}
}

// AzElToHADec converts azimuth and elevation to hour angle and
// declination at geodetic latitude lat. The hour angle lies in (-π, π]
// and is 0 at the celestial pole.
func AzElToHADec(h model.HorizontalCoord, lat float64) model.HADec {
	sa, ca := math.Sincos(h.Az)
	se, ce := math.Sincos(h.El)
	sp, cp := math.Sincos(lat)

	x := -ca*ce*sp + se*cp
	y := -sa * ce
	z := ca*ce*cp + se*sp

	r := math.Hypot(x, y)
	ha := 0.0
	if r != 0 {
		ha = math.Atan2(y, x)
	}
	return model.HADec{HA: ha, Dec: math.Atan2(z, r)}
}

// ParallacticAngle returns the angle between the direction to the pole
// and the vertical at hd for an observer at latitude lat. It is 0 when
// both are undefined.
func ParallacticAngle(hd model.HADec, lat float64) float64 {
	sh, ch := math.Sincos(hd.HA)
	sd, cd := math.Sincos(hd.Dec)
	sp, cp := math.Sincos(lat)
	y := sh * cp
	x := sp*cd - cp*sd*ch
	if x == 0 && y == 0 {
		return 0
	}
	return math.Atan2(y, x)
}

// Separation returns the great-circle angle between a and b. Frames are
// not reconciled.
func Separation(a, b model.EquatorialCoord) float64 {
	sd1, cd1 := math.Sincos(a.Dec)
	sd2, cd2 := math.Sincos(b.Dec)
	sdr, cdr := math.Sincos(b.RA - a.RA)

	// Vincenty form, well conditioned at all separations.
	num := math.Hypot(cd2*sdr, cd1*sd2-sd1*cd2*cdr)
	den := sd1*sd2 + cd1*cd2*cdr
	return math.Atan2(num, den)
}

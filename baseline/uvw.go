package baseline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/signalsfoundry/skyframe/constants"
	"github.com/signalsfoundry/skyframe/epoch"
	"github.com/signalsfoundry/skyframe/frames"
	"github.com/signalsfoundry/skyframe/geodesy"
	"github.com/signalsfoundry/skyframe/model"
)

// UVWSet holds the UVW coordinates of every baseline of an array at one
// epoch for one phase centre. The baseline from antenna i to antenna j is
// position(i) - position(j) projected onto the (u, v, w) axes.
type UVWSet struct {
	n     int
	autos bool
	uvws  []model.UVW

	epoch  epoch.Epoch
	centre model.EquatorialCoord
	hadec  model.HADec
	lst    float64
}

// NumAntennas returns the number of antennas the set was computed for.
func (s UVWSet) NumAntennas() int { return s.n }

// Len returns the number of stored baselines.
func (s UVWSet) Len() int { return len(s.uvws) }

// Autos reports whether autocorrelation baselines are stored.
func (s UVWSet) Autos() bool { return s.autos }

// Epoch returns the epoch the set was computed at.
func (s UVWSet) Epoch() epoch.Epoch { return s.epoch }

// PhaseCentre returns the phase centre as given by the caller.
func (s UVWSet) PhaseCentre() model.EquatorialCoord { return s.centre }

// HADec returns the hour angle and declination of the phase centre that
// defined the projection.
func (s UVWSet) HADec() model.HADec { return s.hadec }

// LocalSidereal returns the local sidereal time used for the projection.
func (s UVWSet) LocalSidereal() float64 { return s.lst }

// Pairs lists the stored baselines in order.
func (s UVWSet) Pairs() []model.Pair { return Pairs(s.n, s.autos) }

// UVWs returns a copy of the stored baselines in order.
func (s UVWSet) UVWs() []model.UVW {
	out := make([]model.UVW, len(s.uvws))
	copy(out, s.uvws)
	return out
}

// At returns the UVW of the baseline from i to j. At(j, i) is the negation
// of At(i, j) and At(i, i) is zero. At panics if i or j is out of range.
func (s UVWSet) At(i, j int) model.UVW {
	if i < 0 || i >= s.n || j < 0 || j >= s.n {
		panic(fmt.Sprintf("baseline: antenna pair (%d,%d) out of range for %d antennas", i, j, s.n))
	}
	if i == j {
		return model.UVW{}
	}
	idx, _ := Index(s.n, i, j, s.autos)
	if i > j {
		return s.uvws[idx].Neg()
	}
	return s.uvws[idx]
}

// Map returns every ordered antenna pair, including self pairs, keyed to
// its UVW.
func (s UVWSet) Map() map[model.Pair]model.UVW {
	out := make(map[model.Pair]model.UVW, s.n*s.n)
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			out[model.Pair{I: i, J: j}] = s.At(i, j)
		}
	}
	return out
}

// Matrix returns the stored baselines as a Len() x 3 matrix with columns
// u, v, w in metres.
func (s UVWSet) Matrix() *mat.Dense {
	if len(s.uvws) == 0 {
		return nil
	}
	data := make([]float64, 0, 3*len(s.uvws))
	for _, u := range s.uvws {
		data = append(data, u.U, u.V, u.W)
	}
	return mat.NewDense(len(s.uvws), 3, data)
}

// Wavelengths returns the stored baselines in wavelengths at freqHz.
func (s UVWSet) Wavelengths(freqHz float64) []model.UVW {
	out := make([]model.UVW, len(s.uvws))
	for i, u := range s.uvws {
		out[i] = u.Wavelengths(freqHz)
	}
	return out
}

// ComputeUVW computes cross-correlation UVWs of antennas (ECEF metres) at
// epoch at, for a phase centre tracked from site. Hour angles come from
// tr so they agree with tr.ToHorizontal. A non-finite antenna position
// aborts the whole computation with a *model.PositionError.
func ComputeUVW(tr *frames.Transformer, antennas []model.GeocentricPosition, pc model.EquatorialCoord, site model.ObservatoryLocation, at epoch.Epoch) (UVWSet, error) {
	rel, err := centred(antennas)
	if err != nil {
		return UVWSet{}, err
	}
	return project(tr, rel, pc, site, at, false)
}

// centred validates antennas and returns them relative to their centroid.
func centred(antennas []model.GeocentricPosition) ([]r3.Vec, error) {
	var sum r3.Vec
	for i, a := range antennas {
		if !a.Finite() {
			return nil, &model.PositionError{Index: i, Position: [3]float64{a.X, a.Y, a.Z}}
		}
		sum = r3.Add(sum, a.Vec())
	}
	if len(antennas) == 0 {
		return nil, nil
	}
	mean := r3.Scale(1/float64(len(antennas)), sum)
	rel := make([]r3.Vec, len(antennas))
	for i, a := range antennas {
		rel[i] = r3.Sub(a.Vec(), mean)
	}
	return rel, nil
}

// Rotation returns the matrix taking an ECEF baseline to (u, v, w) for
// hour angle ha and declination dec, observed from east longitude lon. It
// is built directly from sines and cosines so a phase centre at the pole
// needs no special handling.
func Rotation(ha, dec, lon float64) *r3.Mat {
	sh, ch := math.Sincos(ha)
	sd, cd := math.Sincos(dec)
	sl, cl := math.Sincos(lon)

	// Local XYZ to UVW.
	toUVW := r3.NewMat([]float64{
		sh, ch, 0,
		-sd * ch, sd * sh, cd,
		cd * ch, -cd * sh, sd,
	})
	// ECEF to local XYZ: rotate about the pole onto the site meridian.
	toXYZ := r3.NewMat([]float64{
		cl, sl, 0,
		-sl, cl, 0,
		0, 0, 1,
	})
	m := r3.NewMat(nil)
	m.Mul(toUVW, toXYZ)
	return m
}

func project(tr *frames.Transformer, rel []r3.Vec, pc model.EquatorialCoord, site model.ObservatoryLocation, at epoch.Epoch, autos bool) (UVWSet, error) {
	hd, err := tr.HourAngle(pc, site, at)
	if err != nil {
		return UVWSet{}, err
	}
	rot := Rotation(hd.HA, hd.Dec, site.Longitude())

	ant := make([]model.UVW, len(rel))
	for i, v := range rel {
		p := rot.MulVec(v)
		ant[i] = model.UVW{U: p.X, V: p.Y, W: p.Z}
	}

	n := len(rel)
	uvws := make([]model.UVW, 0, NumBaselines(n, autos))
	for i := 0; i < n; i++ {
		if autos {
			uvws = append(uvws, model.UVW{})
		}
		for j := i + 1; j < n; j++ {
			uvws = append(uvws, ant[i].Sub(ant[j]))
		}
	}

	return UVWSet{
		n:      n,
		autos:  autos,
		uvws:   uvws,
		epoch:  at,
		centre: pc,
		hadec:  hd,
		lst:    tr.LocalSidereal(at, site.Longitude()),
	}, nil
}

// AntennasFromTangentPlane converts east-north-height offsets from site
// into ECEF positions on ellipsoid e.
func AntennasFromTangentPlane(offsets []model.TangentPlanePosition, site model.ObservatoryLocation, e geodesy.Ellipsoid) ([]model.GeocentricPosition, error) {
	tp, err := geodesy.NewTangentPlane(site.Geodetic, e)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", site.Name, err)
	}
	out := make([]model.GeocentricPosition, len(offsets))
	for i, o := range offsets {
		g, err := tp.ToGeocentric(o)
		if err != nil {
			return nil, &model.PositionError{Index: i, Position: [3]float64{o.East, o.North, o.Height}}
		}
		out[i] = g
	}
	return out, nil
}

// AntennasFromLocalXYZ converts array-meridian XYZ positions, relative to
// the array centre, into ECEF offsets. The result is suitable for
// ComputeUVW since only differences between antennas matter.
func AntennasFromLocalXYZ(xyz []model.LocalXYZ, lon float64) []model.GeocentricPosition {
	out := make([]model.GeocentricPosition, len(xyz))
	for i, p := range xyz {
		out[i] = geodesy.LocalXYZToGeocentric(p, lon)
	}
	return out
}

// Wavelength returns the wavelength in metres of freqHz.
func Wavelength(freqHz float64) float64 { return constants.SpeedOfLight / freqHz }

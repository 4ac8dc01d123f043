package geodesy

import (
	"math"

	"github.com/signalsfoundry/skyframe/model"
)

const (
	// MaxIterations bounds the Bowring iteration in GeocentricToGeodetic.
	MaxIterations = 16
	// LatitudeTolerance is the change in latitude (rad) below which the
	// iteration is considered converged.
	LatitudeTolerance = 1e-12
)

type iteration struct {
	max int
	tol float64
}

// IterationOption tunes the latitude iteration of GeocentricToGeodetic.
type IterationOption func(*iteration)

// WithMaxIterations caps the number of latitude updates. Values below 1
// keep MaxIterations.
func WithMaxIterations(n int) IterationOption {
	return func(it *iteration) {
		if n >= 1 {
			it.max = n
		}
	}
}

// WithTolerance sets the convergence threshold in radians. Negative or
// NaN values keep LatitudeTolerance.
func WithTolerance(tol float64) IterationOption {
	return func(it *iteration) {
		if tol >= 0 {
			it.tol = tol
		}
	}
}

// GeodeticToGeocentric converts a geodetic position to ECEF metres.
func GeodeticToGeocentric(p model.GeodeticPosition, e Ellipsoid) (model.GeocentricPosition, error) {
	if err := p.Validate(); err != nil {
		return model.GeocentricPosition{}, err
	}
	sinLat, cosLat := math.Sincos(p.Latitude)
	sinLon, cosLon := math.Sincos(p.Longitude)
	n := e.PrimeVerticalRadius(p.Latitude)

	return model.GeocentricPosition{
		X: (n + p.Height) * cosLat * cosLon,
		Y: (n + p.Height) * cosLat * sinLon,
		Z: (n*(1-e.E2()) + p.Height) * sinLat,
	}, nil
}

// GeocentricToGeodetic converts ECEF metres to a geodetic position using
// Bowring's iteration on the parametric latitude. It returns a
// *model.ConvergenceError rather than an approximate answer when the
// latitude has not settled within MaxIterations, or the limits set by opts.
// At least two updates are needed to measure convergence.
//
// On the polar axis the latitude is ±π/2 and the longitude 0. The
// Earth's centre has no geodetic representation and is rejected.
func GeocentricToGeodetic(g model.GeocentricPosition, e Ellipsoid, opts ...IterationOption) (model.GeodeticPosition, error) {
	it := iteration{max: MaxIterations, tol: LatitudeTolerance}
	for _, opt := range opts {
		opt(&it)
	}

	if !g.Finite() {
		return model.GeodeticPosition{}, &model.PositionError{Index: -1, Position: [3]float64{g.X, g.Y, g.Z}}
	}
	p := math.Hypot(g.X, g.Y)
	if p == 0 {
		if g.Z == 0 {
			return model.GeodeticPosition{}, &model.PositionError{Index: -1, Position: [3]float64{g.X, g.Y, g.Z}}
		}
		return model.GeodeticPosition{
			Latitude:  math.Copysign(math.Pi/2, g.Z),
			Longitude: 0,
			Height:    math.Abs(g.Z) - e.B(),
		}, nil
	}

	a, b := e.A, e.B()
	e2, ep2 := e.E2(), e.EP2()
	oneMinusF := 1 - e.F

	beta := math.Atan2(g.Z, oneMinusF*p)
	lat := 0.0
	residual := math.Inf(1)
	converged := false
	for i := 0; i < it.max; i++ {
		sb, cb := math.Sincos(beta)
		next := math.Atan2(g.Z+ep2*b*sb*sb*sb, p-e2*a*cb*cb*cb)
		residual = math.Abs(next - lat)
		lat = next
		if i > 0 && residual <= it.tol {
			converged = true
			break
		}
		sl, cl := math.Sincos(lat)
		beta = math.Atan2(oneMinusF*sl, cl)
	}
	if !converged {
		return model.GeodeticPosition{}, &model.ConvergenceError{Position: g, Iterations: it.max, Residual: residual}
	}

	// This form of the height has no division by cos(lat) and stays
	// accurate close to the poles.
	sl, cl := math.Sincos(lat)
	h := p*cl + g.Z*sl - a*math.Sqrt(1-e2*sl*sl)

	return model.GeodeticPosition{
		Latitude:  lat,
		Longitude: math.Atan2(g.Y, g.X),
		Height:    h,
	}, nil
}

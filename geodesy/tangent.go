package geodesy

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/signalsfoundry/skyframe/model"
)

// TangentPlane is an east-north-height frame anchored at a geodetic origin.
// The origin's ECEF position and rotation are computed once so the plane
// can be reused across many positions.
type TangentPlane struct {
	origin    model.GeodeticPosition
	originECF model.GeocentricPosition
	// rot maps ECEF offsets to (east, north, height).
	rot *r3.Mat
}

// NewTangentPlane builds the tangent plane at origin on ellipsoid e.
func NewTangentPlane(origin model.GeodeticPosition, e Ellipsoid) (TangentPlane, error) {
	o, err := GeodeticToGeocentric(origin, e)
	if err != nil {
		return TangentPlane{}, err
	}
	sinLat, cosLat := math.Sincos(origin.Latitude)
	sinLon, cosLon := math.Sincos(origin.Longitude)
	rot := r3.NewMat([]float64{
		-sinLon, cosLon, 0,
		-sinLat * cosLon, -sinLat * sinLon, cosLat,
		cosLat * cosLon, cosLat * sinLon, sinLat,
	})
	return TangentPlane{origin: origin, originECF: o, rot: rot}, nil
}

// Origin returns the geodetic origin of the plane.
func (tp TangentPlane) Origin() model.GeodeticPosition { return tp.origin }

// OriginGeocentric returns the ECEF position of the origin.
func (tp TangentPlane) OriginGeocentric() model.GeocentricPosition { return tp.originECF }

// FromGeocentric expresses an ECEF position in the tangent plane.
func (tp TangentPlane) FromGeocentric(g model.GeocentricPosition) (model.TangentPlanePosition, error) {
	if !g.Finite() {
		return model.TangentPlanePosition{}, &model.PositionError{Index: -1, Position: [3]float64{g.X, g.Y, g.Z}}
	}
	v := tp.rot.MulVec(r3.Sub(g.Vec(), tp.originECF.Vec()))
	return model.TangentPlanePosition{East: v.X, North: v.Y, Height: v.Z}, nil
}

// ToGeocentric is the inverse of FromGeocentric.
func (tp TangentPlane) ToGeocentric(p model.TangentPlanePosition) (model.GeocentricPosition, error) {
	if !p.Finite() {
		return model.GeocentricPosition{}, &model.PositionError{Index: -1, Position: [3]float64{p.East, p.North, p.Height}}
	}
	d := tp.rot.MulVecTrans(r3.Vec{X: p.East, Y: p.North, Z: p.Height})
	return model.GeocentricFromVec(r3.Add(tp.originECF.Vec(), d)), nil
}

// GeocentricToTangentPlane expresses pos relative to origin.
func GeocentricToTangentPlane(pos model.GeocentricPosition, origin model.GeodeticPosition, e Ellipsoid) (model.TangentPlanePosition, error) {
	tp, err := NewTangentPlane(origin, e)
	if err != nil {
		return model.TangentPlanePosition{}, err
	}
	return tp.FromGeocentric(pos)
}

// TangentPlaneToGeocentric is the inverse of GeocentricToTangentPlane.
func TangentPlaneToGeocentric(p model.TangentPlanePosition, origin model.GeodeticPosition, e Ellipsoid) (model.GeocentricPosition, error) {
	tp, err := NewTangentPlane(origin, e)
	if err != nil {
		return model.GeocentricPosition{}, err
	}
	return tp.ToGeocentric(p)
}

// ENHToLocalXYZ rotates a tangent-plane offset at latitude lat into the
// array-meridian XYZ frame.
func ENHToLocalXYZ(p model.TangentPlanePosition, lat float64) model.LocalXYZ {
	s, c := math.Sincos(lat)
	return model.LocalXYZ{
		X: -s*p.North + c*p.Height,
		Y: p.East,
		Z: c*p.North + s*p.Height,
	}
}

// LocalXYZToENH is the inverse of ENHToLocalXYZ.
func LocalXYZToENH(x model.LocalXYZ, lat float64) model.TangentPlanePosition {
	s, c := math.Sincos(lat)
	return model.TangentPlanePosition{
		East:   x.Y,
		North:  -s*x.X + c*x.Z,
		Height: c*x.X + s*x.Z,
	}
}

// GeocentricToLocalXYZ rotates an ECEF vector about the pole by the site
// longitude lon.
func GeocentricToLocalXYZ(g model.GeocentricPosition, lon float64) model.LocalXYZ {
	s, c := math.Sincos(lon)
	return model.LocalXYZ{
		X: c*g.X + s*g.Y,
		Y: -s*g.X + c*g.Y,
		Z: g.Z,
	}
}

// LocalXYZToGeocentric is the inverse of GeocentricToLocalXYZ.
func LocalXYZToGeocentric(x model.LocalXYZ, lon float64) model.GeocentricPosition {
	s, c := math.Sincos(lon)
	return model.GeocentricPosition{
		X: c*x.X - s*x.Y,
		Y: s*x.X + c*x.Y,
		Z: x.Z,
	}
}

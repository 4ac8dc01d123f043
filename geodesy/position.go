package geodesy

import (
	"fmt"

	"github.com/signalsfoundry/skyframe/model"
)

// PositionFrame enumerates the frames a terrestrial position can be
// expressed in.
type PositionFrame int

const (
	// FrameGeodetic is latitude and east longitude in radians and height
	// above the ellipsoid in metres.
	FrameGeodetic PositionFrame = iota
	// FrameGeocentric is Earth-centred, Earth-fixed X, Y, Z in metres.
	FrameGeocentric
	// FrameTangentPlane is east, north and height in metres about an origin.
	FrameTangentPlane
)

func (f PositionFrame) String() string {
	switch f {
	case FrameGeodetic:
		return "geodetic"
	case FrameGeocentric:
		return "geocentric"
	case FrameTangentPlane:
		return "tangent-plane"
	default:
		return fmt.Sprintf("PositionFrame(%d)", int(f))
	}
}

// Position is a terrestrial position tagged with its frame. The three
// components are (lat, lon, height), (X, Y, Z) or (east, north, height).
type Position struct {
	Frame   PositionFrame
	A, B, C float64
}

// FromGeodetic tags p as a geodetic position.
func FromGeodetic(p model.GeodeticPosition) Position {
	return Position{Frame: FrameGeodetic, A: p.Latitude, B: p.Longitude, C: p.Height}
}

// FromGeocentric tags g as an ECEF position.
func FromGeocentric(g model.GeocentricPosition) Position {
	return Position{Frame: FrameGeocentric, A: g.X, B: g.Y, C: g.Z}
}

// FromTangentPlane tags t as a tangent-plane offset.
func FromTangentPlane(t model.TangentPlanePosition) Position {
	return Position{Frame: FrameTangentPlane, A: t.East, B: t.North, C: t.Height}
}

// Geodetic reinterprets the components; it does not convert.
func (p Position) Geodetic() model.GeodeticPosition {
	return model.GeodeticPosition{Latitude: p.A, Longitude: p.B, Height: p.C}
}

// Geocentric reinterprets the components; it does not convert.
func (p Position) Geocentric() model.GeocentricPosition {
	return model.GeocentricPosition{X: p.A, Y: p.B, Z: p.C}
}

// TangentPlane reinterprets the components; it does not convert.
func (p Position) TangentPlane() model.TangentPlanePosition {
	return model.TangentPlanePosition{East: p.A, North: p.B, Height: p.C}
}

// Convert expresses p in frame to. The ellipsoid is used for every
// geodetic leg and origin anchors the tangent plane; origin is ignored
// when neither side is a tangent-plane position.
func Convert(p Position, to PositionFrame, e Ellipsoid, origin model.GeodeticPosition) (Position, error) {
	if p.Frame == to {
		return p, nil
	}

	var (
		tp    TangentPlane
		needT = p.Frame == FrameTangentPlane || to == FrameTangentPlane
		err   error
	)
	if needT {
		if tp, err = NewTangentPlane(origin, e); err != nil {
			return Position{}, fmt.Errorf("tangent plane origin: %w", err)
		}
	}

	var g model.GeocentricPosition
	switch p.Frame {
	case FrameGeodetic:
		g, err = GeodeticToGeocentric(p.Geodetic(), e)
	case FrameGeocentric:
		g = p.Geocentric()
	case FrameTangentPlane:
		g, err = tp.ToGeocentric(p.TangentPlane())
	default:
		return Position{}, fmt.Errorf("convert from %s: unknown frame", p.Frame)
	}
	if err != nil {
		return Position{}, err
	}

	switch to {
	case FrameGeodetic:
		d, err := GeocentricToGeodetic(g, e)
		if err != nil {
			return Position{}, err
		}
		return FromGeodetic(d), nil
	case FrameGeocentric:
		return FromGeocentric(g), nil
	case FrameTangentPlane:
		t, err := tp.FromGeocentric(g)
		if err != nil {
			return Position{}, err
		}
		return FromTangentPlane(t), nil
	default:
		return Position{}, fmt.Errorf("convert to %s: unknown frame", to)
	}
}

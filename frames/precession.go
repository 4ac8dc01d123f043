package frames

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/signalsfoundry/skyframe/epoch"
	"github.com/signalsfoundry/skyframe/model"
)

// Elementary frame rotations: they rotate the axes by a, so a fixed vector
// appears rotated by -a.
func rotX(a float64) *r3.Mat {
	s, c := math.Sincos(a)
	return r3.NewMat([]float64{
		1, 0, 0,
		0, c, s,
		0, -s, c,
	})
}

func rotY(a float64) *r3.Mat {
	s, c := math.Sincos(a)
	return r3.NewMat([]float64{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	})
}

func rotZ(a float64) *r3.Mat {
	s, c := math.Sincos(a)
	return r3.NewMat([]float64{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	})
}

func product(ms ...*r3.Mat) *r3.Mat {
	out := ms[0]
	for _, m := range ms[1:] {
		next := r3.NewMat(nil)
		next.Mul(out, m)
		out = next
	}
	return out
}

// PrecessionMatrix returns the rotation from J2000.0 mean coordinates to
// mean coordinates of the equinox jdTT.
func (t *Transformer) PrecessionMatrix(jdTT float64) *r3.Mat {
	zeta, z, theta := t.provider.PrecessionAngles(jdTT)
	return product(rotZ(-z), rotY(theta), rotZ(-zeta))
}

// NutationMatrix returns the rotation from mean to true coordinates of
// the equinox jdTT.
func (t *Transformer) NutationMatrix(jdTT float64) *r3.Mat {
	dpsi, deps, eps0 := t.provider.Nutation(jdTT)
	return product(rotX(-(eps0 + deps)), rotZ(-dpsi), rotX(eps0))
}

// FrameMatrix returns the rotation from J2000.0 mean coordinates to f.
func (t *Transformer) FrameMatrix(f model.Frame) *r3.Mat {
	jd := f.EquinoxEpoch().JD()
	m := t.PrecessionMatrix(jd)
	if f.Apparent() {
		m = product(t.NutationMatrix(jd), m)
	}
	return m
}

// Precess moves c from frame from to frame to and tags the result with
// to. c.Frame is not consulted. Swapping from and to inverts the
// rotation exactly.
func (t *Transformer) Precess(c model.EquatorialCoord, from, to model.Frame) (model.EquatorialCoord, error) {
	if err := c.Validate(); err != nil {
		return model.EquatorialCoord{}, err
	}
	if sameFrame(from, to) {
		return c.In(to), nil
	}
	x, y, z := c.Cartesian()
	v := r3.Vec{X: x, Y: y, Z: z}
	v = t.FrameMatrix(from).MulVecTrans(v)
	v = t.FrameMatrix(to).MulVec(v)
	return model.EquatorialFromCartesian(v.X, v.Y, v.Z, to), nil
}

// Reframe moves c from its own frame to f.
func (t *Transformer) Reframe(c model.EquatorialCoord, f model.Frame) (model.EquatorialCoord, error) {
	return t.Precess(c, c.Frame, f)
}

// ToDate moves a catalogue position to the equinox of at: the apparent
// frame when nutation is enabled, the mean frame otherwise.
func (t *Transformer) ToDate(c model.EquatorialCoord, at epoch.Epoch) (model.EquatorialCoord, error) {
	return t.Precess(c, c.Frame, model.OfDate(at, t.nutation))
}

// FromDate moves a position referred to the equinox of at back to the
// catalogue frame target, which must be FrameJ2000 or FrameB1950.
func (t *Transformer) FromDate(c model.EquatorialCoord, at epoch.Epoch, target model.FrameKind) (model.EquatorialCoord, error) {
	if target != model.FrameJ2000 && target != model.FrameB1950 {
		return model.EquatorialCoord{}, fmt.Errorf("from date: %s is not a catalogue frame", target)
	}
	return t.Precess(c, model.OfDate(at, t.nutation), model.Frame{Kind: target})
}

func sameFrame(a, b model.Frame) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case model.FrameMeanOfDate, model.FrameApparentOfDate:
		return a.Equinox.TT().JD() == b.Equinox.TT().JD()
	default:
		return true
	}
}

package model

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/skyframe/constants"
)

// Pair is an ordered pair of antenna indices.
type Pair struct {
	I, J int
}

// Reverse returns (J, I).
func (p Pair) Reverse() Pair { return Pair{I: p.J, J: p.I} }

// Auto reports whether the pair correlates an antenna with itself.
func (p Pair) Auto() bool { return p.I == p.J }

func (p Pair) String() string { return fmt.Sprintf("(%d,%d)", p.I, p.J) }

// UVW is a baseline in the frame of a phase centre, in metres. W points
// at the phase centre, U east and V towards the celestial pole.
type UVW struct {
	U, V, W float64
}

// Neg returns -u.
func (u UVW) Neg() UVW { return UVW{U: -u.U, V: -u.V, W: -u.W} }

// Add returns u + o.
func (u UVW) Add(o UVW) UVW { return UVW{U: u.U + o.U, V: u.V + o.V, W: u.W + o.W} }

// Sub returns u - o.
func (u UVW) Sub(o UVW) UVW { return UVW{U: u.U - o.U, V: u.V - o.V, W: u.W - o.W} }

// Scale returns u multiplied by f.
func (u UVW) Scale(f float64) UVW { return UVW{U: u.U * f, V: u.V * f, W: u.W * f} }

// Norm returns the baseline length.
func (u UVW) Norm() float64 { return math.Sqrt(u.U*u.U + u.V*u.V + u.W*u.W) }

// Wavelengths returns u in units of wavelength at freqHz.
func (u UVW) Wavelengths(freqHz float64) UVW {
	return u.Scale(freqHz / constants.SpeedOfLight)
}

func (u UVW) String() string { return fmt.Sprintf("(%.4f, %.4f, %.4f) m", u.U, u.V, u.W) }

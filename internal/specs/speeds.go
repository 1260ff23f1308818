package specs

import (
	"math"

	"springnorm/internal/logging"
)

// SpringGeometry is the physical input to the speed heuristic. Zero values
// mean "unknown" and keep the corresponding factor neutral.
type SpringGeometry struct {
	WireDiaMM    float64
	OuterDiaMM   float64
	FreeLengthMM float64
	CoilCount    float64
	SafetyLimitN float64
}

// Speeds are advisory machine settings derived from spring geometry.
type Speeds struct {
	ThresholdSpeed int // rpm, for TH operations
	MovementSpeed  int // rpm, for Mv(P) operations
	ContactForce   int // N, for threshold contact detection
}

// Base speeds before geometry adjustment.
const (
	baseThresholdSpeed = 30
	baseMovementSpeed  = 60
)

// OptimalSpeeds estimates testing speeds from spring characteristics.
// Stiffer and larger springs tolerate faster speeds; thin-wire (brittle) and
// high-force springs need gentler handling. Every factor defaults to 1.0
// when its inputs are unknown, so an empty geometry yields the base speeds
// and the function never divides by zero.
func OptimalSpeeds(g SpringGeometry) Speeds {
	stiffness := 1.0
	if g.WireDiaMM > 0 && g.CoilCount > 0 {
		outer := g.OuterDiaMM
		if outer == 0 {
			outer = 10
		}
		stiffness = (g.WireDiaMM * g.WireDiaMM) / (g.CoilCount * outer)
	}

	size := 1.0
	if g.OuterDiaMM > 0 && g.FreeLengthMM > 0 {
		size = g.OuterDiaMM * g.FreeLengthMM / 1000
	}

	brittleness := 1.0
	if g.WireDiaMM > 0 {
		brittleness = 2.0 / (g.WireDiaMM + 0.5)
	}

	force := 1.0
	if g.SafetyLimitN > 0 {
		force = g.SafetyLimitN / 100
	}

	// Threshold speed is dominated by brittleness and force; movement speed
	// by size and stiffness.
	thresholdMult := (size*0.7 + stiffness*0.5) / (brittleness*0.8 + force*0.5)
	movementMult := (size*0.6 + stiffness*0.7) / (brittleness*0.5 + force*0.4)

	s := Speeds{
		ThresholdSpeed: clamp(int(math.Round(baseThresholdSpeed*thresholdMult)), 5, 50),
		MovementSpeed:  clamp(int(math.Round(baseMovementSpeed*movementMult)), 10, 100),
		ContactForce:   clamp(int(math.Round(10*force)), 5, 20),
	}
	logging.HeuristicDebug(
		"geometry wire=%.2f outer=%.2f free=%.2f coils=%.1f limit=%.1f -> threshold=%d movement=%d contact=%d",
		g.WireDiaMM, g.OuterDiaMM, g.FreeLengthMM, g.CoilCount, g.SafetyLimitN,
		s.ThresholdSpeed, s.MovementSpeed, s.ContactForce)
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package generate

import (
	"fmt"
	"strings"

	"springnorm/internal/specs"
)

// SetPoint is one position/load target on the spring under test.
type SetPoint struct {
	PositionMM       float64 `yaml:"position_mm" json:"position_mm"`
	LoadN            float64 `yaml:"load_n" json:"load_n"`
	TolerancePercent float64 `yaml:"tolerance_percent" json:"tolerance_percent"`
	Enabled          bool    `yaml:"enabled" json:"enabled"`
}

// SpringSpecification is the typed form of the spring under test. It feeds
// both the prompt sent to the provider and the speed heuristic.
type SpringSpecification struct {
	PartName      string     `yaml:"part_name" json:"part_name"`
	PartNumber    string     `yaml:"part_number" json:"part_number"`
	PartID        string     `yaml:"part_id" json:"part_id"`
	FreeLengthMM  float64    `yaml:"free_length_mm" json:"free_length_mm"`
	CoilCount     float64    `yaml:"coil_count" json:"coil_count"`
	WireDiaMM     float64    `yaml:"wire_dia_mm" json:"wire_dia_mm"`
	OuterDiaMM    float64    `yaml:"outer_dia_mm" json:"outer_dia_mm"`
	SafetyLimitN  float64    `yaml:"safety_limit_n" json:"safety_limit_n"`
	Unit          string     `yaml:"unit" json:"unit"`
	ForceUnit     string     `yaml:"force_unit" json:"force_unit"`
	TestMode      string     `yaml:"test_mode" json:"test_mode"`
	ComponentType string     `yaml:"component_type" json:"component_type"`
	SetPoints     []SetPoint `yaml:"set_points" json:"set_points"`
}

// PromptText renders the specification as the labeled text block embedded in
// prompts. The labels match what the resolver's free-text scanner expects.
func (s *SpringSpecification) PromptText() string {
	var b strings.Builder
	b.WriteString("Spring Specifications:\n")
	fmt.Fprintf(&b, "Part Name: %s\n", s.PartName)
	fmt.Fprintf(&b, "Part Number: %s\n", s.PartNumber)
	fmt.Fprintf(&b, "ID: %s\n", s.PartID)
	fmt.Fprintf(&b, "Free Length: %g %s\n", s.FreeLengthMM, s.Unit)
	fmt.Fprintf(&b, "No of Coils: %g\n", s.CoilCount)
	fmt.Fprintf(&b, "Wire Dia: %g %s\n", s.WireDiaMM, s.Unit)
	fmt.Fprintf(&b, "OD: %g %s\n", s.OuterDiaMM, s.Unit)
	for i, sp := range s.SetPoints {
		if !sp.Enabled {
			continue
		}
		fmt.Fprintf(&b, "Set Point-%d Position: %g %s\n", i+1, sp.PositionMM, s.Unit)
		fmt.Fprintf(&b, "Set Point-%d Load: %g±%g%% %s\n", i+1, sp.LoadN, sp.TolerancePercent, s.ForceUnit)
	}
	fmt.Fprintf(&b, "Safety Limit: %g %s\n", s.SafetyLimitN, s.ForceUnit)
	fmt.Fprintf(&b, "Displacement Unit: %s\n", s.Unit)
	fmt.Fprintf(&b, "Force Unit: %s\n", s.ForceUnit)
	fmt.Fprintf(&b, "Test Mode: %s\n", s.TestMode)
	fmt.Fprintf(&b, "Component Type: %s\n", s.ComponentType)
	return b.String()
}

// Geometry extracts the physical inputs for the speed heuristic.
func (s *SpringSpecification) Geometry() specs.SpringGeometry {
	return specs.SpringGeometry{
		WireDiaMM:    s.WireDiaMM,
		OuterDiaMM:   s.OuterDiaMM,
		FreeLengthMM: s.FreeLengthMM,
		CoilCount:    s.CoilCount,
		SafetyLimitN: s.SafetyLimitN,
	}
}

// Bag renders the specification in the parameter-bag shape downstream
// consumers resolve fields from.
func (s *SpringSpecification) Bag() specs.Bag {
	points := make([]interface{}, 0, len(s.SetPoints))
	for _, sp := range s.SetPoints {
		if !sp.Enabled {
			continue
		}
		points = append(points, map[string]interface{}{
			"position_mm":       sp.PositionMM,
			"load_n":            sp.LoadN,
			"tolerance_percent": sp.TolerancePercent,
			"enabled":           sp.Enabled,
		})
	}
	return specs.Bag{
		"spring_specification": map[string]interface{}{
			"part_name":      s.PartName,
			"part_number":    s.PartNumber,
			"part_id":        s.PartID,
			"free_length_mm": s.FreeLengthMM,
			"coil_count":     s.CoilCount,
			"wire_dia_mm":    s.WireDiaMM,
			"outer_dia_mm":   s.OuterDiaMM,
			"safety_limit_n": s.SafetyLimitN,
			"unit":           s.Unit,
			"test_mode":      s.TestMode,
			"set_points":     points,
		},
	}
}

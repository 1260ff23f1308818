package specs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePromptText(t *testing.T) {
	spec, trace := Resolve(Bag{
		"prompt": "Part Name: Demo Spring\nFree Length: 58.0 mm\n",
	})
	assert.Equal(t, "Demo Spring", spec.PartName)
	assert.Equal(t, "58.0", spec.FreeLength)
	assert.Equal(t, "prompt label Part Name:", trace[FieldPartName])
	assert.Equal(t, "prompt label Free Length:", trace[FieldFreeLength])
}

func TestResolvePromptFinalLabeledLine(t *testing.T) {
	// The last labeled line of a prompt must resolve even when nothing
	// follows its newline.
	spec, trace := Resolve(Bag{"prompt": "Safety Limit: 300.0 N\n"})
	assert.Equal(t, "300.0", spec.SafetyLimit)
	assert.Equal(t, "prompt label Safety Limit:", trace[FieldSafetyLimit])
}

func TestResolvePromptTextAllFields(t *testing.T) {
	spec, _ := Resolve(Bag{
		"prompt": "Spring Specifications:\n" +
			"Part Name: Demo Spring\n" +
			"Part Number: DS-1\n" +
			"Free Length: 58.0 mm\n" +
			"Test Mode: Height Mode\n" +
			"Safety Limit: 300.0 N\n",
		// A prompt that resolves everything wins over bag values.
		"part_name": "Shadowed",
	})
	assert.Equal(t, ResolvedSpec{
		PartName:    "Demo Spring",
		PartNumber:  "DS-1",
		FreeLength:  "58.0",
		TestMode:    "Height",
		SafetyLimit: "300.0",
	}, spec)
}

func TestResolvePromptZeroSafetyLimitRejected(t *testing.T) {
	spec, trace := Resolve(Bag{
		"prompt":       "Safety Limit: 0.0 N\n",
		"safety_limit": 300,
	})
	assert.Equal(t, "300", spec.SafetyLimit)
	assert.Equal(t, "top-level key safety_limit", trace[FieldSafetyLimit])
}

func TestResolveNestedBasicInfo(t *testing.T) {
	spec, _ := Resolve(Bag{
		"spring_specification": map[string]interface{}{
			"basic_info": map[string]interface{}{
				"part_name":      "Nested",
				"free_length_mm": "60.0",
			},
		},
	})
	assert.Equal(t, "Nested", spec.PartName)
	assert.Equal(t, "60.0", spec.FreeLength)
}

func TestResolveHistoricalShapes(t *testing.T) {
	tests := []struct {
		name string
		bag  Bag
		want ResolvedSpec
	}{
		{
			name: "top-level camelCase",
			bag:  Bag{"partName": "X-100", "safetyLimitN": 250},
			want: ResolvedSpec{PartName: "X-100", SafetyLimit: "250"},
		},
		{
			name: "Specifications container with short keys",
			bag: Bag{"Specifications": map[string]interface{}{
				"Name":   "Alpha",
				"Number": "A-1",
			}},
			want: ResolvedSpec{PartName: "Alpha", PartNumber: "A-1"},
		},
		{
			name: "spring container consulted after the others",
			bag: Bag{
				"part_name": "None", // sentinel, must not win
				"spring": map[string]interface{}{
					"name": "Real",
				},
			},
			want: ResolvedSpec{PartName: "Real"},
		},
		{
			name: "test mode reduced to first word",
			bag:  Bag{"test_mode": "Height Mode with extras"},
			want: ResolvedSpec{TestMode: "Height"},
		},
		{
			name: "numeric values render as strings",
			bag:  Bag{"free_length_mm": 58.5, "safety_limit_n": float64(300)},
			want: ResolvedSpec{FreeLength: "58.5", SafetyLimit: "300"},
		},
		{
			name: "substring fallback over flattened keys",
			bag: Bag{"legacy": map[string]interface{}{
				"the_part_name_field": "Sub",
			}},
			want: ResolvedSpec{PartName: "Sub"},
		},
		{
			name: "null sentinels leave fields empty",
			bag:  Bag{"part_name": "null", "part_number": "None", "free_length": ""},
			want: ResolvedSpec{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, _ := Resolve(tt.bag)
			assert.Equal(t, tt.want, spec)
		})
	}
}

func TestResolveTypedStruct(t *testing.T) {
	type springSpec struct {
		PartName     string
		PartNumber   string
		FreeLengthMM float64
		TestMode     string
		SafetyLimitN float64
		unexported   string
	}
	spec, trace := Resolve(&springSpec{
		PartName:     "Typed",
		FreeLengthMM: 58,
		TestMode:     "Deflection test",
		unexported:   "ignored",
	})
	assert.Equal(t, "Typed", spec.PartName)
	assert.Equal(t, "58", spec.FreeLength)
	assert.Equal(t, "Deflection", spec.TestMode)
	assert.Equal(t, "", spec.PartNumber)
	assert.Equal(t, "struct field PartName", trace[FieldPartName])
}

func TestResolveNeverPanics(t *testing.T) {
	deep := Bag{}
	current := deep
	for i := 0; i < 100; i++ {
		next := Bag{}
		current["level"] = next
		current = next
	}
	current["part_name"] = "too deep"

	inputs := []interface{}{
		nil,
		Bag{},
		Bag{"prompt": 42, "spring": "not a map"},
		deep,
		"just a string",
		[]string{"a", "b"},
		(*struct{ PartName string })(nil),
	}
	for _, in := range inputs {
		spec, trace := Resolve(in)
		assert.NotNil(t, trace)
		_ = spec
	}
}

func TestFlatten(t *testing.T) {
	flat := Bag{
		"a": map[string]interface{}{
			"b": map[string]interface{}{"c": 1},
			"d": "x",
		},
		"e": []interface{}{"kept", "as", "leaf"},
	}.Flatten()
	assert.Equal(t, 1, flat["a_b_c"])
	assert.Equal(t, "x", flat["a_d"])
	assert.Contains(t, flat, "e")
	assert.NotContains(t, flat, "a")
}

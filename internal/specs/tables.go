package specs

import "strings"

// Field names the five display fields the resolver produces.
type Field string

const (
	FieldPartName    Field = "part_name"
	FieldPartNumber  Field = "part_number"
	FieldFreeLength  Field = "free_length"
	FieldTestMode    Field = "test_mode"
	FieldSafetyLimit Field = "safety_limit"
)

// Fields in resolution order.
var Fields = []Field{FieldPartName, FieldPartNumber, FieldFreeLength, FieldTestMode, FieldSafetyLimit}

// The tables below are data, not code: every historical key spelling the
// upstream producer has emitted gets a row here. Adding a new spelling is a
// table edit.

// promptLabels are the free-text labels scanned line-wise in prompt blocks,
// tried in order per field.
var promptLabels = map[Field][]string{
	FieldPartName:    {"Part Name:", "PartName:", "Name:"},
	FieldPartNumber:  {"Part Number:", "PartNumber:", "Number:"},
	FieldFreeLength:  {"Free Length:", "FreeLength:", "Length:"},
	FieldTestMode:    {"Test Mode:", "TestMode:", "Mode:"},
	FieldSafetyLimit: {"Safety Limit:", "SafetyLimit:", "Limit:"},
}

// unitSuffixes are trimmed from prompt-text values ("58.0 mm" -> "58.0").
var unitSuffixes = map[Field]string{
	FieldFreeLength:  " mm",
	FieldSafetyLimit: " N",
}

// containerKeys are the known spellings of the specification container, in
// priority order. "spring" is consulted last.
var containerKeys = []string{
	"Specifications",
	"specifications",
	"spring_specification",
	"Spring_Specification",
	"springSpecification",
	"spring",
}

// basicInfoKeys are the known spellings of the basic-info sub-container,
// looked up both at top level and inside the specification container.
var basicInfoKeys = []string{"basic_info", "Basic_Info", "basicInfo", "info"}

// topLevelKeys are direct key spellings tried at the top of the bag.
var topLevelKeys = map[Field][]string{
	FieldPartName: {
		"part_name", "partName", "part name", "name", "spring_name", "springName", "spring name",
		"PART_NAME", "PartName", "Part Name", "Name", "SPRING_NAME", "SpringName",
	},
	FieldPartNumber: {
		"part_number", "partNumber", "part number", "number", "spring_number", "springNumber",
		"spring number", "PART_NUMBER", "PartNumber", "Part Number", "Number", "SPRING_NUMBER",
		"SpringNumber", "model", "model_number", "modelNumber", "Model Number",
	},
	FieldFreeLength: {
		"free_length", "freeLength", "free length", "length", "free_length_mm", "freeLengthMm",
		"FREE_LENGTH", "FreeLength", "Free Length", "Length", "FREE_LENGTH_MM", "FreeLengthMm",
		"initial_length", "initialLength", "initial length", "spring_length", "springLength",
	},
	FieldTestMode: {
		"test_mode", "testMode", "Test_Mode", "TestMode", "Mode", "mode",
	},
	FieldSafetyLimit: {
		"safety_limit", "safety_limit_n", "safetyLimit", "safetyLimitN",
		"Safety_Limit", "Safety_Limit_N", "SafetyLimit", "SafetyLimitN", "Limit", "limit",
	},
}

// containerFieldKeys are the shorter spelling lists tried inside a
// discovered container (specification or basic-info).
var containerFieldKeys = map[Field][]string{
	FieldPartName:    {"part_name", "partName", "Part_Name", "PartName", "Name", "name"},
	FieldPartNumber:  {"part_number", "partNumber", "Part_Number", "PartNumber", "Number", "number"},
	FieldFreeLength:  {"free_length", "free_length_mm", "freeLength", "freeLengthMm", "Free_Length", "Free_Length_MM", "Length", "length"},
	FieldTestMode:    {"test_mode", "testMode", "Test_Mode", "TestMode", "Mode", "mode"},
	FieldSafetyLimit: {"safety_limit", "safety_limit_n", "safetyLimit", "safetyLimitN", "Safety_Limit", "Safety_Limit_N", "Limit", "limit"},
}

// fieldPaths are explicit nested paths, walked in order after direct lookups
// fail. Each row is one historically observed location.
var fieldPaths = map[Field][][]string{
	FieldPartName: {
		{"part_name"}, {"Part_Name"}, {"PartName"}, {"partName"}, {"Name"}, {"name"},
		{"spring_specification", "part_name"},
		{"spring_specification", "Part_Name"},
		{"spring_specification", "PartName"},
		{"SpringSpecification", "partName"},
		{"springSpecification", "name"},
		{"basic_info", "part_name"},
		{"basic_info", "Part_Name"},
		{"Basic_Info", "name"},
		{"basicInfo", "partName"},
		{"spring_specification", "basic_info", "part_name"},
		{"spring_specification", "basic_info", "Part_Name"},
		{"SpringSpecification", "BasicInfo", "partName"},
		{"springSpecification", "basicInfo", "name"},
	},
	FieldPartNumber: {
		{"part_number"}, {"Part_Number"}, {"PartNumber"}, {"partNumber"}, {"Number"}, {"number"},
		{"model_number"}, {"Model_Number"}, {"ModelNumber"}, {"modelNumber"},
		{"spring_specification", "part_number"},
		{"spring_specification", "Part_Number"},
		{"spring_specification", "PartNumber"},
		{"SpringSpecification", "partNumber"},
		{"springSpecification", "number"},
		{"basic_info", "part_number"},
		{"basic_info", "Part_Number"},
		{"Basic_Info", "number"},
		{"basicInfo", "partNumber"},
		{"spring_specification", "basic_info", "part_number"},
		{"spring_specification", "basic_info", "Part_Number"},
		{"SpringSpecification", "BasicInfo", "partNumber"},
		{"springSpecification", "basicInfo", "number"},
	},
	FieldFreeLength: {
		{"free_length"}, {"free_length_mm"}, {"Free_Length"}, {"Free_Length_MM"},
		{"FreeLength"}, {"FreeLength_MM"}, {"freeLength"}, {"freeLengthMm"},
		{"Length"}, {"length"},
		{"spring_specification", "free_length"},
		{"spring_specification", "free_length_mm"},
		{"spring_specification", "Free_Length"},
		{"SpringSpecification", "freeLength"},
		{"springSpecification", "freeLengthMm"},
		{"basic_info", "free_length"},
		{"basic_info", "free_length_mm"},
		{"Basic_Info", "Free_Length"},
		{"basicInfo", "freeLengthMm"},
		{"spring_specification", "basic_info", "free_length"},
		{"spring_specification", "basic_info", "free_length_mm"},
		{"SpringSpecification", "BasicInfo", "freeLength"},
		{"springSpecification", "basicInfo", "freeLengthMm"},
	},
	FieldTestMode: {
		{"test_mode"}, {"Test_Mode"}, {"TestMode"}, {"testMode"}, {"Mode"}, {"mode"},
		{"spring_specification", "test_mode"},
		{"spring_specification", "Test_Mode"},
		{"SpringSpecification", "testMode"},
		{"springSpecification", "mode"},
		{"basic_info", "test_mode"},
		{"Basic_Info", "Test_Mode"},
		{"basicInfo", "testMode"},
		{"spring_specification", "basic_info", "test_mode"},
		{"SpringSpecification", "BasicInfo", "testMode"},
	},
	FieldSafetyLimit: {
		{"safety_limit"}, {"safety_limit_n"}, {"Safety_Limit"}, {"Safety_Limit_N"},
		{"SafetyLimit"}, {"SafetyLimitN"}, {"safetyLimit"}, {"safetyLimitN"},
		{"Limit"}, {"limit"},
		{"spring_specification", "safety_limit"},
		{"spring_specification", "safety_limit_n"},
		{"SpringSpecification", "safetyLimit"},
		{"springSpecification", "safetyLimitN"},
		{"basic_info", "safety_limit"},
		{"basic_info", "safety_limit_n"},
		{"Basic_Info", "Safety_Limit"},
		{"basicInfo", "safetyLimitN"},
		{"spring_specification", "basic_info", "safety_limit"},
		{"spring_specification", "basic_info", "safety_limit_n"},
		{"SpringSpecification", "BasicInfo", "safetyLimit"},
		{"springSpecification", "basicInfo", "safetyLimitN"},
	},
}

// substringMatch reports whether a flattened, lowercased key plausibly holds
// the field. Used as the last lookup stage.
func substringMatch(field Field, key string) bool {
	switch field {
	case FieldPartName:
		return strings.Contains(key, "part") && strings.Contains(key, "name")
	case FieldPartNumber:
		return (strings.Contains(key, "part") && strings.Contains(key, "number")) ||
			strings.Contains(key, "model")
	case FieldFreeLength:
		return strings.Contains(key, "free") &&
			(strings.Contains(key, "length") || strings.Contains(key, "long"))
	case FieldTestMode:
		return strings.Contains(key, "test") && strings.Contains(key, "mode")
	case FieldSafetyLimit:
		return strings.Contains(key, "safety") && strings.Contains(key, "limit")
	default:
		return false
	}
}

package specs

import (
	"reflect"
	"strings"

	"springnorm/internal/logging"
)

// ResolvedSpec carries the five display fields every export and UI surface
// needs. Unresolved fields are empty strings, which is a valid steady state.
type ResolvedSpec struct {
	PartName    string
	PartNumber  string
	FreeLength  string
	TestMode    string
	SafetyLimit string
}

// Trace records which lookup stage produced each resolved field, for debug
// logging and fixture assertions.
type Trace map[Field]string

// Field returns the named field's resolved value.
func (r *ResolvedSpec) Field(f Field) string {
	switch f {
	case FieldPartName:
		return r.PartName
	case FieldPartNumber:
		return r.PartNumber
	case FieldFreeLength:
		return r.FreeLength
	case FieldTestMode:
		return r.TestMode
	case FieldSafetyLimit:
		return r.SafetyLimit
	}
	return ""
}

func (r *ResolvedSpec) set(f Field, value string) {
	// Test mode is displayed as a single word (Height, Deflection, Tension)
	// even when the source value carries a longer phrase.
	if f == FieldTestMode {
		if words := strings.Fields(value); len(words) > 0 {
			value = words[0]
		} else {
			value = ""
		}
	}
	switch f {
	case FieldPartName:
		r.PartName = value
	case FieldPartNumber:
		r.PartNumber = value
	case FieldFreeLength:
		r.FreeLength = value
	case FieldTestMode:
		r.TestMode = value
	case FieldSafetyLimit:
		r.SafetyLimit = value
	}
}

func (r *ResolvedSpec) complete() bool {
	for _, f := range Fields {
		if r.Field(f) == "" {
			return false
		}
	}
	return true
}

// Resolve extracts the display fields from a parameter bag of any historical
// shape. Never fails: whatever cannot be found stays empty. A typed struct
// (anything that is not a map) is read by reflection over its field names.
func Resolve(params interface{}) (ResolvedSpec, Trace) {
	trace := make(Trace)
	var spec ResolvedSpec

	if params == nil {
		return spec, trace
	}
	if m, ok := asMap(params); ok {
		resolveBag(Bag(m), &spec, trace)
	} else {
		resolveStruct(params, &spec, trace)
	}

	for f, src := range trace {
		logging.ResolverDebug("%s = %q via %s", f, spec.Field(f), src)
	}
	return spec, trace
}

func resolveBag(bag Bag, spec *ResolvedSpec, trace Trace) {
	// Stage 1: a free-text prompt block wins outright when it covers
	// everything. The prompt is read raw, not through lookup: label values
	// run to the next newline, and trimming would delete the terminator of
	// the final labeled line.
	if prompt, ok := bag["prompt"].(string); ok && strings.TrimSpace(prompt) != "" {
		scanPrompt(prompt, spec, trace)
		if spec.complete() {
			logging.Resolver("all fields resolved from prompt text")
			return
		}
	}

	// Stage 2: direct top-level lookups across historical key spellings.
	for _, f := range Fields {
		if spec.Field(f) != "" {
			continue
		}
		for _, key := range topLevelKeys[f] {
			if v := lookup(bag, key); v != "" {
				spec.set(f, v)
				trace[f] = "top-level key " + key
				break
			}
		}
	}

	// Stage 3: explicit nested paths.
	for _, f := range Fields {
		if spec.Field(f) != "" {
			continue
		}
		for _, path := range fieldPaths[f] {
			if v := lookupPath(bag, path); v != "" {
				spec.set(f, v)
				trace[f] = "path " + strings.Join(path, ".")
				break
			}
		}
	}

	// Stage 4: discovered containers (specification object, then basic-info,
	// including basic-info nested inside the specification object).
	container, containerName := firstContainer(bag, containerKeys)
	var infoSources []map[string]interface{}
	var infoNames []string
	if info, name := firstContainer(bag, basicInfoKeys); info != nil {
		infoSources = append(infoSources, info)
		infoNames = append(infoNames, name)
	}
	if container != nil {
		if info, name := firstContainer(container, basicInfoKeys); info != nil {
			infoSources = append(infoSources, info)
			infoNames = append(infoNames, containerName+"."+name)
		}
	}
	for _, f := range Fields {
		if spec.Field(f) != "" {
			continue
		}
		if container != nil {
			if v := firstKey(container, containerFieldKeys[f]); v != "" {
				spec.set(f, v)
				trace[f] = "container " + containerName
				continue
			}
		}
		for i, info := range infoSources {
			if v := firstKey(info, containerFieldKeys[f]); v != "" {
				spec.set(f, v)
				trace[f] = "container " + infoNames[i]
				break
			}
		}
	}

	// Stage 5: last resort, case-insensitive substring search over the
	// flattened bag.
	var flat map[string]interface{}
	for _, f := range Fields {
		if spec.Field(f) != "" {
			continue
		}
		if flat == nil {
			flat = bag.Flatten()
		}
		for key, raw := range flat {
			if !substringMatch(f, strings.ToLower(key)) {
				continue
			}
			if v, ok := accept(raw); ok {
				spec.set(f, v)
				trace[f] = "flattened key " + key
				break
			}
		}
	}
}

func firstKey(m map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if v := lookup(m, key); v != "" {
			return v
		}
	}
	return ""
}

// scanPrompt extracts labeled values from a free-text specification block:
//
//	Part Name: Demo Spring
//	Free Length: 58.0 mm
//
// Each field tries its labels in order, takes text up to the next newline,
// and trims a known unit suffix.
func scanPrompt(prompt string, spec *ResolvedSpec, trace Trace) {
	for _, f := range Fields {
		if spec.Field(f) != "" {
			continue
		}
		for _, label := range promptLabels[f] {
			start := strings.Index(prompt, label)
			if start < 0 {
				continue
			}
			start += len(label)
			end := strings.Index(prompt[start:], "\n")
			if end < 0 {
				continue
			}
			value := strings.TrimSpace(prompt[start : start+end])
			if suffix := unitSuffixes[f]; suffix != "" {
				if i := strings.Index(value, suffix); i >= 0 {
					value = strings.TrimSpace(value[:i])
				}
			}
			if value == "" {
				continue
			}
			// A zero safety limit is a placeholder, not a real limit.
			if f == FieldSafetyLimit && value == "0.0" {
				continue
			}
			spec.set(f, value)
			trace[f] = "prompt label " + label
			break
		}
	}
}

// structFieldNames maps normalized struct field names (lowercased,
// underscores removed) onto resolver fields.
var structFieldNames = map[string]Field{
	"partname":     FieldPartName,
	"springname":   FieldPartName,
	"partnumber":   FieldPartNumber,
	"modelnumber":  FieldPartNumber,
	"freelength":   FieldFreeLength,
	"freelengthmm": FieldFreeLength,
	"testmode":     FieldTestMode,
	"safetylimit":  FieldSafetyLimit,
	"safetylimitn": FieldSafetyLimit,
}

// resolveStruct reads fields off a typed specification value. Pointer
// indirection is followed; anything that is not ultimately a struct is
// ignored.
func resolveStruct(params interface{}, spec *ResolvedSpec, trace Trace) {
	v := reflect.ValueOf(params)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		logging.ResolverDebug("unresolvable params type %T", params)
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := strings.ReplaceAll(strings.ToLower(sf.Name), "_", "")
		f, ok := structFieldNames[name]
		if !ok || spec.Field(f) != "" {
			continue
		}
		if s, ok := accept(v.Field(i).Interface()); ok {
			spec.set(f, s)
			trace[f] = "struct field " + sf.Name
		}
	}
}

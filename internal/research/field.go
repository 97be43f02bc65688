package research

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField reports a field name outside the reviewable set.
var ErrUnknownField = errors.New("unknown field")

// Field identifies one reviewable research detail.
type Field int

const (
	FieldResearchGoal Field = iota
	FieldTargetCondition
	FieldHasSensorDevice
	FieldDeviceType
	FieldCategory
	FieldSensorType
	FieldMethod
	FieldPlacement
	FieldMeasurementVariable
	FieldBenefits
	FieldPrimaryPurpose
	FieldPerformanceMetrics
	FieldDeviceLimitation
	FieldMeasurementUnit
	FieldMeasurementPrecision
)

// FieldCount is the number of reviewable fields.
const FieldCount = 15

type fieldSpec struct {
	key         string
	evidenceKey string
	label       string
	exportLabel string
}

var fieldSpecs = [FieldCount]fieldSpec{
	{"researchGoal", "researchGoal", "Research Goal", "Research Goal"},
	{"targetCondition", "targetCondition", "Target Condition", "Target condition"},
	{"hasSensorDevice", "sensorDevice", "Has Sensor/Device", "Sensor, device, imaging technique, or labratory testing mentioned?"},
	{"deviceType", "deviceType", "Device Type", "Device / sensor / technique/ test/ inspection type"},
	{"category", "category", "Category", "Category"},
	{"sensorType", "sensorType", "Sensor Type", "Sensor Type"},
	{"method", "method", "Method", "Method"},
	{"placement", "placement", "Placement", "Placement"},
	{"measurementVariable", "measurementVariable", "Measurement Variable", "Measurement Variable"},
	{"benefits", "benefits", "Benefits", "Benefits of use"},
	{"primaryPurpose", "primaryPurpose", "Primary Purpose", "Primary Purpose"},
	{"performanceMetrics", "performanceMetrics", "Performance Metrics", "Performance Metrics"},
	{"deviceLimitation", "deviceLimitation", "Device Limitation", "Device Limitation"},
	{"measurementUnit", "measurementUnit", "Measurement Unit", "Measurement Unit"},
	{"measurementPrecision", "measurementPrecision", "Measurement Precision", "Measurement Precision"},
}

// Fields returns every reviewable field in display order.
func Fields() []Field {
	out := make([]Field, FieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// Valid reports whether f is a member of the enumeration.
func (f Field) Valid() bool {
	return f >= 0 && int(f) < FieldCount
}

// Key is the camelCase name used in session files and records.
func (f Field) Key() string {
	if !f.Valid() {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldSpecs[f].key
}

// EvidenceKey is the supportingEvidence key holding this field's evidence.
func (f Field) EvidenceKey() string {
	if !f.Valid() {
		return ""
	}
	return fieldSpecs[f].evidenceKey
}

// Label is the short human label.
func (f Field) Label() string {
	if !f.Valid() {
		return f.Key()
	}
	return fieldSpecs[f].label
}

// ExportLabel is the column header used by the ratings CSV export.
func (f Field) ExportLabel() string {
	if !f.Valid() {
		return f.Key()
	}
	return fieldSpecs[f].exportLabel
}

func (f Field) String() string {
	return f.Key()
}

// MarshalText encodes the field as its key so it can be used as a JSON map key.
func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	return []byte(f.Key()), nil
}

// UnmarshalText decodes a field key.
func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseField resolves a field from its key, label, or a snake/kebab-case
// spelling such as "research_goal". Matching ignores case.
func ParseField(name string) (Field, error) {
	want := normalizeFieldName(name)
	if want != "" {
		for i, spec := range fieldSpecs {
			if normalizeFieldName(spec.key) == want || normalizeFieldName(spec.label) == want {
				return Field(i), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// FieldByKey resolves a field from its exact wire key.
func FieldByKey(key string) (Field, bool) {
	for i, spec := range fieldSpecs {
		if spec.key == key {
			return Field(i), true
		}
	}
	return 0, false
}

func normalizeFieldName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case '_', '-', ' ', '/':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

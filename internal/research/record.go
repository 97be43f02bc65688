package research

import "auxl/internal/textutil"

// EvidenceSet holds the extraction evidence behind one field value.
type EvidenceSet struct {
	Quotes    string `json:"quotes"`
	Tables    string `json:"tables"`
	Reasoning string `json:"reasoning"`
}

// SupportingEvidence groups one evidence set per reviewable field.
type SupportingEvidence struct {
	ResearchGoal         EvidenceSet `json:"researchGoal"`
	TargetCondition      EvidenceSet `json:"targetCondition"`
	SensorDevice         EvidenceSet `json:"sensorDevice"`
	DeviceType           EvidenceSet `json:"deviceType"`
	Category             EvidenceSet `json:"category"`
	SensorType           EvidenceSet `json:"sensorType"`
	Method               EvidenceSet `json:"method"`
	Placement            EvidenceSet `json:"placement"`
	MeasurementVariable  EvidenceSet `json:"measurementVariable"`
	Benefits             EvidenceSet `json:"benefits"`
	PrimaryPurpose       EvidenceSet `json:"primaryPurpose"`
	PerformanceMetrics   EvidenceSet `json:"performanceMetrics"`
	DeviceLimitation     EvidenceSet `json:"deviceLimitation"`
	MeasurementUnit      EvidenceSet `json:"measurementUnit"`
	MeasurementPrecision EvidenceSet `json:"measurementPrecision"`
}

// Record is one extracted research paper.
type Record struct {
	Title         string `json:"title"`
	Authors       string `json:"authors"`
	DOI           string `json:"doi"`
	DOILink       string `json:"doiLink"`
	Venue         string `json:"venue"`
	CitationCount string `json:"citationCount"`
	Year          string `json:"year"`
	Filename      string `json:"filename"`

	ResearchGoal         string `json:"researchGoal"`
	TargetCondition      string `json:"targetCondition"`
	HasSensorDevice      string `json:"hasSensorDevice"`
	DeviceType           string `json:"deviceType"`
	Category             string `json:"category"`
	SensorType           string `json:"sensorType"`
	Method               string `json:"method"`
	Placement            string `json:"placement"`
	MeasurementVariable  string `json:"measurementVariable"`
	Benefits             string `json:"benefits"`
	PrimaryPurpose       string `json:"primaryPurpose"`
	PerformanceMetrics   string `json:"performanceMetrics"`
	DeviceLimitation     string `json:"deviceLimitation"`
	MeasurementUnit      string `json:"measurementUnit"`
	MeasurementPrecision string `json:"measurementPrecision"`

	SupportingEvidence SupportingEvidence `json:"supportingEvidence"`
}

// Identity returns the stable key of the record: the filename when non-empty
// (whitespace included, unchanged), otherwise title and DOI joined by an
// underscore with every non-alphanumeric character replaced.
func (r Record) Identity() string {
	if r.Filename != "" {
		return r.Filename
	}
	return textutil.IdentityToken(r.Title + "_" + r.DOI)
}

// Value returns the extracted text for a reviewable field.
func (r Record) Value(f Field) string {
	if p := r.valueRef(f); p != nil {
		return *p
	}
	return ""
}

// Evidence returns the evidence set backing a reviewable field.
func (r Record) Evidence(f Field) EvidenceSet {
	if p := r.SupportingEvidence.ref(f); p != nil {
		return *p
	}
	return EvidenceSet{}
}

// SetValue assigns a reviewable field. It exists for record construction
// during ingestion; loaded records are treated as immutable.
func (r *Record) SetValue(f Field, value string) {
	if p := r.valueRef(f); p != nil {
		*p = value
	}
}

// SetEvidence assigns the evidence set of a reviewable field during ingestion.
func (r *Record) SetEvidence(f Field, set EvidenceSet) {
	if p := r.SupportingEvidence.ref(f); p != nil {
		*p = set
	}
}

func (r *Record) valueRef(f Field) *string {
	switch f {
	case FieldResearchGoal:
		return &r.ResearchGoal
	case FieldTargetCondition:
		return &r.TargetCondition
	case FieldHasSensorDevice:
		return &r.HasSensorDevice
	case FieldDeviceType:
		return &r.DeviceType
	case FieldCategory:
		return &r.Category
	case FieldSensorType:
		return &r.SensorType
	case FieldMethod:
		return &r.Method
	case FieldPlacement:
		return &r.Placement
	case FieldMeasurementVariable:
		return &r.MeasurementVariable
	case FieldBenefits:
		return &r.Benefits
	case FieldPrimaryPurpose:
		return &r.PrimaryPurpose
	case FieldPerformanceMetrics:
		return &r.PerformanceMetrics
	case FieldDeviceLimitation:
		return &r.DeviceLimitation
	case FieldMeasurementUnit:
		return &r.MeasurementUnit
	case FieldMeasurementPrecision:
		return &r.MeasurementPrecision
	}
	return nil
}

func (e *SupportingEvidence) ref(f Field) *EvidenceSet {
	switch f {
	case FieldResearchGoal:
		return &e.ResearchGoal
	case FieldTargetCondition:
		return &e.TargetCondition
	case FieldHasSensorDevice:
		return &e.SensorDevice
	case FieldDeviceType:
		return &e.DeviceType
	case FieldCategory:
		return &e.Category
	case FieldSensorType:
		return &e.SensorType
	case FieldMethod:
		return &e.Method
	case FieldPlacement:
		return &e.Placement
	case FieldMeasurementVariable:
		return &e.MeasurementVariable
	case FieldBenefits:
		return &e.Benefits
	case FieldPrimaryPurpose:
		return &e.PrimaryPurpose
	case FieldPerformanceMetrics:
		return &e.PerformanceMetrics
	case FieldDeviceLimitation:
		return &e.DeviceLimitation
	case FieldMeasurementUnit:
		return &e.MeasurementUnit
	case FieldMeasurementPrecision:
		return &e.MeasurementPrecision
	}
	return nil
}

// BibliographicKeys lists the non-reviewable record keys. Older session files
// carried them, always null, inside each ratings entry.
var BibliographicKeys = []string{"title", "authors", "doi", "doiLink", "venue", "citationCount", "year", "filename"}

// IsBibliographicKey reports whether key is one of BibliographicKeys.
func IsBibliographicKey(key string) bool {
	for _, k := range BibliographicKeys {
		if k == key {
			return true
		}
	}
	return false
}

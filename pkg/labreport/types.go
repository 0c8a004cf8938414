package labreport

// Field names one value extracted from a lab report
type Field string

const (
	PatientName       Field = "patient_name"
	Age               Field = "age"
	Gender            Field = "gender"
	LabName           Field = "lab_name"
	DoctorName        Field = "doctor_name"
	BloodSugarFasting Field = "blood_sugar_fasting"
	BloodSugarPP      Field = "blood_sugar_pp"
	HbA1c             Field = "hba1c_value"
	TotalCholesterol  Field = "total_cholesterol"
)

var allFields = []Field{
	PatientName,
	Age,
	Gender,
	LabName,
	DoctorName,
	BloodSugarFasting,
	BloodSugarPP,
	HbA1c,
	TotalCholesterol,
}

var fieldLabels = map[Field]string{
	PatientName:       "Patient name",
	Age:               "Age",
	Gender:            "Gender",
	LabName:           "Laboratory",
	DoctorName:        "Referring doctor",
	BloodSugarFasting: "Fasting blood sugar (mg/dl)",
	BloodSugarPP:      "Post prandial blood sugar (mg/dl)",
	HbA1c:             "HbA1c (%)",
	TotalCholesterol:  "Total cholesterol (mg/dl)",
}

// Fields returns all fields in canonical order
func Fields() []Field {
	return append([]Field(nil), allFields...)
}

// Label returns a human readable name for the field
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// BoundingBox is the rectangle of a recognized word in image coordinates
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// Word is one recognized word as reported by the OCR engine
type Word struct {
	Text       string      // Recognized text
	Confidence float64     // Recognition confidence (0-100)
	BBox       BoundingBox // Word coordinates
}

// Input is everything known about one document
type Input struct {
	Text    string // OCR text, required
	Words   []Word // OCR words in reading order, may be empty
	Caption string // Image caption, optional
}

// ExtractedField is the state of one field while a document is processed
type ExtractedField struct {
	Value      string  // Resolved value, empty if unresolved
	Confidence float64 // Confidence of the value (0-100)
	Raw        string  // Matched substring the value was read from
	Offset     int     // Byte offset of Raw in the source text
	Strategy   string  // Name of the strategy that produced the value
}

// Result is the extracted record of one lab report.
// A field value is non-empty if and only if Confidence has an entry for it.
type Result struct {
	PatientName       string `json:"patient_name" yaml:"patient_name"`
	Age               string `json:"age" yaml:"age"`
	Gender            string `json:"gender" yaml:"gender"`
	LabName           string `json:"lab_name" yaml:"lab_name"`
	DoctorName        string `json:"doctor_name" yaml:"doctor_name"`
	BloodSugarFasting string `json:"blood_sugar_fasting" yaml:"blood_sugar_fasting"`
	BloodSugarPP      string `json:"blood_sugar_pp" yaml:"blood_sugar_pp"`
	HbA1c             string `json:"hba1c_value" yaml:"hba1c_value"`
	TotalCholesterol  string `json:"total_cholesterol" yaml:"total_cholesterol"`

	Confidence         map[string]float64 `json:"confidence" yaml:"confidence"`
	LowConfidenceFlags []string           `json:"low_confidence_flags" yaml:"low_confidence_flags"`
}

func (r *Result) slot(f Field) *string {
	switch f {
	case PatientName:
		return &r.PatientName
	case Age:
		return &r.Age
	case Gender:
		return &r.Gender
	case LabName:
		return &r.LabName
	case DoctorName:
		return &r.DoctorName
	case BloodSugarFasting:
		return &r.BloodSugarFasting
	case BloodSugarPP:
		return &r.BloodSugarPP
	case HbA1c:
		return &r.HbA1c
	case TotalCholesterol:
		return &r.TotalCholesterol
	}
	return nil
}

// Value returns the value of a field, empty if unresolved
func (r Result) Value(f Field) string {
	if p := r.slot(f); p != nil {
		return *p
	}
	return ""
}

// FieldConfidence returns the confidence of a resolved field
func (r Result) FieldConfidence(f Field) (float64, bool) {
	c, ok := r.Confidence[string(f)]
	return c, ok
}

// IsLowConfidence reports whether the field is flagged for review
func (r Result) IsLowConfidence(f Field) bool {
	for _, name := range r.LowConfidenceFlags {
		if name == string(f) {
			return true
		}
	}
	return false
}

// Resolved returns the fields that have a value, in canonical order
func (r Result) Resolved() []Field {
	var out []Field
	for _, f := range allFields {
		if r.Value(f) != "" {
			out = append(out, f)
		}
	}
	return out
}

// record collects fields while one document is processed
type record struct {
	fields map[Field]ExtractedField
}

func newRecord() *record {
	return &record{fields: make(map[Field]ExtractedField, len(allFields))}
}

func (r *record) resolved(f Field) bool {
	return r.fields[f].Value != ""
}

func (r *record) get(f Field) (ExtractedField, bool) {
	ef, ok := r.fields[f]
	return ef, ok && ef.Value != ""
}

func (r *record) set(f Field, ef ExtractedField) {
	if ef.Value == "" {
		delete(r.fields, f)
		return
	}
	r.fields[f] = ef
}

func (r *record) clear(f Field) {
	delete(r.fields, f)
}

// result freezes the record into a Result
func (r *record) result(threshold float64) Result {
	res := Result{
		Confidence:         make(map[string]float64),
		LowConfidenceFlags: []string{},
	}
	for _, f := range allFields {
		ef, ok := r.get(f)
		if !ok {
			continue
		}
		*res.slot(f) = ef.Value
		res.Confidence[string(f)] = ef.Confidence
		if ef.Confidence < threshold {
			res.LowConfidenceFlags = append(res.LowConfidenceFlags, string(f))
		}
	}
	return res
}

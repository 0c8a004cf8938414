package labreport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const sampleReport = "Patient Name: Mr JOHN DOE\nAge/Sex: 45/M\nFasting Blood Sugar: 98 mg/dl\nHBA1C (BIORAD): 5.6%\n"

func TestExtract_EndToEnd(t *testing.T) {
	res := Extract(sampleReport, nil, "")

	assert.Equal(t, "JOHN DOE", res.PatientName)
	assert.Equal(t, "45", res.Age)
	assert.Equal(t, "MALE", res.Gender)
	assert.Equal(t, "98", res.BloodSugarFasting)
	assert.Equal(t, "5.6", res.HbA1c)

	assert.Empty(t, res.LabName)
	assert.Empty(t, res.DoctorName)
	assert.Empty(t, res.BloodSugarPP)
	assert.Empty(t, res.TotalCholesterol)

	assert.Equal(t, map[string]float64{
		"patient_name":        NeutralConfidence,
		"age":                 NeutralConfidence,
		"gender":              NeutralConfidence,
		"blood_sugar_fasting": NeutralConfidence,
		"hba1c_value":         NeutralConfidence,
	}, res.Confidence)
	assert.Equal(t, []string{"patient_name", "age", "gender", "blood_sugar_fasting", "hba1c_value"}, res.LowConfidenceFlags)
}

func TestExtract_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\t\n"} {
		res := Extract(text, nil, "")

		for _, f := range Fields() {
			assert.Empty(t, res.Value(f), f)
		}
		assert.NotNil(t, res.Confidence)
		assert.Empty(t, res.Confidence)
		require.NotNil(t, res.LowConfidenceFlags)
		assert.Empty(t, res.LowConfidenceFlags)
	}
}

func TestExtract_EmptyFlagsMarshalAsList(t *testing.T) {
	out, err := json.Marshal(Extract("", nil, ""))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"low_confidence_flags":[]`)
	assert.Contains(t, string(out), `"confidence":{}`)
}

func TestExtract_Deterministic(t *testing.T) {
	words := []Word{
		{Text: "JOHN", Confidence: 82},
		{Text: "DOE", Confidence: 64},
		{Text: "98", Confidence: 95},
	}
	first := Extract(sampleReport, words, "lab report of a patient")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Extract(sampleReport, words, "lab report of a patient"))
	}
}

func TestExtract_WordConfidence(t *testing.T) {
	words := []Word{
		{Text: "Fasting", Confidence: 96},
		{Text: "Blood", Confidence: 96},
		{Text: "Sugar:", Confidence: 94},
		{Text: "98", Confidence: 91},
		{Text: "mg/dl", Confidence: 70},
	}
	res := Extract("Fasting Blood Sugar: 98 mg/dl", words, "")

	assert.Equal(t, "98", res.BloodSugarFasting)
	conf, ok := res.FieldConfidence(BloodSugarFasting)
	require.True(t, ok)
	assert.InDelta(t, 91, conf, 1e-9)
	assert.False(t, res.IsLowConfidence(BloodSugarFasting))
	assert.Empty(t, res.LowConfidenceFlags)
}

func TestExtract_RangeRejection(t *testing.T) {
	res := Extract("Fasting Blood Sugar: 620 mg/dl\nPost Prandial Blood Sugar: 720 mg/dl", nil, "")

	assert.Empty(t, res.BloodSugarFasting)
	assert.Empty(t, res.BloodSugarPP)
	assert.NotContains(t, res.Confidence, string(BloodSugarFasting))
}

func TestExtract_ReferenceRangeIsNotResult(t *testing.T) {
	res := Extract("Normal Value: 4.0 to 6.0 HbA1c: 5.4%", nil, "")
	assert.Equal(t, "5.4", res.HbA1c)
}

func TestExtract_TabularMatchesInline(t *testing.T) {
	tabular := Extract("HbA1c\n5.6%\n", nil, "")
	inline := Extract("HbA1c: 5.6%\n", nil, "")

	assert.Equal(t, "5.6", tabular.HbA1c)
	assert.Equal(t, inline.HbA1c, tabular.HbA1c)
	assert.Equal(t, inline.Confidence, tabular.Confidence)
	assert.Equal(t, inline.LowConfidenceFlags, tabular.LowConfidenceFlags)
}

func TestExtract_StoplistedName(t *testing.T) {
	res := Extract("Patient Name: LABORATORY TECHNICIAN\nAge: 40", nil, "")
	assert.Empty(t, res.PatientName)
	assert.Equal(t, "40", res.Age)
}

func TestExtract_SelfReferral(t *testing.T) {
	res := Extract("REF. BY: DR. SELF", nil, "")

	assert.Equal(t, SelfReferred, res.DoctorName)
	conf, ok := res.FieldConfidence(DoctorName)
	require.True(t, ok)
	assert.InDelta(t, NeutralConfidence, conf, 1e-9)
}

func TestExtract_CaptionIsPrepended(t *testing.T) {
	res := Extract("HbA1c: 7.2%", nil, "Patient Name: Mrs ANITA RAO")

	assert.Equal(t, "ANITA RAO", res.PatientName)
	assert.Equal(t, "7.2", res.HbA1c)
}

func TestExtract_LabRepairs(t *testing.T) {
	t.Run("vignash group", func(t *testing.T) {
		res := Extract("VIGNASH GROUP\nHbA1c: 6.5%", nil, "")
		assert.Equal(t, VignashLabName, res.LabName)
		assert.Contains(t, res.Confidence, string(LabName))
	})

	t.Run("hospitals suffix on next line", func(t *testing.T) {
		res := Extract("Lab Name: Care Multispeciality\nHospitals", nil, "")
		assert.Equal(t, "Care Multispeciality HOSPITALS", res.LabName)
	})

	t.Run("hospitals in unrelated text", func(t *testing.T) {
		res := Extract("Apollo Diagnostics\nA partner of Max Hospitals", nil, "")
		assert.Equal(t, "Apollo Diagnostics", res.LabName)
	})

	t.Run("suffix already present", func(t *testing.T) {
		res := Extract("Lab Name: Care Hospitals\nHospitals", nil, "")
		assert.Equal(t, "Care Hospitals", res.LabName)
	})
}

func TestExtract_CustomThreshold(t *testing.T) {
	res := New(WithLowConfidenceThreshold(40)).Extract(Input{Text: sampleReport})

	assert.Len(t, res.Confidence, 5)
	assert.Empty(t, res.LowConfidenceFlags)
}

func TestExtract_LogsResolvedFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := New(WithLogger(zap.New(core)))

	res := e.Extract(Input{Text: "HbA1c: 5.6%"})
	require.Equal(t, "5.6", res.HbA1c)

	entries := logs.FilterMessage("field resolved").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hba1c_value", entries[0].ContextMap()["field"])
	assert.Equal(t, "hba1c-inline", entries[0].ContextMap()["strategy"])
}

func TestRecheckAge(t *testing.T) {
	t.Run("labelled minor replaced through extract", func(t *testing.T) {
		res := Extract("Age: 12 Yrs\nAge/Sex: 45/F", nil, "")
		assert.Equal(t, "45", res.Age)
		assert.Equal(t, "FEMALE", res.Gender)
		_, ok := res.FieldConfidence(Age)
		assert.True(t, ok)
	})

	t.Run("labelled minor dropped through extract", func(t *testing.T) {
		res := Extract("Age: 12 Yrs", nil, "")
		assert.Empty(t, res.Age)
		assert.NotContains(t, res.Confidence, string(Age))
	})

	t.Run("retries age sex pattern", func(t *testing.T) {
		src := NewSource(Input{Text: "Age/Sex: 45/F"})
		rec := newRecord()
		rec.set(Age, ExtractedField{Value: "12", Confidence: 50})

		recheckAge(rec, src)

		age, ok := rec.get(Age)
		require.True(t, ok)
		assert.Equal(t, "45", age.Value)
		gender, ok := rec.get(Gender)
		require.True(t, ok)
		assert.Equal(t, "FEMALE", gender.Value)
	})

	t.Run("clears implausible age", func(t *testing.T) {
		src := NewSource(Input{Text: "Age: 12"})
		rec := newRecord()
		rec.set(Age, ExtractedField{Value: "12", Confidence: 50})

		recheckAge(rec, src)

		assert.False(t, rec.resolved(Age))
	})
}

func TestResultResolved(t *testing.T) {
	res := Extract(sampleReport, nil, "")
	assert.Equal(t, []Field{PatientName, Age, Gender, BloodSugarFasting, HbA1c}, res.Resolved())
}

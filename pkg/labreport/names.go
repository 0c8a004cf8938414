package labreport

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Stoplists hold lower case tokens that never appear in a real value of the
// field. A candidate containing any of them as a whole word is rejected.
var (
	nameStopwords = stopwords(
		"patient", "name", "laboratory", "laboratories", "lab", "technician",
		"doctor", "dr", "consultant", "pathologist", "pathology", "hospital",
		"hospitals", "diagnostic", "diagnostics", "centre", "center", "clinic",
		"report", "test", "tests", "result", "results", "sample", "specimen",
		"department", "reference", "referred", "ref", "age", "sex", "gender",
		"male", "female", "investigation", "biochemistry", "haematology",
		"hematology", "signature", "authorised", "authorized", "incharge",
		"collected", "received", "reported", "printed", "date", "time", "value",
		"unit", "units", "method", "normal", "range", "blood", "sugar", "serum",
		"fasting", "self", "page",
	)

	doctorStopwords = stopwords(
		"patient", "technician", "laboratory", "lab", "report", "name", "age",
		"sex", "gender", "sample", "specimen", "test", "hospital", "department",
		"signature", "incharge", "collected", "reported", "received", "date",
		"page", "result", "investigation", "reference", "value", "range",
		"normal", "interval", "labs", "pathlab", "pathlabs", "diagnostic",
		"diagnostics", "laboratories",
	)

	labStopwords = stopwords(
		"technician", "technologist", "patient", "doctor", "report", "reports",
		"signature", "incharge", "department", "name", "sample", "test",
		"reference", "investigation", "result", "collected", "reported",
		"printed", "page",
	)

	// Words that end a lab name but do not name a lab on their own
	labSuffixWords = stopwords(
		"laboratory", "laboratories", "lab", "labs", "diagnostic", "diagnostics",
		"hospital", "hospitals", "centre", "center", "clinic", "clinics",
		"path", "pathlab", "pathlabs",
	)
)

func stopwords(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

var tokenPattern = regexp.MustCompile(`[A-Za-z]+`)

// containsStopword reports whether any alphabetic token of s is in stop
func containsStopword(s string, stop map[string]struct{}) bool {
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(s), -1) {
		if _, ok := stop[tok]; ok {
			return true
		}
	}
	return false
}

var spaceRun = regexp.MustCompile(`\s+`)

// collapseSpace trims s and replaces every run of whitespace with one space
func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// Patient name

var nameTail = regexp.MustCompile(`(?i)\s+(?:age|sex|gender|male|female|date|ref|reg|uhid|sample|lab|collected|reported|received|dob|mobile|phone|ph|id|no)\b.*$`)

var nameHonorific = regexp.MustCompile(`(?i)^(?:mr|mrs|ms|miss|master|smt|shri|baby)(?:\.\s*|\s+)`)

// cleanName turns a captured patient name into its value: label tails such as
// "Age" or "Sex" printed on the same line are cut and whitespace collapsed.
func cleanName(raw string) (string, bool) {
	v := nameTail.ReplaceAllString(raw, "")
	v = nameHonorific.ReplaceAllString(strings.TrimSpace(v), "")
	v = strings.Trim(collapseSpace(v), " .'")
	if !validName(v) {
		return "", false
	}
	return v, true
}

func validName(v string) bool {
	n := utf8.RuneCountInString(v)
	if n < 2 || n > 50 {
		return false
	}
	for _, r := range v {
		if !unicode.IsLetter(r) && r != ' ' && r != '.' && r != '\'' {
			return false
		}
	}
	if countLetters(v) < 2 {
		return false
	}
	return !containsStopword(v, nameStopwords)
}

// Doctor name

// SelfReferred is the doctor_name value of a self-referred patient
const SelfReferred = "SELF"

var (
	doctorTitle   = regexp.MustCompile(`(?i)^(?:dr\b\.?\s*)+`)
	doctorTail    = regexp.MustCompile(`(?i)\s+(?:date|sample|age|sex|gender|reg|uhid|collected|reported|received|report|lab|patient|ph|mobile)\b.*$`)
	doctorDegrees = regexp.MustCompile(`(?i)[\s,]+(?:m\.?b\.?b\.?s|m\.?d|d\.?n\.?b|m\.?s|d\.?m|frcp|mrcp|ph\.?d)\b.*$`)
	selfPattern   = regexp.MustCompile(`(?i)^self\b`)
)

// cleanDoctor turns a captured doctor reference into its value. The "Dr."
// title and trailing degrees are dropped and "self" becomes SelfReferred.
func cleanDoctor(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	v = doctorTitle.ReplaceAllString(v, "")
	v = strings.TrimLeft(v, ":-. ")
	if selfPattern.MatchString(v) {
		return SelfReferred, true
	}
	v = doctorTail.ReplaceAllString(v, "")
	v = doctorDegrees.ReplaceAllString(v, "")
	v = strings.Trim(collapseSpace(v), " .,'")
	if !validDoctor(v) {
		return "", false
	}
	return v, true
}

func validDoctor(v string) bool {
	if v == SelfReferred {
		return true
	}
	n := utf8.RuneCountInString(v)
	if n < 3 || n > 100 || countLetters(v) < 3 {
		return false
	}
	return !containsStopword(v, doctorStopwords)
}

// Lab name

// cleanLab trims a captured lab name and rejects noise
func cleanLab(raw string) (string, bool) {
	v := strings.Trim(collapseSpace(raw), " .,-:'")
	if !validLab(v) {
		return "", false
	}
	return v, true
}

func validLab(v string) bool {
	n := utf8.RuneCountInString(v)
	if n < 5 || n > 120 || countLetters(v) < 3 {
		return false
	}
	if containsStopword(v, labStopwords) {
		return false
	}
	// A lone suffix such as "Laboratory" or "Path Labs" names nothing
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(v), -1) {
		if _, ok := labSuffixWords[tok]; !ok {
			return true
		}
	}
	return false
}

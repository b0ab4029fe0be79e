package collection

import (
	"encoding/json"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// FormOfEducation
// --------------------------------------------------------------------------

// FormOfEducation is the fixed enumeration of education forms.
type FormOfEducation uint8

const (
	FormUnknown FormOfEducation = iota
	FormFullTime
	FormDistance
	FormEvening
)

// String returns the canonical wire name of a FormOfEducation.
func (f FormOfEducation) String() string {
	switch f {
	case FormFullTime:
		return "FULL_TIME_EDUCATION"
	case FormDistance:
		return "DISTANCE_EDUCATION"
	case FormEvening:
		return "EVENING_CLASSES"
	default:
		return "UNKNOWN"
	}
}

// ParseFormOfEducation converts a string (case-insensitive) to a
// FormOfEducation. It returns an error for unknown names.
func ParseFormOfEducation(s string) (FormOfEducation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FULL_TIME_EDUCATION", "FULL_TIME":
		return FormFullTime, nil
	case "DISTANCE_EDUCATION", "DISTANCE":
		return FormDistance, nil
	case "EVENING_CLASSES", "EVENING":
		return FormEvening, nil
	case "UNKNOWN":
		return FormUnknown, nil
	default:
		return FormUnknown, fmt.Errorf("unknown form of education: %s", s)
	}
}

// MarshalJSON implements the json.Marshaller interface for FormOfEducation.
// This allows the enum to be serialized as a string in JSON.
func (f FormOfEducation) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for FormOfEducation.
func (f *FormOfEducation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFormOfEducation(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// --------------------------------------------------------------------------
// Semester
// --------------------------------------------------------------------------

// Semester is the fixed enumeration of semesters.
type Semester uint8

const (
	SemesterUnknown Semester = iota
	SemesterFirst
	SemesterSecond
	SemesterThird
	SemesterFourth
	SemesterFifth
	SemesterSixth
	SemesterSeventh
	SemesterEighth
)

var semesterNames = [...]string{
	SemesterFirst:   "FIRST",
	SemesterSecond:  "SECOND",
	SemesterThird:   "THIRD",
	SemesterFourth:  "FOURTH",
	SemesterFifth:   "FIFTH",
	SemesterSixth:   "SIXTH",
	SemesterSeventh: "SEVENTH",
	SemesterEighth:  "EIGHTH",
}

// String returns the canonical wire name of a Semester.
func (s Semester) String() string {
	if s >= SemesterFirst && s <= SemesterEighth {
		return semesterNames[s]
	}
	return "UNKNOWN"
}

// ParseSemester converts a string (case-insensitive) to a Semester.
func ParseSemester(v string) (Semester, error) {
	name := strings.ToUpper(strings.TrimSpace(v))
	if name == "UNKNOWN" {
		return SemesterUnknown, nil
	}
	for sem, n := range semesterNames {
		if n == name && n != "" {
			return Semester(sem), nil
		}
	}
	return SemesterUnknown, fmt.Errorf("unknown semester: %s", v)
}

// MarshalJSON implements the json.Marshaller interface for Semester.
func (s Semester) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for Semester.
func (s *Semester) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseSemester(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Package collection defines the study group domain model managed by the
// sgc server: the StudyGroup record itself, its nested value objects
// (Coordinates, Person) and the fixed enumerations for form of education
// and semester.
//
// The package enforces all-or-nothing construction: a StudyGroup is either
// fully well-formed (every field set, every constraint satisfied) or it is
// never created. The NewStudyGroup factory stamps the creation timestamp
// and the owner identity exactly once; neither is ever reassigned.
//
// Key Components:
//
//   - StudyGroup: the primary record. Records are ordered by their ID,
//     which is unique within a store at all times.
//
//   - Person: the group administrator. The birth-date-in-the-past rule is
//     enforced here, at construction time, not by the store.
//
//   - Coordinates: a two-dimensional position. X is unbounded, Y is
//     bounded to a fixed magnitude (|Y| <= MaxY).
//
// Rendering helpers (String, CSVRow, RenderGroups) produce the text forms
// placed into response payloads; they never mutate the record.
package collection

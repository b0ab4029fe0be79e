package collection

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func validAdmin() Person {
	return Person{
		Name:       "Alice Admin",
		BirthDate:  time.Date(1999, 4, 12, 0, 0, 0, 0, time.UTC),
		Height:     1.72,
		PassportID: "AB-123456",
	}
}

func TestNewStudyGroup(t *testing.T) {
	g, err := NewStudyGroup("Group A", Coordinates{X: 10, Y: 3.5}, 25,
		FormFullTime, SemesterFirst, validAdmin(), "alice")
	if err != nil {
		t.Fatalf("valid group rejected: %v", err)
	}
	if g.ID != 0 {
		t.Fatalf("fresh group must carry id 0 (allocate at insert), got %d", g.ID)
	}
	if g.CreationDate.IsZero() {
		t.Fatal("creation date not stamped")
	}
	if g.Owner != "alice" {
		t.Fatalf("owner not stamped, got %q", g.Owner)
	}
}

func TestValidationRejects(t *testing.T) {
	base := func() (string, Coordinates, int, FormOfEducation, Semester, Person) {
		return "Group A", Coordinates{X: 10, Y: 3.5}, 25, FormFullTime, SemesterFirst, validAdmin()
	}

	cases := []struct {
		name  string
		build func() (*StudyGroup, error)
	}{
		{"EmptyName", func() (*StudyGroup, error) {
			_, c, n, f, s, p := base()
			return NewStudyGroup("", c, n, f, s, p, "alice")
		}},
		{"YOutOfRange", func() (*StudyGroup, error) {
			name, _, n, f, s, p := base()
			return NewStudyGroup(name, Coordinates{X: 0, Y: MaxY + 1}, n, f, s, p, "alice")
		}},
		{"NonPositiveStudents", func() (*StudyGroup, error) {
			name, c, _, f, s, p := base()
			return NewStudyGroup(name, c, 0, f, s, p, "alice")
		}},
		{"UnsetForm", func() (*StudyGroup, error) {
			name, c, n, _, s, p := base()
			return NewStudyGroup(name, c, n, FormUnknown, s, p, "alice")
		}},
		{"UnsetSemester", func() (*StudyGroup, error) {
			name, c, n, f, _, p := base()
			return NewStudyGroup(name, c, n, f, SemesterUnknown, p, "alice")
		}},
		{"FutureBirthDate", func() (*StudyGroup, error) {
			name, c, n, f, s, p := base()
			p.BirthDate = time.Now().Add(24 * time.Hour)
			return NewStudyGroup(name, c, n, f, s, p, "alice")
		}},
		{"NonPositiveHeight", func() (*StudyGroup, error) {
			name, c, n, f, s, p := base()
			p.Height = 0
			return NewStudyGroup(name, c, n, f, s, p, "alice")
		}},
		{"EmptyPassport", func() (*StudyGroup, error) {
			name, c, n, f, s, p := base()
			p.PassportID = ""
			return NewStudyGroup(name, c, n, f, s, p, "alice")
		}},
		{"EmptyOwner", func() (*StudyGroup, error) {
			name, c, n, f, s, p := base()
			return NewStudyGroup(name, c, n, f, s, p, "")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if g, err := tc.build(); err == nil {
				t.Fatalf("expected validation error, got record %+v", g)
			}
		})
	}
}

func TestEnumsJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Form     FormOfEducation `json:"form"`
		Semester Semester        `json:"semester"`
	}

	in := wrapper{Form: FormEvening, Semester: SemesterEighth}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), "EVENING_CLASSES") || !strings.Contains(string(data), "EIGHTH") {
		t.Fatalf("enums must serialize as strings, got %s", data)
	}

	var out wrapper
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}

	if err := json.Unmarshal([]byte(`{"form":"NOT_A_FORM","semester":"FIRST"}`), &out); err == nil {
		t.Fatal("unknown enum name must fail to unmarshal")
	}
}

func TestParseEnums(t *testing.T) {
	if f, err := ParseFormOfEducation("full_time"); err != nil || f != FormFullTime {
		t.Fatalf("short lowercase alias not accepted: %v %v", f, err)
	}
	if s, err := ParseSemester(" third "); err != nil || s != SemesterThird {
		t.Fatalf("whitespace/case not tolerated: %v %v", s, err)
	}
	if _, err := ParseSemester("NINTH"); err == nil {
		t.Fatal("expected error for unknown semester")
	}
}

func TestWithID(t *testing.T) {
	g, _ := NewStudyGroup("Group A", Coordinates{X: 1, Y: 1}, 10,
		FormDistance, SemesterSecond, validAdmin(), "alice")

	cp, err := g.WithID(77)
	if err != nil {
		t.Fatalf("WithID failed: %v", err)
	}
	if cp.ID != 77 || g.ID != 0 {
		t.Fatalf("WithID must copy, got cp.ID=%d g.ID=%d", cp.ID, g.ID)
	}
	if _, err := g.WithID(-1); err == nil {
		t.Fatal("negative id must be rejected")
	}
}

func TestCSVRowFieldCount(t *testing.T) {
	g, _ := NewStudyGroup("Group A", Coordinates{X: 1, Y: 1}, 10,
		FormDistance, SemesterSecond, validAdmin(), "alice")
	g, _ = g.WithID(1)

	fields := strings.Split(g.CSVRow(), ",")
	if len(fields) != 13 {
		t.Fatalf("expected 13 csv fields, got %d: %q", len(fields), g.CSVRow())
	}
}

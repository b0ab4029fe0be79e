package collection

import (
	"fmt"
	"time"
)

// MaxY is the fixed magnitude bound for the Y coordinate component.
// X is unbounded.
const MaxY = 552.0

// --------------------------------------------------------------------------
// Value Objects
// --------------------------------------------------------------------------

// Coordinates is a two-dimensional position with independent validity
// constraints per component.
type Coordinates struct {
	X int64   `json:"x"`
	Y float64 `json:"y"`
}

// Validate checks the per-component constraints of the coordinates.
func (c Coordinates) Validate() error {
	if c.Y > MaxY || c.Y < -MaxY {
		return fmt.Errorf("coordinate y out of range: |%v| > %v", c.Y, MaxY)
	}
	return nil
}

// Person is the group administrator value object.
type Person struct {
	Name       string    `json:"name"`
	BirthDate  time.Time `json:"birth_date"`
	Height     float64   `json:"height"`
	PassportID string    `json:"passport_id"`
}

// Validate checks the person constraints. The birth-date-in-the-past rule
// is applied here, at construction time, relative to the wall clock.
func (p Person) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("person name must not be empty")
	}
	if p.BirthDate.IsZero() || !p.BirthDate.Before(time.Now()) {
		return fmt.Errorf("person birth date must be in the past")
	}
	if p.Height <= 0 {
		return fmt.Errorf("person height must be positive, got %v", p.Height)
	}
	if p.PassportID == "" {
		return fmt.Errorf("person passport id must not be empty")
	}
	return nil
}

// Equal reports whether two persons describe the same administrator.
// All fields participate; passport IDs are not required to be unique.
func (p Person) Equal(other Person) bool {
	return p.Name == other.Name &&
		p.BirthDate.Equal(other.BirthDate) &&
		p.Height == other.Height &&
		p.PassportID == other.PassportID
}

// --------------------------------------------------------------------------
// StudyGroup Record
// --------------------------------------------------------------------------

// StudyGroup is the primary record managed by the store.
//
// ID, CreationDate and Owner are immutable after construction: the store
// preserves all three across replace operations.
type StudyGroup struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Coordinates     Coordinates     `json:"coordinates"`
	StudentCount    int             `json:"student_count"`
	FormOfEducation FormOfEducation `json:"form_of_education"`
	Semester        Semester        `json:"semester"`
	CreationDate    time.Time       `json:"creation_date"`
	GroupAdmin      Person          `json:"group_admin"`
	Owner           string          `json:"owner"`
}

// NewStudyGroup builds a fully validated study group owned by the given
// identity. The creation timestamp is stamped here, exactly once. The ID
// is left at zero, meaning "allocate at insert"; a caller replaying a
// record with a known ID sets it afterwards via WithID.
func NewStudyGroup(
	name string,
	coordinates Coordinates,
	studentCount int,
	form FormOfEducation,
	semester Semester,
	admin Person,
	owner string,
) (*StudyGroup, error) {
	g := &StudyGroup{
		Name:            name,
		Coordinates:     coordinates,
		StudentCount:    studentCount,
		FormOfEducation: form,
		Semester:        semester,
		CreationDate:    time.Now(),
		GroupAdmin:      admin,
		Owner:           owner,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// WithID returns a copy of the group carrying the given explicit ID.
func (g *StudyGroup) WithID(id int64) (*StudyGroup, error) {
	if id <= 0 {
		return nil, fmt.Errorf("study group id must be positive, got %d", id)
	}
	cp := *g
	cp.ID = id
	return &cp, nil
}

// Validate checks that every field of the record is set and every
// constraint is satisfied. A record failing validation is never inserted.
func (g *StudyGroup) Validate() error {
	if g == nil {
		return fmt.Errorf("study group is nil")
	}
	if g.ID < 0 {
		return fmt.Errorf("study group id must be positive, got %d", g.ID)
	}
	if g.Name == "" {
		return fmt.Errorf("study group name must not be empty")
	}
	if err := g.Coordinates.Validate(); err != nil {
		return err
	}
	if g.StudentCount <= 0 {
		return fmt.Errorf("student count must be positive, got %d", g.StudentCount)
	}
	if g.FormOfEducation == FormUnknown {
		return fmt.Errorf("form of education must be set")
	}
	if g.Semester == SemesterUnknown {
		return fmt.Errorf("semester must be set")
	}
	if g.CreationDate.IsZero() {
		return fmt.Errorf("creation date must be set")
	}
	if g.Owner == "" {
		return fmt.Errorf("owner identity must be set")
	}
	return g.GroupAdmin.Validate()
}

// Less defines the total order over study groups (by ID). Iteration order
// over any fixed store state is therefore deterministic.
func (g *StudyGroup) Less(other *StudyGroup) bool {
	return g.ID < other.ID
}

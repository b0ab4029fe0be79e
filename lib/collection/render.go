package collection

import (
	"fmt"
	"strings"
	"time"
)

// renderTimeFormat is the timestamp layout used in human readable output.
const renderTimeFormat = "2006-01-02 15:04:05"

// String renders the record as a single human readable line.
func (g *StudyGroup) String() string {
	return fmt.Sprintf(
		"StudyGroup #%d %q (%d students, %s, semester %s) at (%d, %g), admin %s, created %s, owner %s",
		g.ID, g.Name, g.StudentCount, g.FormOfEducation, g.Semester,
		g.Coordinates.X, g.Coordinates.Y, g.GroupAdmin.Name,
		g.CreationDate.Format(renderTimeFormat), g.Owner,
	)
}

// String renders the person as a single human readable line.
func (p Person) String() string {
	return fmt.Sprintf("%s (born %s, height %g, passport %s)",
		p.Name, p.BirthDate.Format("2006-01-02"), p.Height, p.PassportID)
}

// CSVRow renders the record as one comma separated row. This is the form
// written to the client-local output file.
func (g *StudyGroup) CSVRow() string {
	fields := []string{
		fmt.Sprintf("%d", g.ID),
		g.Name,
		fmt.Sprintf("%d", g.Coordinates.X),
		fmt.Sprintf("%g", g.Coordinates.Y),
		fmt.Sprintf("%d", g.StudentCount),
		g.FormOfEducation.String(),
		g.Semester.String(),
		g.CreationDate.Format(time.RFC3339),
		g.GroupAdmin.Name,
		g.GroupAdmin.BirthDate.Format("2006-01-02"),
		fmt.Sprintf("%g", g.GroupAdmin.Height),
		g.GroupAdmin.PassportID,
		g.Owner,
	}
	return strings.Join(fields, ",")
}

// RenderGroups renders an ordered snapshot as human readable lines,
// one record per line.
func RenderGroups(groups []*StudyGroup) string {
	if len(groups) == 0 {
		return "The collection is empty."
	}
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(g.String())
	}
	return sb.String()
}

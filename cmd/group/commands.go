package group

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ValentinKolb/sgc/lib/collection"
	"github.com/spf13/cobra"
)

// registerGroupFlags adds the study group field flags to a command
func registerGroupFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "name of the study group")
	cmd.Flags().Int64("x", 0, "x coordinate")
	cmd.Flags().Float64("y", 0, "y coordinate")
	cmd.Flags().Int("students", 0, "number of students")
	cmd.Flags().String("form", "", "form of education (full_time, distance, evening)")
	cmd.Flags().String("semester", "", "semester (first ... eighth)")
	registerAdminFlags(cmd)
}

// registerAdminFlags adds the group admin field flags to a command
func registerAdminFlags(cmd *cobra.Command) {
	cmd.Flags().String("admin-name", "", "name of the group admin")
	cmd.Flags().String("admin-birth", "", "birth date of the group admin (YYYY-MM-DD)")
	cmd.Flags().Float64("admin-height", 0, "height of the group admin")
	cmd.Flags().String("admin-passport", "", "passport id of the group admin")
}

// adminFromFlags builds the group admin from a command's flags
func adminFromFlags(cmd *cobra.Command) (collection.Person, error) {
	name, _ := cmd.Flags().GetString("admin-name")
	birth, _ := cmd.Flags().GetString("admin-birth")
	height, _ := cmd.Flags().GetFloat64("admin-height")
	passport, _ := cmd.Flags().GetString("admin-passport")

	birthDate, err := time.Parse("2006-01-02", birth)
	if err != nil {
		return collection.Person{}, fmt.Errorf("admin-birth must be YYYY-MM-DD: %w", err)
	}

	return collection.Person{
		Name:       name,
		BirthDate:  birthDate,
		Height:     height,
		PassportID: passport,
	}, nil
}

// groupFromFlags builds a validated study group from a command's flags.
// The owner is a placeholder; the server replaces it with the
// authenticated identity.
func groupFromFlags(cmd *cobra.Command) (*collection.StudyGroup, error) {
	name, _ := cmd.Flags().GetString("name")
	x, _ := cmd.Flags().GetInt64("x")
	y, _ := cmd.Flags().GetFloat64("y")
	students, _ := cmd.Flags().GetInt("students")
	formStr, _ := cmd.Flags().GetString("form")
	semesterStr, _ := cmd.Flags().GetString("semester")

	form, err := collection.ParseFormOfEducation(formStr)
	if err != nil {
		return nil, err
	}
	semester, err := collection.ParseSemester(semesterStr)
	if err != nil {
		return nil, err
	}
	admin, err := adminFromFlags(cmd)
	if err != nil {
		return nil, err
	}

	return collection.NewStudyGroup(
		name,
		collection.Coordinates{X: x, Y: y},
		students,
		form,
		semester,
		admin,
		"client",
	)
}

// parseID parses a positional ID argument
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive number, got %q", arg)
	}
	return id, nil
}

var (
	addCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a new study group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := groupFromFlags(cmd)
			if err != nil {
				return err
			}
			id, res, err := groupSvc.Add(g)
			if err != nil {
				return err
			}
			if err := printResult(res); err != nil {
				return err
			}
			fmt.Printf("id=%d\n", id)
			return nil
		},
	}

	updateCmd = &cobra.Command{
		Use:   "update [id]",
		Short: "Update the study group with the given ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fields, err := groupFromFlags(cmd)
			if err != nil {
				return err
			}
			res, err := groupSvc.Update(id, fields)
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}

	removeCmd = &cobra.Command{
		Use:   "remove [id]",
		Short: "Remove the study group with the given ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := groupSvc.Remove(id)
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}

	removeLowerCmd = &cobra.Command{
		Use:   "remove-lower [id]",
		Short: "Remove all owned study groups with an ID lower than the given one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			removed, res, err := groupSvc.RemoveLower(&collection.StudyGroup{ID: id})
			if err != nil {
				return err
			}
			if err := printResult(res); err != nil {
				return err
			}
			fmt.Printf("removed=%d\n", removed)
			return nil
		},
	}

	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove all owned study groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, res, err := groupSvc.Clear()
			if err != nil {
				return err
			}
			if err := printResult(res); err != nil {
				return err
			}
			fmt.Printf("removed=%d\n", removed)
			return nil
		},
	}

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "List the whole collection in ID order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := groupSvc.Show()
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}

	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Print collection metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := groupSvc.Info()
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}

	countByAdminCmd = &cobra.Command{
		Use:   "count-by-admin",
		Short: "Count the study groups administered by the given person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := adminFromFlags(cmd)
			if err != nil {
				return err
			}
			count, res, err := groupSvc.CountByAdmin(admin)
			if err != nil {
				return err
			}
			if err := printResult(res); err != nil {
				return err
			}
			fmt.Printf("count=%d\n", count)
			return nil
		},
	}

	groupByIDCmd = &cobra.Command{
		Use:   "group-by-id",
		Short: "Bucket the collection into ID ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := groupSvc.GroupCountingByID()
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}

	hasCmd = &cobra.Command{
		Use:   "has [id]",
		Short: "Check whether a study group with the given ID exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			found, err := groupSvc.Has(id)
			if err != nil {
				return err
			}
			fmt.Printf("id=%d, found=%t\n", id, found)
			return nil
		},
	}
)

func init() {
	registerGroupFlags(addCmd)
	registerGroupFlags(updateCmd)
	registerAdminFlags(countByAdminCmd)
}

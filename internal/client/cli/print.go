package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/tutorhub/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

func salary(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func userLabel(u models.User) string {
	if u.Name == "" {
		return u.ID
	}
	if u.Email == "" {
		return u.Name
	}
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

func printPosts(w io.Writer, posts []models.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBJECT\tLOCATION\tSALARY\tSTATUS\tINTERESTED")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", p.ID, p.Subject, p.Location, salary(p.Salary), p.Status, len(p.InterestedTutors))
	}
	tw.Flush()
}

func printPost(w io.Writer, p *models.Post) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Subject:\t%s\n", p.Subject)
	fmt.Fprintf(tw, "Location:\t%s\n", p.Location)
	fmt.Fprintf(tw, "Salary:\t%s\n", salary(p.Salary))
	if p.Requirements != "" {
		fmt.Fprintf(tw, "Requirements:\t%s\n", strings.ReplaceAll(p.Requirements, "\n", " "))
	}
	fmt.Fprintf(tw, "Status:\t%s\n", p.Status)
	fmt.Fprintf(tw, "Student:\t%s\n", userLabel(p.Student))

	names := make([]string, 0, len(p.InterestedTutors))
	for _, u := range p.InterestedTutors {
		names = append(names, userLabel(u))
	}
	fmt.Fprintf(tw, "Interested:\t%d %s\n", len(names), strings.Join(names, ", "))
	if p.SelectedTutor != nil {
		fmt.Fprintf(tw, "Selected:\t%s\n", userLabel(*p.SelectedTutor))
	}
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "Created:\t%s\n", p.CreatedAt.Local().Format(timeLayout))
	}
	tw.Flush()
}

func printUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No tutors yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Phone)
	}
	tw.Flush()
}

func printUser(w io.Writer, u *models.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	if u.Phone != "" {
		fmt.Fprintf(tw, "Phone:\t%s\n", u.Phone)
	}
	tw.Flush()
}

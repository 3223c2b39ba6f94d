package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tutorhub/internal/client/models"
)

// parseFilter reads key=value filter arguments of the posts command.
func parseFilter(args []string) (models.PostFilter, error) {
	var f models.PostFilter
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return f, errUsage("posts [subject=..] [location=..] [min=..] [max=..]")
		}
		switch key {
		case "subject":
			f.Subject = value
		case "location":
			f.Location = value
		case "min", "max":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return f, fmt.Errorf("%s must be a number", key)
			}
			if key == "min" {
				f.MinSalary = &v
			} else {
				f.MaxSalary = &v
			}
		default:
			return f, fmt.Errorf("unknown filter %q", key)
		}
	}
	return f, nil
}

func (a *App) Posts(ctx context.Context, args []string) error {
	f, err := parseFilter(args)
	if err != nil {
		return err
	}
	posts, err := a.postService.List(ctx, f)
	if err != nil {
		return err
	}
	printPosts(a.out, posts)
	return nil
}

func (a *App) MyPosts(ctx context.Context, _ []string) error {
	posts, err := a.postService.Mine(ctx)
	if err != nil {
		return err
	}
	printPosts(a.out, posts)
	return nil
}

func oneArg(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", errUsage(usage)
	}
	return args[0], nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := oneArg(args, "show <id>")
	if err != nil {
		return err
	}
	p, err := a.postService.Get(ctx, id)
	if err != nil {
		return err
	}
	printPost(a.out, p)
	return nil
}

// readPostInput prompts for every post field. With keepBlank, empty answers
// leave the field unset so an edit keeps its current value.
func (a *App) readPostInput(keepBlank bool) (models.PostInput, error) {
	var in models.PostInput
	hint := ""
	if keepBlank {
		hint = " (blank keeps current)"
	}

	subject, err := getSimpleText(a.reader, "Subject"+hint, a.out)
	if err != nil {
		return in, err
	}
	location, err := getSimpleText(a.reader, "Location"+hint, a.out)
	if err != nil {
		return in, err
	}
	salary, err := getSimpleText(a.reader, "Salary"+hint, a.out)
	if err != nil {
		return in, err
	}
	requirements, err := GetMultiline(a.reader, "Requirements"+hint, a.out)
	if err != nil {
		return in, err
	}

	if keepBlank {
		in.Subject, in.Location, in.Requirements = optional(subject), optional(location), optional(requirements)
	} else {
		in.Subject, in.Location, in.Requirements = &subject, &location, optional(requirements)
	}

	if salary != "" {
		v, err := strconv.ParseFloat(salary, 64)
		if err != nil {
			return in, fmt.Errorf("salary must be a number")
		}
		in.Salary = &v
	} else if !keepBlank {
		return in, fmt.Errorf("salary is required")
	}
	return in, nil
}

func (a *App) Create(ctx context.Context, _ []string) error {
	in, err := a.readPostInput(false)
	if err != nil {
		return err
	}
	p, err := a.postService.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Post created")
	printPost(a.out, p)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := oneArg(args, "edit <id>")
	if err != nil {
		return err
	}
	in, err := a.readPostInput(true)
	if err != nil {
		return err
	}
	p, err := a.postService.Update(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Post updated")
	printPost(a.out, p)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := oneArg(args, "delete <id>")
	if err != nil {
		return err
	}
	answer, err := getSimpleText(a.reader, "Delete post "+id+"? [y/N]", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	if err := a.postService.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Post deleted")
	return nil
}

func (a *App) Interest(ctx context.Context, args []string) error {
	id, err := oneArg(args, "interest <id>")
	if err != nil {
		return err
	}
	p, err := a.postService.ExpressInterest(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Interest recorded, %d tutor(s) interested\n", len(p.InterestedTutors))
	return nil
}

func (a *App) Interested(ctx context.Context, args []string) error {
	id, err := oneArg(args, "interested <id>")
	if err != nil {
		return err
	}
	tutors, err := a.postService.Interested(ctx, id)
	if err != nil {
		return err
	}
	printUsers(a.out, tutors)
	return nil
}

func (a *App) Select(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage("select <id> <tutorId>")
	}
	p, err := a.postService.SelectTutor(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Tutor selected")
	printPost(a.out, p)
	return nil
}

package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/tutorhub/internal/client/client"
	"github.com/dmitrijs2005/tutorhub/internal/client/config"
	"github.com/dmitrijs2005/tutorhub/internal/client/services"
	"github.com/dmitrijs2005/tutorhub/internal/filex"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	postService services.PostService
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	path, err := filex.EnsureParentDir(c.SessionDBPath)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("error initializing session database: %w", err)
	}

	apiClient := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	as := services.NewAuthService(apiClient, db)
	ps := services.NewPostService(apiClient, as)

	return &App{
		config:      c,
		authService: as,
		postService: ps,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	fmt.Fprintln(a.out, "Welcome to TutorHub CLI (type 'help' for commands)")
	if err := a.authService.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s at %s\n", describe(err), a.config.ServerURL)
	}
	if s, err := a.authService.Current(ctx); err == nil {
		fmt.Fprintf(a.out, "Signed in as %s (%s)\n", s.User.Name, s.User.Role)
	}

	runREPL(ctx, a, a.reader, a.out)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, err := a.authService.Current(ctx)
	return err == nil
}

// status is shown in the prompt, e.g. "(alice@example.com Student)".
func (a *App) status(ctx context.Context) string {
	s, err := a.authService.Current(ctx)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", s.User.Email, s.User.Role)
}

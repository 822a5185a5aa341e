package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/creastat/espace-cours/config"
	"github.com/creastat/espace-cours/roster"
	"github.com/creastat/espace-cours/session"
	"github.com/creastat/espace-cours/sheets"
	"github.com/creastat/espace-cours/supabase"
)

const usage = `usage: espace-cours <command> [arguments]

commands:
  whoami                      show the viewer and the effective viewer
  require [-teacher] [-admin] check page access, print the redirect on failure
  admin                       switch to admin mode
  view-as [student-id]        switch to student view, optionally as a student
  return-admin                switch to admin mode and open the dashboard
  roster                      list the roster
  sync-roster supabase|sheets replace the roster from a source
  logout                      end the session`

var errUsage = errors.New("invalid usage")

// app holds the dependencies shared by subcommands.
type app struct {
	cfg     config.Config
	store   session.Store
	manager *session.Manager
	logger  *slog.Logger
	out     io.Writer

	// sources builds a roster source by name; replaced in tests.
	sources func(name string) (roster.Source, error)
}

func newApp(cfg config.Config, store session.Store, logger *slog.Logger, out io.Writer) *app {
	a := &app{
		cfg:    cfg,
		store:  store,
		logger: logger,
		out:    out,
	}
	a.manager = session.NewManager(store,
		session.WithLogger(logger),
		session.WithPaths(cfg.Paths()),
		session.WithKeys(cfg.SessionKey, cfg.RosterKey),
		session.WithNavigator(session.NavigatorFunc(a.redirect)),
	)
	a.sources = a.rosterSource
	return a
}

func (a *app) redirect(_ context.Context, path string) {
	fmt.Fprintf(a.out, "redirect: %s\n", path)
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "whoami":
		return a.whoami(ctx)
	case "require":
		return a.require(ctx, rest)
	case "admin":
		return a.manager.SetAdminMode(ctx)
	case "view-as":
		if len(rest) > 1 {
			return fmt.Errorf("view-as takes at most one student id: %w", errUsage)
		}
		id := ""
		if len(rest) == 1 {
			id = rest[0]
		}
		return a.manager.SetStudentView(ctx, id)
	case "return-admin":
		return a.manager.ReturnToAdmin(ctx)
	case "roster":
		for _, s := range a.manager.Roster(ctx) {
			fmt.Fprintf(a.out, "%s\t%s\n", s.ID, s.DisplayName())
		}
		return nil
	case "sync-roster":
		return a.syncRoster(ctx, rest)
	case "logout":
		return a.manager.EndSession(ctx)
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		fmt.Fprintln(a.out, usage)
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func (a *app) whoami(ctx context.Context) error {
	s := a.manager.CurrentSession(ctx)
	if s == nil {
		fmt.Fprintln(a.out, "no session")
		return nil
	}

	fmt.Fprintf(a.out, "viewer: %s (%s, %s)\n", s.User.DisplayName(), s.User.ID, s.User.Role)
	if s.IsTeacher() {
		fmt.Fprintf(a.out, "mode: %s\n", s.Mode())
	}
	if effective := a.manager.EffectiveViewer(ctx); effective != nil && effective.ID != s.User.ID {
		fmt.Fprintf(a.out, "viewing as: %s (%s)\n", effective.DisplayName(), effective.ID)
	}
	if banner := a.manager.Banner(ctx); banner != nil {
		fmt.Fprintf(a.out, "preview: %s, return via %s\n", banner.StudentName, banner.ReturnPath)
	}
	return nil
}

func (a *app) require(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("require", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var req session.Requirements
	fs.BoolVar(&req.RequireTeacher, "teacher", false, "require the teacher role")
	fs.BoolVar(&req.RequireAdmin, "admin", false, "require admin mode")
	if err := fs.Parse(args); err != nil {
		return errors.Join(errUsage, err)
	}

	if a.manager.RequireSession(ctx, req) {
		fmt.Fprintln(a.out, "ok")
	}
	return nil
}

func (a *app) syncRoster(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("sync-roster needs a source name: %w", errUsage)
	}

	src, err := a.sources(args[0])
	if err != nil {
		return err
	}

	n, err := roster.Sync(ctx, src, a.store, a.cfg.RosterKey)
	if err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "roster synced", "source", args[0], "students", n)
	fmt.Fprintf(a.out, "%d students\n", n)
	return nil
}

// rosterSource builds the named roster source from configuration.
func (a *app) rosterSource(name string) (roster.Source, error) {
	switch name {
	case "supabase":
		client, err := supabase.New(supabase.Config{
			URL:      a.cfg.Supabase.URL,
			APIKey:   a.cfg.Supabase.APIKey,
			Table:    a.cfg.Supabase.Table,
			CacheTTL: a.cfg.Supabase.CacheTTL,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "sheets":
		client, err := sheets.New(sheets.Config{
			SpreadsheetID: a.cfg.Sheets.SpreadsheetID,
			APIKey:        a.cfg.Sheets.APIKey,
		})
		if err != nil {
			return nil, err
		}
		return sheets.RosterSource{Client: client, Sheet: a.cfg.Sheets.RosterSheet}, nil
	default:
		return nil, fmt.Errorf("unknown roster source %q: %w", name, errUsage)
	}
}

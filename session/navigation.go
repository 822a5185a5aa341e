package session

import (
	"context"
	"path"
)

// DefaultBasePath is the path the site is served under.
const DefaultBasePath = "/Activit-s-interactives_2nd-bac-pro"

// Navigator performs the redirect side effect requested by the manager.
type Navigator interface {
	Redirect(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string)

// Redirect implements Navigator.
func (f NavigatorFunc) Redirect(ctx context.Context, path string) {
	f(ctx, path)
}

// Paths resolves the pages the manager redirects to.
type Paths struct {
	BasePath string
}

// DefaultPaths returns Paths rooted at DefaultBasePath.
func DefaultPaths() Paths {
	return Paths{BasePath: DefaultBasePath}
}

// Login returns the login page.
func (p Paths) Login() string { return p.page("login.html") }

// Home returns the home page.
func (p Paths) Home() string { return p.page("index.html") }

// Admin returns the admin dashboard.
func (p Paths) Admin() string { return p.page("admin", "index.html") }

func (p Paths) page(elem ...string) string {
	return path.Join(append([]string{"/", p.BasePath}, elem...)...)
}

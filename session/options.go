package session

import "log/slog"

// ManagerOption is a functional option for configuring a Manager.
type ManagerOption func(*managerConfig)

// managerConfig holds configuration for a Manager.
type managerConfig struct {
	navigator  Navigator
	logger     *slog.Logger
	paths      Paths
	sessionKey string
	rosterKey  string
}

// WithNavigator sets the navigator used for redirects.
func WithNavigator(nav Navigator) ManagerOption {
	return func(c *managerConfig) {
		c.navigator = nav
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(c *managerConfig) {
		c.logger = logger
	}
}

// WithPaths sets the redirect targets.
func WithPaths(paths Paths) ManagerOption {
	return func(c *managerConfig) {
		c.paths = paths
	}
}

// WithKeys overrides the session and roster record keys.
func WithKeys(sessionKey, rosterKey string) ManagerOption {
	return func(c *managerConfig) {
		if sessionKey != "" {
			c.sessionKey = sessionKey
		}
		if rosterKey != "" {
			c.rosterKey = rosterKey
		}
	}
}

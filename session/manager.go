package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Requirements restricts who may stay on a page.
type Requirements struct {
	RequireTeacher bool
	RequireAdmin   bool
}

// Manager owns the session record and answers "who is acting" queries.
//
// Reads never fail: a missing, unreadable or corrupt record is reported as no
// session. Mutations rewrite the whole record; the last writer wins.
type Manager struct {
	store      Store
	nav        Navigator
	logger     *slog.Logger
	paths      Paths
	sessionKey string
	rosterKey  string
}

// NewManager creates a Manager backed by store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	config := &managerConfig{
		paths:      DefaultPaths(),
		sessionKey: DefaultSessionKey,
		rosterKey:  DefaultRosterKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = slog.Default()
	}
	nav := config.navigator
	if nav == nil {
		nav = NavigatorFunc(func(ctx context.Context, path string) {
			logger.DebugContext(ctx, "redirect without navigator", "path", path)
		})
	}

	return &Manager{
		store:      store,
		nav:        nav,
		logger:     logger,
		paths:      config.paths,
		sessionKey: config.sessionKey,
		rosterKey:  config.rosterKey,
	}
}

// Paths returns the redirect targets.
func (m *Manager) Paths() Paths {
	return m.paths
}

// CurrentSession returns the stored session, or nil.
func (m *Manager) CurrentSession(ctx context.Context) *Session {
	raw, err := m.store.Get(ctx, m.sessionKey)
	if err != nil {
		m.logger.WarnContext(ctx, "reading session failed", "key", m.sessionKey, "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		m.logger.DebugContext(ctx, "ignoring unparseable session", "key", m.sessionKey, "error", err)
		return nil
	}
	if !s.valid() {
		m.logger.DebugContext(ctx, "ignoring session without user", "key", m.sessionKey)
		return nil
	}
	return &s
}

// CurrentViewer returns the logged-in user, or nil.
func (m *Manager) CurrentViewer(ctx context.Context) *User {
	s := m.CurrentSession(ctx)
	if s == nil {
		return nil
	}
	return s.User
}

// EffectiveViewerID returns the impersonated student id for a teacher in
// student-view mode with a chosen student, otherwise the viewer's own id.
// Returns "" without a session.
func (m *Manager) EffectiveViewerID(ctx context.Context) string {
	return m.CurrentSession(ctx).EffectiveViewerID()
}

// EffectiveViewer is EffectiveViewerID resolved to an identity. An
// impersonated id missing from the roster falls back to the teacher.
func (m *Manager) EffectiveViewer(ctx context.Context) *User {
	s := m.CurrentSession(ctx)
	if s == nil {
		return nil
	}
	id := s.TargetID()
	if id == "" {
		return s.User
	}
	if student, ok := findStudent(m.Roster(ctx), id); ok {
		return student.AsUser()
	}
	return s.User
}

// IsTeacher reports whether the viewer is a teacher.
func (m *Manager) IsTeacher(ctx context.Context) bool {
	return m.CurrentSession(ctx).IsTeacher()
}

// IsAdminMode reports whether the viewer is a teacher in admin mode.
func (m *Manager) IsAdminMode(ctx context.Context) bool {
	return m.CurrentSession(ctx).IsAdminMode()
}

// IsImpersonating reports whether the viewer is a teacher in student-view mode.
func (m *Manager) IsImpersonating(ctx context.Context) bool {
	return m.CurrentSession(ctx).IsImpersonating()
}

// Roster returns the stored roster. Missing or corrupt data yields an empty list.
func (m *Manager) Roster(ctx context.Context) []Student {
	raw, err := m.store.Get(ctx, m.rosterKey)
	if err != nil {
		m.logger.WarnContext(ctx, "reading roster failed", "key", m.rosterKey, "error", err)
		return []Student{}
	}
	if raw == nil {
		return []Student{}
	}

	var roster []Student
	if err := json.Unmarshal(raw, &roster); err != nil {
		m.logger.DebugContext(ctx, "ignoring unparseable roster", "key", m.rosterKey, "error", err)
		return []Student{}
	}
	if roster == nil {
		return []Student{}
	}
	return roster
}

// RequireSession checks req against the current session. Without a session
// it redirects to the login page; when req is not met it redirects home.
// It returns true, with no side effect, when the viewer may stay.
func (m *Manager) RequireSession(ctx context.Context, req Requirements) bool {
	s := m.CurrentSession(ctx)
	if s == nil {
		m.nav.Redirect(ctx, m.paths.Login())
		return false
	}
	if req.RequireTeacher && !s.IsTeacher() {
		m.nav.Redirect(ctx, m.paths.Home())
		return false
	}
	if req.RequireAdmin && !s.IsAdminMode() {
		m.nav.Redirect(ctx, m.paths.Home())
		return false
	}
	return true
}

// SetAdminMode switches a teacher back to admin mode and clears the
// impersonated student. It does nothing for students or without a session.
func (m *Manager) SetAdminMode(ctx context.Context) error {
	s := m.CurrentSession(ctx)
	if !s.IsTeacher() {
		return nil
	}

	s.ViewMode = ViewModeAdmin
	s.ViewAsStudent = ""
	return m.save(ctx, s)
}

// SetStudentView switches a teacher to student-view mode as studentID.
// An empty studentID clears the chosen student. It does nothing for students
// or without a session.
func (m *Manager) SetStudentView(ctx context.Context, studentID string) error {
	s := m.CurrentSession(ctx)
	if !s.IsTeacher() {
		return nil
	}

	s.ViewMode = ViewModeStudent
	s.ViewAsStudent = studentID
	return m.save(ctx, s)
}

// ReturnToAdmin switches a teacher to admin mode and opens the admin
// dashboard.
func (m *Manager) ReturnToAdmin(ctx context.Context) error {
	if !m.IsTeacher(ctx) {
		return nil
	}
	if err := m.SetAdminMode(ctx); err != nil {
		return err
	}
	m.nav.Redirect(ctx, m.paths.Admin())
	return nil
}

// EndSession deletes the session and roster records and redirects to the
// login page.
func (m *Manager) EndSession(ctx context.Context) error {
	if err := m.store.Delete(ctx, m.sessionKey, m.rosterKey); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	m.logger.InfoContext(ctx, "session ended")
	m.nav.Redirect(ctx, m.paths.Login())
	return nil
}

// save overwrites the session record.
func (m *Manager) save(ctx context.Context, s *Session) error {
	val, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.store.Set(ctx, m.sessionKey, val); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	m.logger.DebugContext(ctx, "session saved",
		"user", s.User.ID,
		"view_mode", s.Mode(),
		"view_as", s.ViewAsStudent,
	)
	return nil
}

func findStudent(roster []Student, id string) (Student, bool) {
	for _, s := range roster {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

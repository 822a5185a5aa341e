package session

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Role is the role asserted for a viewer by the login step.
type Role string

const (
	RoleTeacher Role = "prof"
	RoleStudent Role = "eleve"
)

// ViewMode selects what a teacher is currently looking at.
type ViewMode string

const (
	ViewModeAdmin   ViewMode = "admin"
	ViewModeStudent ViewMode = "eleve"
)

// Default record keys, shared with the site scripts.
const (
	DefaultSessionKey = "espace_cours_session"
	DefaultRosterKey  = "espace_cours_eleves"
)

// User is the identity stored in a session.
type User struct {
	ID         string `json:"id"`
	GivenName  string `json:"prenom"`
	FamilyName string `json:"nom"`
	Role       Role   `json:"role"`

	extra map[string]json.RawMessage
}

// Student is a roster entry a teacher may view the site as.
type Student struct {
	ID         string `json:"id"`
	GivenName  string `json:"prenom"`
	FamilyName string `json:"nom"`
}

// Session is the persisted record describing the current viewer.
//
// ViewAsStudent is only meaningful when the user is a teacher in student-view
// mode. Nothing in the store enforces that; Manager keeps it consistent.
// Fields unknown to this package are kept and written back unchanged.
type Session struct {
	User          *User    `json:"user"`
	ViewMode      ViewMode `json:"viewMode,omitempty"`
	ViewAsStudent string   `json:"viewAsStudent,omitempty"`

	extra map[string]json.RawMessage
}

// DisplayName returns "given family", trimmed.
func (u *User) DisplayName() string {
	return displayName(u.GivenName, u.FamilyName)
}

// Initial returns the upper-cased first letter of the given name, or "?".
func (u *User) Initial() string {
	r, size := utf8.DecodeRuneInString(u.GivenName)
	if size == 0 || r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

// DisplayName returns "given family", trimmed.
func (s Student) DisplayName() string {
	return displayName(s.GivenName, s.FamilyName)
}

// AsUser returns the student as a viewer identity.
func (s Student) AsUser() *User {
	return &User{
		ID:         s.ID,
		GivenName:  s.GivenName,
		FamilyName: s.FamilyName,
		Role:       RoleStudent,
	}
}

// IsTeacher reports whether the session belongs to a teacher.
func (s *Session) IsTeacher() bool {
	return s != nil && s.User != nil && s.User.Role == RoleTeacher
}

// Mode returns the view mode. Teacher records written without a mode are
// in admin mode.
func (s *Session) Mode() ViewMode {
	if s.ViewMode == "" {
		return ViewModeAdmin
	}
	return s.ViewMode
}

// IsAdminMode reports whether a teacher is in admin mode.
func (s *Session) IsAdminMode() bool {
	return s.IsTeacher() && s.Mode() == ViewModeAdmin
}

// IsImpersonating reports whether a teacher is in student-view mode, with or
// without a chosen student.
func (s *Session) IsImpersonating() bool {
	return s.IsTeacher() && s.Mode() == ViewModeStudent
}

// TargetID returns the impersonated student id, or "" when the session is
// not a teacher in student-view mode with a chosen student.
func (s *Session) TargetID() string {
	if !s.IsImpersonating() {
		return ""
	}
	return s.ViewAsStudent
}

// EffectiveViewerID returns the id whose data should be shown.
func (s *Session) EffectiveViewerID() string {
	if s == nil || s.User == nil {
		return ""
	}
	if id := s.TargetID(); id != "" {
		return id
	}
	return s.User.ID
}

// valid reports whether the decoded record carries an identity.
func (s *Session) valid() bool {
	return s.User != nil && s.User.ID != ""
}

// MarshalJSON implements json.Marshaler.
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return marshalWithExtra(plain(u), u.extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extra, err := unknownFields(b, "id", "prenom", "nom", "role")
	if err != nil {
		return err
	}
	*u = User(p)
	u.extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Session) MarshalJSON() ([]byte, error) {
	type plain Session
	return marshalWithExtra(plain(s), s.extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Session) UnmarshalJSON(b []byte) error {
	type plain Session
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extra, err := unknownFields(b, "user", "viewMode", "viewAsStudent")
	if err != nil {
		return err
	}
	*s = Session(p)
	s.extra = extra
	return nil
}

func displayName(given, family string) string {
	return strings.TrimSpace(given + " " + family)
}

// unknownFields returns the members of a JSON object not listed in known.
func unknownFields(b []byte, known ...string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := all[k]; !ok {
			all[k] = raw
		}
	}
	return json.Marshal(all)
}

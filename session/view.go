package session

import "context"

// Labels shown by the header and the preview banner.
const (
	LabelAdminMode      = "Mode Admin"
	LabelViewPrefix     = "Vue: "
	LabelDefaultStudent = "Élève"
	LabelUnknownStudent = "un élève"
)

// UserMenu is the header menu for the current viewer.
type UserMenu struct {
	Name    string
	Initial string

	// Modes is set for teachers only.
	Modes *ModeMenu
}

// ModeMenu is the teacher's "view as" selector.
type ModeMenu struct {
	Label   string
	Options []ModeOption
}

// ModeOption is one entry of the selector: admin mode or a roster student.
type ModeOption struct {
	Mode      ViewMode
	StudentID string
	Label     string
	Active    bool
}

// Banner is the floating preview bar shown to a teacher outside admin mode.
type Banner struct {
	StudentName string
	ReturnPath  string
}

// UserMenu builds the header menu, or nil without a session.
func (m *Manager) UserMenu(ctx context.Context) *UserMenu {
	s := m.CurrentSession(ctx)
	if s == nil {
		return nil
	}
	var roster []Student
	if s.IsTeacher() {
		roster = m.Roster(ctx)
	}
	return BuildUserMenu(s, roster)
}

// Banner builds the preview bar, or nil when it should not be shown.
func (m *Manager) Banner(ctx context.Context) *Banner {
	s := m.CurrentSession(ctx)
	if !s.IsTeacher() || s.IsAdminMode() {
		return nil
	}
	return BuildBanner(s, m.Roster(ctx), m.paths)
}

// BuildUserMenu derives the header menu from a session and roster.
func BuildUserMenu(s *Session, roster []Student) *UserMenu {
	if s == nil || s.User == nil {
		return nil
	}

	menu := &UserMenu{
		Name:    s.User.DisplayName(),
		Initial: s.User.Initial(),
	}
	if s.IsTeacher() {
		menu.Modes = buildModeMenu(s, roster)
	}
	return menu
}

func buildModeMenu(s *Session, roster []Student) *ModeMenu {
	target := s.TargetID()

	menu := &ModeMenu{Label: LabelAdminMode}
	if s.IsImpersonating() {
		name := LabelDefaultStudent
		if student, ok := findStudent(roster, target); ok {
			name = student.DisplayName()
		}
		menu.Label = LabelViewPrefix + name
	}

	menu.Options = make([]ModeOption, 0, len(roster)+1)
	menu.Options = append(menu.Options, ModeOption{
		Mode:   ViewModeAdmin,
		Label:  LabelAdminMode,
		Active: s.IsAdminMode(),
	})
	for _, student := range roster {
		menu.Options = append(menu.Options, ModeOption{
			Mode:      ViewModeStudent,
			StudentID: student.ID,
			Label:     student.DisplayName(),
			Active:    target != "" && target == student.ID,
		})
	}
	return menu
}

// BuildBanner derives the preview bar from a session and roster.
func BuildBanner(s *Session, roster []Student, paths Paths) *Banner {
	if !s.IsTeacher() || s.IsAdminMode() {
		return nil
	}

	name := LabelUnknownStudent
	if student, ok := findStudent(roster, s.ViewAsStudent); ok && s.ViewAsStudent != "" {
		name = student.DisplayName()
	}
	return &Banner{
		StudentName: name,
		ReturnPath:  paths.Admin(),
	}
}

package access

// MenuItem is a navigation entry, optionally with children.
type MenuItem struct {
	Key      string     `json:"key"                yaml:"key"`
	Title    string     `json:"title"              yaml:"title"`
	Action   Action     `json:"action"             yaml:"action"`
	Children []MenuItem `json:"children,omitempty" yaml:"children,omitempty"`
}

// DefaultMenu is the administration menu of the platform.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Key: "dashboard", Title: "Dashboard", Action: ActionViewDashboard},
		{Key: "learning", Title: "Learning", Action: ActionViewLearning, Children: []MenuItem{
			{Key: "formations", Title: "Formations", Action: ActionManageCourses},
			{Key: "certifications", Title: "Certifications", Action: ActionManageCertifications},
			{Key: "practicalSessions", Title: "Practical Sessions", Action: ActionManagePracticalSession},
		}},
		{Key: "events", Title: "Events", Action: ActionManageEvents},
		{Key: "actualites", Title: "News", Action: ActionManageNews},
		{Key: "analytics", Title: "Analytics", Action: ActionViewAnalytics},
		{Key: "management", Title: "Management", Action: ActionViewManagement, Children: []MenuItem{
			{Key: "instructors", Title: "Instructors", Action: ActionManageInstructors},
			{Key: "users", Title: "Users", Action: ActionManageUsers},
			{Key: "companies", Title: "Companies", Action: ActionManageCompanies},
		}},
		{Key: "settings", Title: "Settings", Action: ActionManageSettings},
		{Key: "profile", Title: "Profile", Action: ActionViewProfile},
	}
}

// FilterMenu keeps the entries p may see. A parent survives only when it is
// itself allowed and at least one of its children survives.
func FilterMenu(items []MenuItem, p *Principal) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if !CanPerform(item.Action, p) {
			continue
		}
		if len(item.Children) > 0 {
			children := FilterMenu(item.Children, p)
			if len(children) == 0 {
				continue
			}
			item.Children = children
		}
		out = append(out, item)
	}
	return out
}

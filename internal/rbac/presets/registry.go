package presets

import "business-service/internal/rbac"

// Preset is a named RBAC configuration constructor.
type Preset struct {
	Name   string
	Config func() rbac.Config
}

// All returns every registered preset. Add new presets here so they are
// automatically included in validation.
func All() []Preset {
	return []Preset{
		{Name: "business", Config: Business},
		{Name: "readonly", Config: ReadOnly},
	}
}

// Lookup returns the preset registered under name
func Lookup(name string) (Preset, bool) {
	for _, p := range All() {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// ReadOnly is the business universe with every non-admin role reduced to
// view permissions. It is meant for maintenance windows.
func ReadOnly() rbac.Config {
	views := []rbac.Permission{
		CustomerView, InvoiceView, QuoteView, ReportView, DashboardView,
	}
	return rbac.Config{
		Permissions: AllPermissions(),
		Roles: []rbac.RoleDefinition{
			{Name: RoleAdmin, AllPermissions: true},
			{Name: RoleManager, Permissions: append(views, UserView, SettingsView)},
			{Name: RoleUser, Permissions: append([]rbac.Permission(nil), views...)},
		},
	}
}

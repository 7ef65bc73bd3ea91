package presets

import "business-service/internal/rbac"

const (
	RoleAdmin   = rbac.RoleAdmin
	RoleManager = rbac.RoleManager
	RoleUser    = rbac.RoleUser
)

const (
	CustomerView   rbac.Permission = "customer:view"
	CustomerCreate rbac.Permission = "customer:create"
	CustomerEdit   rbac.Permission = "customer:edit"
	CustomerDelete rbac.Permission = "customer:delete"

	InvoiceView    rbac.Permission = "invoice:view"
	InvoiceCreate  rbac.Permission = "invoice:create"
	InvoiceEdit    rbac.Permission = "invoice:edit"
	InvoiceDelete  rbac.Permission = "invoice:delete"
	InvoiceApprove rbac.Permission = "invoice:approve"
	InvoiceSend    rbac.Permission = "invoice:send"

	QuoteView    rbac.Permission = "quote:view"
	QuoteCreate  rbac.Permission = "quote:create"
	QuoteEdit    rbac.Permission = "quote:edit"
	QuoteDelete  rbac.Permission = "quote:delete"
	QuoteApprove rbac.Permission = "quote:approve"
	QuoteConvert rbac.Permission = "quote:convert"

	UserView   rbac.Permission = "user:view"
	UserCreate rbac.Permission = "user:create"
	UserEdit   rbac.Permission = "user:edit"
	UserDelete rbac.Permission = "user:delete"

	ReportView   rbac.Permission = "report:view"
	ReportExport rbac.Permission = "report:export"

	SettingsView rbac.Permission = "settings:view"
	SettingsEdit rbac.Permission = "settings:edit"

	DashboardView rbac.Permission = "dashboard:view"
)

// AllPermissions is the business permission universe
func AllPermissions() []rbac.Permission {
	return []rbac.Permission{
		CustomerView, CustomerCreate, CustomerEdit, CustomerDelete,
		InvoiceView, InvoiceCreate, InvoiceEdit, InvoiceDelete, InvoiceApprove, InvoiceSend,
		QuoteView, QuoteCreate, QuoteEdit, QuoteDelete, QuoteApprove, QuoteConvert,
		UserView, UserCreate, UserEdit, UserDelete,
		ReportView, ReportExport,
		SettingsView, SettingsEdit,
		DashboardView,
	}
}

// Business returns the RBAC configuration for the customer/invoice/quote
// application. Admin is granted the whole universe.
func Business() rbac.Config {
	return rbac.Config{
		Permissions: AllPermissions(),
		Roles: []rbac.RoleDefinition{
			{Name: RoleAdmin, AllPermissions: true},
			{
				Name: RoleManager,
				Permissions: []rbac.Permission{
					CustomerView, CustomerCreate, CustomerEdit, CustomerDelete,
					InvoiceView, InvoiceCreate, InvoiceEdit, InvoiceApprove, InvoiceSend,
					QuoteView, QuoteCreate, QuoteEdit, QuoteDelete, QuoteApprove, QuoteConvert,
					UserView,
					ReportView, ReportExport,
					SettingsView,
					DashboardView,
				},
			},
			{
				Name: RoleUser,
				Permissions: []rbac.Permission{
					CustomerView, CustomerCreate, CustomerEdit,
					InvoiceView, InvoiceCreate,
					QuoteView, QuoteCreate, QuoteEdit,
					DashboardView,
				},
			},
		},
	}
}

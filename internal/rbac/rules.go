package rbac

const (
	RoleRespondent = "respondent"
	RoleAdmin      = "admin"
)

const (
	PermAssessmentView = "assessment:view"
	PermAssessmentEdit = "assessment:edit"
	PermReportExport   = "report:export"
	PermReportArchive  = "report:archive"
	PermPlaybookView   = "playbook:view"
	PermPlaybookAdmin  = "playbook:admin"
)

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	RoleRespondent: {
		"assessment:*",
		"report:*",
		PermPlaybookView,
	},
	RoleAdmin: {
		"*", // everything
	},
}

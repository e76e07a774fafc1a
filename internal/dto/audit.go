package dto

// AuditQuery pages through an entity's audit trail.
type AuditQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// AuditExportQuery selects trail rows and the rendering format.
type AuditExportQuery struct {
	Format string `form:"format"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

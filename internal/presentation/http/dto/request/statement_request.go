package request

// StatementRequest selects one page of a customer's statement
type StatementRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}

// ExportStatementRequest picks the file format of a statement download
type ExportStatementRequest struct {
	Format string `form:"format"`
}

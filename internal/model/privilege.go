package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "draft:finalize"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivDraftView     = "draft:view"
	PrivDraftCreate   = "draft:create"
	PrivDraftUpdate   = "draft:update"
	PrivDraftCancel   = "draft:cancel"
	PrivDraftFinalize = "draft:finalize"
	PrivSaleView      = "sale:view"
	PrivInvoiceView   = "invoice:view"
	PrivInvoiceExport = "invoice:export"
	PrivCustomerView  = "customer:view"
	PrivCustomerEdit  = "customer:create"
	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivStockAdjust   = "stock:adjust"
	PrivActivityView  = "activity:view"
	PrivRoleView      = "role:view"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivDraftView, Name: "View Drafts"},
	{Code: PrivDraftCreate, Name: "Create Draft"},
	{Code: PrivDraftUpdate, Name: "Update Draft"},
	{Code: PrivDraftCancel, Name: "Cancel Draft"},
	{Code: PrivDraftFinalize, Name: "Finalize Draft"},
	{Code: PrivSaleView, Name: "View Sales"},
	{Code: PrivInvoiceView, Name: "View Invoices"},
	{Code: PrivInvoiceExport, Name: "Export Invoices"},
	{Code: PrivCustomerView, Name: "View Customers"},
	{Code: PrivCustomerEdit, Name: "Create Customer"},
	{Code: PrivProductView, Name: "View Catalog"},
	{Code: PrivProductCreate, Name: "Create Catalog Item"},
	{Code: PrivProductUpdate, Name: "Update Catalog Item"},
	{Code: PrivStockAdjust, Name: "Adjust Stock"},
	{Code: PrivActivityView, Name: "View Activity Log"},
	{Code: PrivRoleView, Name: "View Roles and Privileges"},
}

// CashierPrivileges is what the CASHIER role receives on seed.
var CashierPrivileges = []string{
	PrivDraftView, PrivDraftCreate, PrivDraftUpdate, PrivDraftCancel, PrivDraftFinalize,
	PrivSaleView, PrivInvoiceView, PrivCustomerView, PrivProductView,
}

package handler

import (
	"go-erp-sales/internal/middleware"
	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
	"go-erp-sales/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Router bundles the handlers mounted under /api/v1.
type Router struct {
	Auth      *AuthHandler
	Drafts    *DraftHandler
	Sales     *SalesHandler
	Customers *CustomerHandler
	Inventory *InventoryHandler
	Roles     *RoleHandler
	Users     repository.UserRepository
	Tokens    *jwt.Manager
}

func (r *Router) Register(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", r.Auth.Login)
	auth.Post("/reset-password", r.Auth.ResetPassword)
	auth.Post("/validate-token", r.Auth.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(r.Users, r.Tokens))

	// Drafts
	protected.Post("/drafts", middleware.RequirePrivilege(model.PrivDraftCreate), r.Drafts.CreateDraft)
	protected.Get("/drafts", middleware.RequirePrivilege(model.PrivDraftView), r.Drafts.GetDrafts)
	protected.Get("/drafts/:id", middleware.RequirePrivilege(model.PrivDraftView), r.Drafts.GetDraft)
	protected.Put("/drafts/:id", middleware.RequirePrivilege(model.PrivDraftUpdate), r.Drafts.UpdateDraft)
	protected.Patch("/drafts/:id/status", middleware.RequirePrivilege(model.PrivDraftUpdate), r.Drafts.UpdateDraftStatus)
	protected.Post("/drafts/:id/cancel", middleware.RequirePrivilege(model.PrivDraftCancel), r.Drafts.CancelDraft)
	protected.Post("/drafts/:id/finalize", middleware.RequirePrivilege(model.PrivDraftFinalize), r.Drafts.FinalizeDraft)

	// Sales and invoices
	protected.Get("/sales/:id", middleware.RequirePrivilege(model.PrivSaleView), r.Sales.GetSale)
	protected.Get("/invoices/:id", middleware.RequirePrivilege(model.PrivInvoiceView), r.Sales.GetInvoice)
	protected.Get("/invoices/:id/export", middleware.RequirePrivilege(model.PrivInvoiceExport), r.Sales.ExportInvoice)

	// Customers
	protected.Post("/customers", middleware.RequirePrivilege(model.PrivCustomerEdit), r.Customers.CreateCustomer)
	protected.Get("/customers", middleware.RequirePrivilege(model.PrivCustomerView), r.Customers.GetCustomers)
	protected.Get("/customers/:id", middleware.RequirePrivilege(model.PrivCustomerView), r.Customers.GetCustomer)
	protected.Get("/customers/:id/balance-history", middleware.RequirePrivilege(model.PrivCustomerView), r.Customers.GetBalanceHistory)

	// Catalog and stock
	protected.Get("/products", middleware.RequirePrivilege(model.PrivProductView), r.Inventory.GetProducts)
	protected.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), r.Inventory.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege(model.PrivProductUpdate), r.Inventory.UpdateProduct)
	protected.Get("/products/:id/movements", middleware.RequirePrivilege(model.PrivProductView), r.Inventory.GetProductMovements)
	protected.Get("/motorcycles", middleware.RequirePrivilege(model.PrivProductView), r.Inventory.GetMotorcycles)
	protected.Post("/motorcycles", middleware.RequirePrivilege(model.PrivProductCreate), r.Inventory.CreateMotorcycle)
	protected.Post("/stock-adjustments", middleware.RequirePrivilege(model.PrivStockAdjust), r.Inventory.AdjustStock)
	protected.Get("/activities", middleware.RequirePrivilege(model.PrivActivityView), r.Inventory.GetActivities)

	// Roles and privileges
	if r.Roles != nil {
		protected.Get("/roles", middleware.RequirePrivilege(model.PrivRoleView), r.Roles.GetRoles)
		protected.Get("/privileges", middleware.RequirePrivilege(model.PrivRoleView), r.Roles.GetPrivileges)
	}
}

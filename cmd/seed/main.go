package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"go-erp-sales/internal/config"
	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
	"go-erp-sales/internal/service"
	"go-erp-sales/internal/ws"
	"go-erp-sales/pkg/database"
	applog "go-erp-sales/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	withDemo := flag.Bool("demo", false, "also create demo products, motorcycles and a customer")
	resetAdmin := flag.Bool("reset-admin", false, "reset the admin password to SEED_ADMIN_PASSWORD")
	flag.Parse()

	cfg := config.Load()
	zl, err := applog.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	db, err := database.ConnectDB(cfg.DSN(), false)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}

	ctx := context.Background()
	if err := repository.AutoMigrate(ctx, db); err != nil {
		zl.Fatal("migrate", zap.Error(err))
	}

	if err := seedAccess(ctx, db, cfg, zl); err != nil {
		zl.Fatal("seed roles and admin", zap.Error(err))
	}

	if *resetAdmin {
		if err := resetAdminPassword(ctx, db, cfg); err != nil {
			zl.Fatal("reset admin password", zap.Error(err))
		}
		zl.Info("admin password reset", zap.String("email", cfg.SeedAdminEmail))
	}

	if *withDemo {
		if err := seedDemo(ctx, repository.NewStore(db), zl); err != nil {
			zl.Fatal("seed demo data", zap.Error(err))
		}
	}

	zl.Info("seed complete")
}

// seedAccess creates default privileges, roles and the admin user if they
// don't exist yet.
func seedAccess(ctx context.Context, db *gorm.DB, cfg config.Config, zl *zap.Logger) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		return err
	}
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		return err
	}

	allPrivileges, err := privilegeRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	adminRole, err := roleRepo.FindByCode(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	if len(adminRole.Privileges) == 0 {
		if err := roleRepo.AssignPrivileges(ctx, model.RoleAdmin, allPrivileges); err != nil {
			return err
		}
		zl.Info("ADMIN role assigned all privileges", zap.Int("count", len(allPrivileges)))
	}

	cashierRole, err := roleRepo.FindByCode(ctx, model.RoleCashier)
	if err != nil {
		return err
	}
	if len(cashierRole.Privileges) == 0 {
		cashierPrivileges, err := privilegeRepo.FindByCodes(ctx, model.CashierPrivileges)
		if err != nil {
			return err
		}
		if err := roleRepo.AssignPrivileges(ctx, model.RoleCashier, cashierPrivileges); err != nil {
			return err
		}
		zl.Info("CASHIER role assigned privileges", zap.Int("count", len(cashierPrivileges)))
	}

	_, err = userRepo.FindByEmail(ctx, cfg.SeedAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	admin := &model.User{
		Email:    cfg.SeedAdminEmail,
		FullName: "Administrator",
		Language: "en",
		RoleID:   &adminRole.ID,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(cfg.SeedAdminPassword); err != nil {
		return err
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}
	zl.Info("admin user created", zap.String("email", admin.Email))
	return nil
}

func resetAdminPassword(ctx context.Context, db *gorm.DB, cfg config.Config) error {
	userRepo := repository.NewUserRepo(db)
	user, err := userRepo.FindByEmail(ctx, cfg.SeedAdminEmail)
	if err != nil {
		return err
	}
	if err := user.SetPassword(cfg.SeedAdminPassword); err != nil {
		return err
	}
	if err := userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	return userRepo.UpdateTokenVersion(ctx, user.ID, uuid.NewString())
}

func seedDemo(ctx context.Context, store repository.Store, zl *zap.Logger) error {
	actor := service.Actor{ID: "system", Name: "Seeder"}
	inventory := service.NewInventoryService(store, ws.NopNotifier{}, zl)
	customers := service.NewCustomerService(store, zl)

	products := []service.ProductInput{
		{SKU: "OIL-10W40", Name: "Engine Oil 10W-40 1L", StockQuantity: 120, Unit: "bottle", Price: decimal.NewFromInt(8000)},
		{SKU: "TIRE-F-90", Name: "Front Tire 90/90-18", StockQuantity: 24, Unit: "pcs", Price: decimal.NewFromInt(45000)},
		{SKU: "BRK-PAD-01", Name: "Brake Pad Set", StockQuantity: 4, Unit: "set", Price: decimal.NewFromInt(15000)},
	}
	for _, p := range products {
		if _, err := inventory.CreateProduct(ctx, p, actor); err != nil && !errors.Is(err, service.ErrSKUTaken) {
			return err
		}
	}

	motorcycles := []service.MotorcycleInput{
		{SKU: "MC-CG125-RED", Brand: "Honda", Model: "CG125", Year: 2024, Color: "Red", StockQuantity: 3, Price: decimal.NewFromInt(1150)},
		{SKU: "MC-YBR-BLK", Brand: "Yamaha", Model: "YBR125", Year: 2023, Color: "Black", StockQuantity: 2, Price: decimal.NewFromInt(1400)},
	}
	for _, m := range motorcycles {
		if _, err := inventory.CreateMotorcycle(ctx, m, actor); err != nil && !errors.Is(err, service.ErrSKUTaken) {
			return err
		}
	}

	_, err := customers.Create(ctx, service.CustomerInput{
		Name:         "Karwan Auto Parts",
		SKU:          "1001",
		Phone:        "0750 123 4567",
		NotifyOnSale: true,
	}, actor)
	if err != nil && !errors.Is(err, service.ErrSKUTaken) {
		return err
	}
	return nil
}

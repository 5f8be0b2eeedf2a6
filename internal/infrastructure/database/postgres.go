package database

import (
	"fmt"
	"strings"

	"github.com/sangkips/storefront-api/internal/config"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Permission names checked by the HTTP layer
const (
	PermManageCustomers = "manage-customers"
	PermManageProducts  = "manage-products"
	PermManageOrders    = "manage-orders"
	PermManagePayments  = "manage-payments"
	PermManageRegisters = "manage-registers"
	PermViewStatements  = "view-statements"
)

// Role names
const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
	RoleCashier    = "cashier"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},
		&entity.Tenant{},
		&entity.TenantMembership{},

		&entity.Register{},
		&entity.Product{},
		&entity.Customer{},

		&entity.Order{},
		&entity.OrderDetail{},
		&entity.Payment{},

		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// Seed describes the optional super admin created at boot
type Seed struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// SeedDefaultData creates the permissions, the roles and, when configured,
// a super admin user. Existing rows are left alone.
func SeedDefaultData(db *gorm.DB, seed Seed, log *zap.Logger) error {
	log.Info("seeding default data")

	names := []string{
		PermManageCustomers,
		PermManageProducts,
		PermManageOrders,
		PermManagePayments,
		PermManageRegisters,
		PermViewStatements,
	}
	for _, name := range names {
		perm := entity.Permission{Name: name, GuardName: "web"}
		if err := db.Where(entity.Permission{Name: name}).FirstOrCreate(&perm).Error; err != nil {
			return fmt.Errorf("seed permission %s: %w", name, err)
		}
	}

	var all []entity.Permission
	if err := db.Find(&all).Error; err != nil {
		return fmt.Errorf("load permissions: %w", err)
	}

	roles := map[string][]string{
		RoleSuperAdmin: names,
		RoleAdmin:      names,
		RoleCashier:    {PermManageCustomers, PermManageOrders, PermManagePayments, PermViewStatements},
	}
	for roleName, permNames := range roles {
		if err := seedRole(db, roleName, pick(all, permNames)); err != nil {
			return err
		}
	}

	if seed.AdminEmail == "" || seed.AdminPassword == "" {
		log.Info("default data seeding completed")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", seed.AdminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("look up super admin: %w", err)
	}
	if count > 0 {
		log.Info("super admin already exists", zap.String("email", seed.AdminEmail))
		return nil
	}

	hashed, err := utils.HashPassword(seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash super admin password: %w", err)
	}

	var saRole entity.Role
	if err := db.Where("name = ?", RoleSuperAdmin).First(&saRole).Error; err != nil {
		return fmt.Errorf("load super-admin role: %w", err)
	}

	name := seed.AdminName
	if name == "" {
		name = "Super Admin"
	}
	firstName, lastName, _ := strings.Cut(name, " ")

	admin := entity.User{
		FirstName: firstName,
		LastName:  lastName,
		Username:  seed.AdminEmail,
		Email:     seed.AdminEmail,
		Password:  hashed,
		Roles:     []entity.Role{saRole},
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}

	log.Info("super admin created", zap.String("email", seed.AdminEmail))
	return nil
}

func seedRole(db *gorm.DB, name string, perms []entity.Permission) error {
	var role entity.Role
	err := db.Where("name = ?", name).First(&role).Error
	if err == nil {
		return nil
	}
	role = entity.Role{Name: name, GuardName: "web", Permissions: perms}
	if err := db.Create(&role).Error; err != nil {
		return fmt.Errorf("seed role %s: %w", name, err)
	}
	return nil
}

func pick(all []entity.Permission, names []string) []entity.Permission {
	var out []entity.Permission
	for _, name := range names {
		for _, p := range all {
			if p.Name == name {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

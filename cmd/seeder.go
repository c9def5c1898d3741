package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/elitehr/elite-time/internal/authz"
	pageDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/page"
	settingsDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/settings"
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"github.com/elitehr/elite-time/internal/permission"
)

var seedClear bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed reference data",
	Long:  `Seed permissions, pages and the initial admin account. Safe to re-run; existing rows are kept.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := gorm.Open(gormpostgres.Open(cfg.Database.Source), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open db: %v", err)
		}

		if seedClear {
			for _, table := range []string{"page_permissions", "pages", "user_permissions", "permissions"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared reference data")
		}

		seedPermissions(db)
		seedPages(db)
		seedAdmin(db)
		seedSettings(db)

		fmt.Println("Seed complete")
	},
}

func seedPermissions(db *gorm.DB) {
	for _, def := range permission.Definitions {
		var existing userDatamodel.Permission
		err := db.Where("name = ?", def.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to check permission %s: %v", def.Name, err)
		}
		row := userDatamodel.Permission{
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
		}
		if err := db.Create(&row).Error; err != nil {
			log.Fatalf("failed to insert permission %s: %v", def.Name, err)
		}
		fmt.Println("Seeded permission:", def.Name)
	}
}

func seedPages(db *gorm.DB) {
	for _, page := range authz.Registry {
		var row pageDatamodel.Page
		err := db.Where("code = ?", page.Code).First(&row).Error
		if err == gorm.ErrRecordNotFound {
			row = pageDatamodel.Page{
				Code:         page.Code,
				Path:         page.Path,
				Title:        page.Title,
				AllowedRoles: strings.Join(page.AllowedRoles, ","),
			}
			if err := db.Create(&row).Error; err != nil {
				log.Fatalf("failed to insert page %s: %v", page.Code, err)
			}
			fmt.Println("Seeded page:", page.Code)
		} else if err != nil {
			log.Fatalf("failed to check page %s: %v", page.Code, err)
		} else {
			row.Path = page.Path
			row.Title = page.Title
			row.AllowedRoles = strings.Join(page.AllowedRoles, ",")
			if err := db.Save(&row).Error; err != nil {
				log.Fatalf("failed to update page %s: %v", page.Code, err)
			}
		}

		for _, permName := range page.RequiredPermissions {
			var perm userDatamodel.Permission
			if err := db.Where("name = ?", permName).First(&perm).Error; err != nil {
				log.Fatalf("page %s requires unknown permission %s: %v", page.Code, permName, err)
			}
			var link pageDatamodel.PagePermission
			err := db.Where("page_id = ? AND permission_id = ?", row.ID, perm.ID).First(&link).Error
			if err == gorm.ErrRecordNotFound {
				link = pageDatamodel.PagePermission{PageID: row.ID, PermissionID: perm.ID}
				if err := db.Create(&link).Error; err != nil {
					log.Fatalf("failed to link page %s to %s: %v", page.Code, permName, err)
				}
			} else if err != nil {
				log.Fatalf("failed to check page permission: %v", err)
			}
		}
	}
}

func seedAdmin(db *gorm.DB) {
	const adminEmail = "admin@elitetime.local"

	var existing userDatamodel.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		fmt.Println("Admin user already exists:", adminEmail)
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("failed to check admin user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123!"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	row := userDatamodel.User{
		Email:        adminEmail,
		Name:         "System Administrator",
		PasswordHash: string(hash),
		Role:         permission.RoleAdmin,
		Status:       "active",
	}
	if err := db.Create(&row).Error; err != nil {
		log.Fatalf("failed to insert admin user: %v", err)
	}
	fmt.Println("Seeded admin user:", adminEmail, "(change the password after first login)")
}

func seedSettings(db *gorm.DB) {
	var existing settingsDatamodel.SystemSettings
	err := db.Where("id = ?", settingsDatamodel.SingletonID).First(&existing).Error
	if err == nil {
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("failed to check settings: %v", err)
	}

	row := settingsDatamodel.SystemSettings{
		ID:                       settingsDatamodel.SingletonID,
		WorkDayStart:             "09:00",
		WorkDayEnd:               "18:00",
		BreakDurationMinutes:     60,
		OvertimeThresholdMinutes: 480,
		LateAlertsEnabled:        true,
		BreakRemindersEnabled:    true,
		LdapSyncEnabled:          false,
		LdapSyncIntervalMinutes:  60,
	}
	if err := db.Create(&row).Error; err != nil {
		log.Fatalf("failed to insert settings: %v", err)
	}
	fmt.Println("Seeded default settings")
}

package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/elitehr/elite-time/internal/activity"
	activityPostgres "github.com/elitehr/elite-time/internal/activity/postgres"
	"github.com/elitehr/elite-time/internal/ldap"
	"github.com/elitehr/elite-time/internal/permission"
	permissionPostgres "github.com/elitehr/elite-time/internal/permission/postgres"
	"github.com/elitehr/elite-time/internal/settings"
	settingsPostgres "github.com/elitehr/elite-time/internal/settings/postgres"
	userPostgres "github.com/elitehr/elite-time/internal/user/postgres"
	"github.com/elitehr/elite-time/pkg/logger"
)

// syncCmd runs one directory sync and exits. The cooldown gate applies
// here exactly as it does to the HTTP trigger.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one LDAP directory sync",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		if !cfg.LDAP.Configured() {
			log.Fatal("ldap is not configured")
		}

		logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
		lg := logger.LoggerWrapper()

		db, err := gorm.Open(gormpostgres.Open(cfg.Database.Source), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open db: %v", err)
		}

		recorder := activity.NewRecorder(activityPostgres.NewActivityRepository(db), lg)
		settingsService := settings.NewService(settingsPostgres.NewSettingsRepository(db), recorder, lg)
		permissionService := permission.NewService(permissionPostgres.NewPermissionRepository(db), lg)
		userRepo := userPostgres.NewUserRepository(db)

		syncService := ldap.NewSyncService(ldap.NewClient(cfg.LDAP), userRepo, settingsService, permissionService, recorder, lg)

		result, err := syncService.Sync(context.Background(), 0)
		if err != nil {
			log.Fatalf("sync failed: %v", err)
		}
		fmt.Printf("Synced %d users at %s\n", result.SyncedCount, result.LastSyncAt.Format("2006-01-02 15:04:05"))
	},
}

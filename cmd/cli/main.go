package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/worklane/worklane/internal/engine/conf"
	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/pkg/database"
	"github.com/worklane/worklane/pkg/id"
	"github.com/worklane/worklane/pkg/log"
	"github.com/worklane/worklane/pkg/version"
)

/**
 * @time: 2025/11/02
 * @file: main.go
 * @description: cli program
 */

var configDir string

var rootCmd = &cobra.Command{
	Use:   "worklane-cli",
	Short: "worklane cli is a command line tool",
	Long:  "worklane cli is a command line tool",
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			return
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		return db.AutoMigrate(
			&model.User{},
			&model.Organization{},
			&model.OrganizationMember{},
			&model.OrganizationInvitation{},
			&model.AccountLockout{},
			&model.Task{},
			&model.TimeEntry{},
		)
	},
}

var (
	adminPassword string

	createAdminCmd = &cobra.Command{
		Use:   "create-admin",
		Short: "Create the system administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConf := conf.NewConf(configDir)
			if appConf.App.SystemAdminEmail == "" {
				return fmt.Errorf("app.systemAdminEmail is not configured")
			}
			if adminPassword == "" {
				return fmt.Errorf("--password is required")
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			admin := &model.User{
				UserId:   id.GetUUIDWithoutDashes(),
				Username: "admin",
				Email:    appConf.App.SystemAdminEmail,
				Password: string(hash),
				Status:   1,
				IsAdmin:  true,
			}
			if err := db.Create(admin).Error; err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Printf("admin created: %s (%s)\n", admin.UserId, admin.Email)
			return nil
		},
	}
)

func openDatabase() (*gorm.DB, error) {
	appConf := conf.NewConf(configDir)
	logger, err := log.NewLog(&appConf.Log)
	if err != nil {
		return nil, err
	}
	return database.NewDatabase(appConf.Database, logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "conf", "conf.d", "config file path")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "initial admin password")

	rootCmd.AddCommand(version.VersionCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}

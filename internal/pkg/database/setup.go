package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ManuelReschke/BlockHolder/app/models"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/logger"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

// GetDB returns the shared connection. SetupDatabase must have run.
func GetDB() *gorm.DB {
	return DB
}

func SetupDatabase() {
	var err error
	log := logger.For("database")
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,   // data source name
			DefaultStringSize:         256,   // default size for string fields
			DisableDatetimePrecision:  true,  // disable datetime precision, which not supported before MySQL 5.6
			DontSupportRenameIndex:    true,  // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
			DontSupportRenameColumn:   true,  // `change` when rename column, rename column not supported before MySQL 8, MariaDB
			SkipInitializeWithVersion: false, // auto configure based on currently MySQL version
		}), &gorm.Config{})
		if err == nil {
			if err = DB.AutoMigrate(
				&models.User{},
				&models.ProviderAccount{},
				&models.BillingSubscription{},
				&models.BillingUsage{},
				&models.BillingPaymentMethod{},
				&models.BillingTransaction{},
				&models.BillingReferral{},
				&models.Feedback{},
			); err != nil {
				log.Error().Err(err).Msg("auto migration failed")
			}
			return
		}

		log.Warn().Err(err).Int("try", i+1).Int("max", maxRetries).Msg("failed to connect to database")
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

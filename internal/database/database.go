package database

import (
	"fmt"

	"github.com/Dias221467/HabitFlow/internal/config"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/internal/repository/sqlstore"
	"github.com/Dias221467/HabitFlow/pkg/logger"
)

// Open returns the stores for the configured DB_DRIVER.
func Open(cfg *config.Config) (repository.Stores, error) {
	switch cfg.DBDriver {
	case "mongo", "":
		db, err := ConnectDB(cfg)
		if err != nil {
			return repository.Stores{}, err
		}
		return MongoStores(db), nil
	case "sqlite":
		return openSQL(sqlstore.DriverSQLite, cfg.DatabaseURL)
	case "postgres":
		return openSQL(sqlstore.DriverPostgres, cfg.DatabaseURL)
	default:
		return repository.Stores{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

func openSQL(driver, dsn string) (repository.Stores, error) {
	store, err := sqlstore.Open(driver, dsn)
	if err != nil {
		return repository.Stores{}, err
	}
	logger.Log.WithField("driver", driver).Info("Connected to SQL database")
	return store.Stores(), nil
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/store"
	"github.com/kozaktomas/face-attendance/internal/store/mariadb"
	"github.com/kozaktomas/face-attendance/internal/store/memory"
	"github.com/kozaktomas/face-attendance/internal/store/postgres"
)

// openStore opens the attendance store selected by DATABASE_DRIVER.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.URL == "" {
			return nil, errors.New("DATABASE_URL environment variable is required")
		}
		return postgres.Open(&cfg.Database)
	case "mysql", "mariadb":
		if cfg.Database.URL == "" {
			return nil, errors.New("DATABASE_URL environment variable is required")
		}
		return mariadb.Open(&cfg.Database)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q (want postgres, mysql or memory)", cfg.Database.Driver)
	}
}

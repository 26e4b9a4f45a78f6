package equarium

import (
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/spf13/viper"

	"github.com/kvar-ae/equarium/db"
)

// WithOptions applies a series of configuration functions to the catalog instance.
// Each option function can modify the catalog configuration and return an error if it fails.
func (catalog *Catalog) WithOptions(options ...func(*Catalog) error) error {
	for _, option := range options {
		err := option(catalog)
		if err != nil {
			return fmt.Errorf("applying option on equarium : %w", err)
		}
	}
	return nil
}

// WithConfigDir configures the catalog to use the specified configuration directory.
// It creates the directory if it doesn't exist and initializes the configuration file using Viper.
func WithConfigDir(appConfigDir string) func(*Catalog) error {
	return func(catalog *Catalog) error {
		_, err := os.ReadDir(appConfigDir)
		if err != nil {
			if os.IsNotExist(err) {
				catalog.Logger.Info("creating config dir", "dir", appConfigDir)
				err := os.MkdirAll(appConfigDir, 0700)
				if err != nil {
					return fmt.Errorf("creating config dir %s: %w", appConfigDir, err)
				}
			} else {
				return fmt.Errorf("checking if directory exists %s: %w", appConfigDir, err)
			}
		}
		// At this point, the directory exists or was created successfully
		catalog.ConfigDir = appConfigDir

		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(appConfigDir)
		v.SetDefault("default_address", "127.0.0.1")
		v.SetDefault("default_port", "8340")
		v.SetDefault("database_file", "equarium.db")
		v.SetDefault("reveal_millis", 400)
		err = v.ReadInConfig()
		if err != nil {
			// need to check if the error is config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				// Config file is not found
				err = v.SafeWriteConfig()
				if err != nil {
					return fmt.Errorf("writing config file : %w", err)
				}
			} else {
				return fmt.Errorf("reading config file : %w", err)
			}
		}
		catalog.Config = &Config{viper: v}
		if err := v.Unmarshal(catalog.Config); err != nil {
			return fmt.Errorf("unmarshalling config to struct : %w", err)
		}

		catalog.Config.ConfigDir = appConfigDir
		v.Set("config_dir", appConfigDir)
		// Rewrite entire file from struct
		err = v.WriteConfig()
		if err != nil {
			return fmt.Errorf("writing config after unmarshalling : %w", err)
		}

		catalog.Addr = catalog.Config.DefaultAddress
		catalog.Port = catalog.Config.DefaultPort
		return nil
	}
}

// WithDatabase opens the SQLite database inside the configured directory,
// applies pending migrations, and installs the repository on the catalog.
// It requires WithConfigDir to have been applied first.
func WithDatabase() func(*Catalog) error {
	return func(catalog *Catalog) error {
		if catalog.Config == nil {
			return fmt.Errorf("catalog has no config dir; apply WithConfigDir first")
		}
		dbConn, err := db.New(path.Join(catalog.ConfigDir, catalog.Config.DatabaseFile))
		if err != nil {
			return fmt.Errorf("opening catalog database : %w", err)
		}
		catalog.Repo = db.NewCatalogRepo(dbConn)
		return nil
	}
}

// WithRepository installs an externally constructed repository on the catalog.
func WithRepository(repo Repository) func(*Catalog) error {
	return func(catalog *Catalog) error {
		if catalog.Repo != nil {
			return fmt.Errorf("catalog already has a repository configured")
		}
		catalog.Repo = repo
		return nil
	}
}

// WithAddress overrides the listen address and port for this instance without
// persisting them.
func WithAddress(address string, port string) func(*Catalog) error {
	return func(catalog *Catalog) error {
		catalog.Addr = address
		catalog.Port = port
		return nil
	}
}

// WithLogger installs a custom operational logger. A nil logger falls back to
// the default.
func WithLogger(logger *slog.Logger) func(*Catalog) error {
	return func(catalog *Catalog) error {
		if logger == nil {
			logger = slog.Default()
		}
		catalog.Logger = logger
		return nil
	}
}

// WithSeed populates the repository with the reference equation set if and
// only if the catalog is currently empty. It requires a repository.
func WithSeed() func(*Catalog) error {
	return func(catalog *Catalog) error {
		if catalog.Repo == nil {
			return fmt.Errorf("catalog has no repository; apply WithDatabase or WithRepository first")
		}
		seeded, err := Seed(catalog.Repo)
		if err != nil {
			return fmt.Errorf("seeding catalog : %w", err)
		}
		catalog.Seeded = seeded
		if seeded {
			catalog.Logger.Info("seeded reference equation set")
		}
		return nil
	}
}

package equarium

import (
	"bytes"
	"log/slog"
	"os"
	"path"
	"strings"
	"testing"
)

func TestWithLogger(t *testing.T) {
	t.Run("sets custom logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		c, err := New(
			WithLogger(logger),
		)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if c.Logger != logger {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", logger, c.Logger)
		}

		c.Logger.Info("test log message")
		if !strings.Contains(buf.String(), "test log message") {
			t.Fatalf("\nwanted:\nlog output containing 'test log message'\ngot:\n%q", buf.String())
		}
	})

	t.Run("handles nil logger safely", func(t *testing.T) {
		c, err := New(
			WithLogger(nil),
		)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if c.Logger == nil {
			t.Fatalf("\nwanted:\nnon-nil logger\ngot:\nnil")
		}

		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("\nwanted:\nno panic\ngot:\n%v", r)
			}
		}()

		c.Logger.Info("safe check")
	})
}

func TestWithConfigDir(t *testing.T) {
	t.Run("should create the config dir and apply defaults", func(t *testing.T) {
		configDir := path.Join(t.TempDir(), "equarium")

		c, err := New(
			WithConfigDir(configDir),
		)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if _, err := os.Stat(configDir); err != nil {
			t.Fatalf("\nwanted:\nconfig dir to exist\ngot:\n%v", err)
		}

		if _, err := os.Stat(path.Join(configDir, "config.yaml")); err != nil {
			t.Fatalf("\nwanted:\nconfig file to exist\ngot:\n%v", err)
		}

		if c.Config.DefaultAddress != "127.0.0.1" {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", "127.0.0.1", c.Config.DefaultAddress)
		}
		if c.Config.DatabaseFile != "equarium.db" {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", "equarium.db", c.Config.DatabaseFile)
		}
		if c.Config.RevealMillis != 400 {
			t.Fatalf("\nwanted:\n400\ngot:\n%d", c.Config.RevealMillis)
		}
		if c.Addr != c.Config.DefaultAddress || c.Port != c.Config.DefaultPort {
			t.Fatalf("\nwanted:\nlisten address from config\ngot:\n%s:%s", c.Addr, c.Port)
		}
	})
}

func TestWithDatabaseAndSeed(t *testing.T) {
	t.Run("should open the database inside the config dir and seed it once", func(t *testing.T) {
		configDir := path.Join(t.TempDir(), "equarium")

		c, err := New(
			WithConfigDir(configDir),
			WithDatabase(),
			WithSeed(),
		)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		defer c.Close()

		if !c.Seeded {
			t.Fatalf("\nwanted:\nSeeded to be true on first startup\ngot:\nfalse")
		}

		count, err := c.Repo.CountEquations()
		if err != nil {
			t.Fatalf("counting equations: %v", err)
		}
		if count == 0 {
			t.Fatalf("\nwanted:\na seeded catalog\ngot:\n0 equations")
		}
	})

	t.Run("should error when seeding without a repository", func(t *testing.T) {
		_, err := New(
			WithSeed(),
		)
		if err == nil {
			t.Fatalf("\nwanted:\nan error\ngot:\nnil")
		}
	})
}

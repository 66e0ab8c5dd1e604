package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		c := New()

		So(c.Addr, ShouldEqual, ":9080")
		So(c.LogLevel, ShouldEqual, "info")
		So(c.WorkerCount, ShouldBeGreaterThan, 0)
		So(c.Rounds, ShouldEqual, 2)
		So(c.FeeBurnShare+c.FeeTreasuryShare+c.FeeSellerShare, ShouldAlmostEqual, 1.0, 0.001)
	})
}

func TestLoadLayering(t *testing.T) {
	ctx := context.Background()

	Convey("Given no overrides, defaults come back", t, func() {
		os.Unsetenv("CALCIO_CONFIG")
		c, err := Load(ctx)
		So(err, ShouldBeNil)
		So(c.Addr, ShouldEqual, ":9080")
	})

	Convey("Given a YAML file, its values override defaults", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "calcio.yaml")
		yaml := "addr: \":7070\"\nrounds: 1\nseed: 42\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
		os.Setenv("CALCIO_CONFIG", path)
		defer os.Unsetenv("CALCIO_CONFIG")

		c, err := Load(ctx)
		So(err, ShouldBeNil)
		So(c.Addr, ShouldEqual, ":7070")
		So(c.Rounds, ShouldEqual, 1)
		So(c.Seed, ShouldEqual, 42)
		So(c.MinRoster, ShouldEqual, 11) // untouched default
	})

	Convey("Given env vars, they override the file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "calcio.yaml")
		So(os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600), ShouldBeNil)
		os.Setenv("CALCIO_CONFIG", path)
		os.Setenv("CALCIO_ADDR", ":6060")
		defer func() {
			os.Unsetenv("CALCIO_CONFIG")
			os.Unsetenv("CALCIO_ADDR")
		}()

		c, err := Load(ctx)
		So(err, ShouldBeNil)
		So(c.Addr, ShouldEqual, ":6060")
	})
}

func TestValidation(t *testing.T) {
	ctx := context.Background()

	Convey("Given invalid settings", t, func() {
		Convey("fee shares that do not sum to 1 are rejected", func() {
			os.Setenv("CALCIO_FEE_BURN_SHARE", "0.9")
			defer os.Unsetenv("CALCIO_FEE_BURN_SHARE")

			_, err := Load(ctx)
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("a missing config file is reported as a load failure", func() {
			os.Setenv("CALCIO_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			defer os.Unsetenv("CALCIO_CONFIG")

			_, err := Load(ctx)
			So(errors.Is(err, ErrLoadConfig), ShouldBeTrue)
		})
	})
}

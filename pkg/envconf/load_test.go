package envconf

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestLoad_BasicTypes(t *testing.T) {
	type cfg struct {
		Name     string        `env:"TEST_ENVCONF_NAME"`
		Port     uint16        `env:"TEST_ENVCONF_PORT"`
		Debug    bool          `env:"TEST_ENVCONF_DEBUG"`
		Timeout  time.Duration `env:"TEST_ENVCONF_TIMEOUT"`
		LogLevel slog.Level    `env:"TEST_ENVCONF_LOG_LEVEL"`
	}

	t.Setenv("TEST_ENVCONF_NAME", "txledger")
	t.Setenv("TEST_ENVCONF_PORT", "8080")
	t.Setenv("TEST_ENVCONF_DEBUG", "true")
	t.Setenv("TEST_ENVCONF_TIMEOUT", "15s")
	t.Setenv("TEST_ENVCONF_LOG_LEVEL", "DEBUG")

	c := new(cfg)
	err := Load(c)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Name != "txledger" || c.Port != 8080 || !c.Debug {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.Timeout != 15*time.Second {
		t.Fatalf("timeout: want 15s, got %s", c.Timeout)
	}
	if c.LogLevel != slog.LevelDebug {
		t.Fatalf("log level: want debug, got %s", c.LogLevel)
	}
}

func TestLoad_DefaultsApply(t *testing.T) {
	type cfg struct {
		LogLevel slog.Level `env:"TEST_ENVCONF_MISSING_LEVEL" envDefault:"INFO"`
		DSN      string     `env:"TEST_ENVCONF_MISSING_DSN" envDefault:""`
	}

	c := new(cfg)
	err := Load(c)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.LogLevel != slog.LevelInfo {
		t.Fatalf("log level default: want info, got %s", c.LogLevel)
	}
	if c.DSN != "" {
		t.Fatalf("dsn default: want empty, got %q", c.DSN)
	}
}

func TestLoad_EnvBeatsDefault(t *testing.T) {
	type cfg struct {
		Level string `env:"TEST_ENVCONF_LEVEL" envDefault:"INFO"`
	}

	t.Setenv("TEST_ENVCONF_LEVEL", "WARN")

	c := new(cfg)
	err := Load(c)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Level != "WARN" {
		t.Fatalf("want WARN, got %q", c.Level)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	type cfg struct {
		Required string `env:"TEST_ENVCONF_ABSENT"`
	}

	err := Load(new(cfg))
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("want ErrMissingRequired, got %v", err)
	}
}

func TestLoad_NestedStructs(t *testing.T) {
	type inner struct {
		Value int `env:"TEST_ENVCONF_INNER" envDefault:"42"`
	}
	type outer struct {
		Inner inner
	}

	c := new(outer)
	err := Load(c)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Inner.Value != 42 {
		t.Fatalf("nested default: want 42, got %d", c.Inner.Value)
	}
}

func TestLoad_RejectsNonStruct(t *testing.T) {
	err := Load(nil)
	if err == nil {
		t.Fatalf("want error for nil destination")
	}

	var s string
	err = Load(&s)
	if err == nil {
		t.Fatalf("want error for non-struct destination")
	}
}

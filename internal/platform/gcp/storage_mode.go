package gcp

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/avatar-backend/internal/platform/envutil"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type ObjectStorageConfig struct {
	Mode         ObjectStorageMode
	EmulatorHost string
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

type ObjectStorageConfigError struct {
	Mode         string
	EmulatorHost string
	Reason       string
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	return fmt.Sprintf("invalid object storage config (mode=%q emulator_host=%q): %s", e.Mode, e.EmulatorHost, e.Reason)
}

// ResolveObjectStorageConfigFromEnv reads OBJECT_STORAGE_MODE and
// STORAGE_EMULATOR_HOST. An unset mode with an emulator host selects the
// emulator.
func ResolveObjectStorageConfigFromEnv() (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		EmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),
	}
	raw := envutil.String("OBJECT_STORAGE_MODE", "")
	switch ObjectStorageMode(strings.ToLower(raw)) {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		} else {
			cfg.Mode = ObjectStorageModeGCS
		}
	case ObjectStorageModeGCS:
		cfg.Mode = ObjectStorageModeGCS
	case ObjectStorageModeGCSEmulator:
		cfg.Mode = ObjectStorageModeGCSEmulator
	default:
		return cfg, &ObjectStorageConfigError{Mode: raw, Reason: "unknown mode"}
	}
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	switch cfg.Mode {
	case ObjectStorageModeGCS:
		return nil
	case ObjectStorageModeGCSEmulator:
	default:
		return &ObjectStorageConfigError{Mode: string(cfg.Mode), Reason: "unknown mode"}
	}
	if cfg.EmulatorHost == "" {
		return &ObjectStorageConfigError{Mode: string(cfg.Mode), Reason: "STORAGE_EMULATOR_HOST is required"}
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ObjectStorageConfigError{
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Reason:       "expected absolute URL like http://fake-gcs:4443",
		}
	}
	return nil
}

// NewStorageClient builds a read-only GCS client for the catalog.
func NewStorageClient(ctx context.Context, cfg ObjectStorageConfig) (*storage.Client, error) {
	switch cfg.Mode {
	case ObjectStorageModeGCS:
		opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadOnly))
		return storage.NewClient(ctx, opts...)
	case ObjectStorageModeGCSEmulator:
		// the storage client reads the emulator endpoint from the environment
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(cfg.EmulatorHost, "/"))
		return storage.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, &ObjectStorageConfigError{Mode: string(cfg.Mode), Reason: "unknown mode"}
	}
}

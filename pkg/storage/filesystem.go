package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"
)

const LauncherDir = ".testlaunch"
const ConfigFile = "config.yaml"

// ConfigEnv names the environment variable that overrides the config path.
const ConfigEnv = "TESTLAUNCH_CONFIG"

// ErrNoConfig is returned when the default configuration file does not exist.
var ErrNoConfig = errors.New("no launcher configuration")

type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is within the .testlaunch directory and prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, LauncherDir)
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))

	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, LauncherDir)
	// G301: Use 0700 for directories
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", LauncherDir, err)
	}
	return nil
}

// LoadConfig reads .testlaunch/config.yaml. Relative engine binaries resolve
// against the workspace root. A missing file yields ErrNoConfig.
func (r *FilesystemRepository) LoadConfig() (*LauncherConfig, error) {
	path, err := r.ResolvePath(ConfigFile)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoConfig, path)
	}
	return r.load(path, r.root)
}

// LoadConfigFile reads an explicitly named configuration file. Relative
// engine binaries resolve against the file's directory.
func (r *FilesystemRepository) LoadConfigFile(path string) (*LauncherConfig, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, path)
	}
	return r.load(path, filepath.Dir(path))
}

func (r *FilesystemRepository) load(path, baseDir string) (*LauncherConfig, error) {
	retryer := retry.New[[]byte](r.retryConfig)
	data, err := retryer.Do(context.Background(), func(ctx context.Context) ([]byte, error) {
		// #nosec G304 -- Path is chosen by the invoking user
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	cfg, err := DecodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolveBinaries(baseDir)
	return cfg, nil
}

// SaveConfig writes cfg to .testlaunch/config.yaml.
func (r *FilesystemRepository) SaveConfig(cfg *LauncherConfig) error {
	if err := r.Initialize(); err != nil {
		return err
	}
	path, err := r.ResolvePath(ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// G306: Use 0600 for files
	return os.WriteFile(path, data, 0600)
}

// DecodeConfig parses and validates a YAML configuration document.
// Unknown keys are rejected.
func DecodeConfig(data []byte) (*LauncherConfig, error) {
	cfg := &LauncherConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

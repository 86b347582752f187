package wiring

import (
	"errors"

	"github.com/felixgeelhaar/testlaunch/pkg/storage"
)

// Workspace bundles the directory an invocation runs in and its
// configuration repository.
type Workspace struct {
	Repo *storage.FilesystemRepository
}

func NewWorkspace(root string) *Workspace {
	return &Workspace{Repo: storage.NewFilesystemRepository(root)}
}

// LoadConfig reads the launcher configuration. An explicit path must exist;
// without one the default file is optional and its absence yields an empty
// configuration.
func (w *Workspace) LoadConfig(explicit string) (*storage.LauncherConfig, error) {
	if explicit != "" {
		return w.Repo.LoadConfigFile(explicit)
	}
	cfg, err := w.Repo.LoadConfig()
	if errors.Is(err, storage.ErrNoConfig) {
		return &storage.LauncherConfig{}, nil
	}
	return cfg, err
}

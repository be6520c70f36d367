package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory. The built in default is
// used when the directory has no configuration file.
func Load(fsys afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	out := defaultConfig()
	configContents, err := afero.ReadFile(fsys, filepath.Join(path, ConfigurationName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Use the default.
	case err != nil:
		return nil, err
	default:
		out = &Configuration{}
		if err := yaml.UnmarshalStrict(configContents, out); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", ConfigurationName, err)
		}
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}

	out.configFs = fsys
	out.dir = path
	return out, nil
}

// Initialize writes the default configuration into dir, refusing to replace
// an existing one.
func Initialize(fsys afero.Fs, dir string) (*Configuration, error) {
	if err := fsys.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, ConfigurationName)
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrExist)
	}

	if err := afero.WriteFile(fsys, path, defaultConfigData, 0600); err != nil {
		return nil, err
	}

	return Load(fsys, dir)
}

package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	DefaultDirName    = ".dcsh"
)

// Color settings.
const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configFs afero.Fs
	dir      string

	ShellName   string `json:"shell_name" validate:"required"`
	Prompt      string `json:"prompt" validate:"required"`
	PromptColor string `json:"prompt_color" validate:"oneof=none red green yellow blue magenta cyan"`
	Color       string `json:"color" validate:"oneof=always auto never"`

	History History `json:"history"`
	Log     Log     `json:"log"`
}

type History struct {
	File       string `json:"file"`
	MaxEntries int    `json:"max_entries" validate:"gte=0"`
}

type Log struct {
	File  string `json:"file"`
	Level string `json:"level" validate:"oneof=debug info warn error"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// Dir returns the directory the configuration was loaded from.
func (c *Configuration) Dir() string {
	return c.dir
}

func (c *Configuration) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.dir, name)
}

// HistoryPath returns the path of the history database, or "" when history
// isn't persisted.
func (c *Configuration) HistoryPath() string {
	return c.resolve(c.History.File)
}

// LogPath returns the path of the event log, or "" when logging is off.
func (c *Configuration) LogPath() string {
	return c.resolve(c.Log.File)
}

// EnsureDir creates the configuration directory if files are kept in it.
func (c *Configuration) EnsureDir() error {
	if c.History.File == "" && c.Log.File == "" {
		return nil
	}
	return c.fs().MkdirAll(c.dir, 0700)
}

// ReadLog opens the event log for reading.
func (c *Configuration) ReadLog() (afero.File, error) {
	path := c.LogPath()
	if path == "" {
		return nil, &os.PathError{Op: "open", Path: "log.file", Err: os.ErrNotExist}
	}
	return c.fs().OpenFile(path, os.O_RDONLY, 0600)
}

// UseColor reports whether output should be colored given whether it goes to
// a terminal.
func (c *Configuration) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// DefaultDir returns the configuration directory in the user's home.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

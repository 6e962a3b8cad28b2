package keymap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Loader loads keymaps from configuration files.
// JSON, TOML, and YAML formats are supported, selected by file extension.
type Loader struct {
	// searchPaths are directories to search for keymap files.
	searchPaths []string
}

// keymapExtensions are the recognized keymap file extensions.
var keymapExtensions = []string{".json", ".toml", ".yaml", ".yml"}

// NewLoader creates a new keymap loader.
func NewLoader() *Loader {
	return &Loader{
		searchPaths: make([]string, 0),
	}
}

// AddSearchPath adds a directory to search for keymap files.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// IsKeymapFile returns true if the path has a recognized keymap extension.
func IsKeymapFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range keymapExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFile loads a keymap from a file, choosing the format from the
// extension.
func (l *Loader) LoadFile(path string) (*Keymap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	km, err := l.LoadReader(f, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if km.Source == "" {
		km.Source = "file:" + path
	}
	return km, nil
}

// LoadReader loads a keymap from a reader in the given format
// (".json", ".toml", ".yaml", or ".yml").
func (l *Loader) LoadReader(r io.Reader, format string) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}

	var config keymapConfig
	switch format {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".toml":
		err = toml.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return nil, fmt.Errorf("unsupported keymap format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}

	return config.toKeymap(), nil
}

// LoadAll loads all keymaps from the search paths.
// Files that fail to load are skipped.
func (l *Loader) LoadAll() ([]*Keymap, error) {
	keymaps := make([]*Keymap, 0)

	for _, dir := range l.searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !IsKeymapFile(entry.Name()) {
				continue
			}
			km, err := l.LoadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			keymaps = append(keymaps, km)
		}
	}

	return keymaps, nil
}

// LoadAndRegister loads all keymaps and registers them.
func (l *Loader) LoadAndRegister(registry *Registry) error {
	keymaps, err := l.LoadAll()
	if err != nil {
		return err
	}

	for _, km := range keymaps {
		if err := registry.Register(km); err != nil {
			return fmt.Errorf("registering keymap %q: %w", km.Name, err)
		}
	}

	return nil
}

// keymapConfig is the on-disk structure for keymap files.
type keymapConfig struct {
	Name     string          `json:"name" toml:"name" yaml:"name"`
	Priority int             `json:"priority,omitempty" toml:"priority,omitempty" yaml:"priority,omitempty"`
	Source   string          `json:"source,omitempty" toml:"source,omitempty" yaml:"source,omitempty"`
	Bindings []bindingConfig `json:"bindings" toml:"bindings" yaml:"bindings"`
}

type bindingConfig struct {
	Keys        string         `json:"keys" toml:"keys" yaml:"keys"`
	Action      string         `json:"action" toml:"action" yaml:"action"`
	Args        map[string]any `json:"args,omitempty" toml:"args,omitempty" yaml:"args,omitempty"`
	When        string         `json:"when,omitempty" toml:"when,omitempty" yaml:"when,omitempty"`
	Description string         `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
	Priority    int            `json:"priority,omitempty" toml:"priority,omitempty" yaml:"priority,omitempty"`
}

func (c *keymapConfig) toKeymap() *Keymap {
	km := &Keymap{
		Name:     c.Name,
		Priority: c.Priority,
		Source:   c.Source,
		Bindings: make([]Binding, 0, len(c.Bindings)),
	}
	for _, bc := range c.Bindings {
		km.Bindings = append(km.Bindings, Binding(bc))
	}
	return km
}

// SaveFile saves a keymap to a JSON file.
func (k *Keymap) SaveFile(path string) error {
	config := keymapConfig{
		Name:     k.Name,
		Priority: k.Priority,
		Source:   k.Source,
		Bindings: make([]bindingConfig, 0, len(k.Bindings)),
	}
	for _, b := range k.Bindings {
		config.Bindings = append(config.Bindings, bindingConfig(b))
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling keymap: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing keymap file: %w", err)
	}

	return nil
}

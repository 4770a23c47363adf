// Package categories holds the category→feed URL table, loaded once
// at startup from a YAML file.
package categories

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

type Category struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Catalog is an ordered category list; listing order is preserved for
// the front end.
type Catalog struct {
	file    string
	entries []Category
	mu      sync.RWMutex
}

func NewCatalog(file string) *Catalog {
	return &Catalog{file: file}
}

func (c *Catalog) Run() error {
	data, err := os.ReadFile(c.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var entries []Category
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(entries) == 0 {
		return fmt.Errorf("no categories defined in %s", c.file)
	}

	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		if entry.Name == "" {
			return fmt.Errorf("category at index %d has no name", i)
		}
		if entry.URL == "" {
			return fmt.Errorf("category '%s' has no URL", entry.Name)
		}
		if seen[entry.Name] {
			return fmt.Errorf("duplicate category '%s'", entry.Name)
		}
		seen[entry.Name] = true

		slog.Debug("Category loaded", "name", entry.Name, "url", entry.URL)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries

	return nil
}

func (c *Catalog) Get(name string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, entry := range c.entries {
		if entry.Name == name {
			return entry.URL, nil
		}
	}
	return "", fmt.Errorf("category '%s' not found", name)
}

func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.entries))
	for i, entry := range c.entries {
		names[i] = entry.Name
	}
	return names
}

func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

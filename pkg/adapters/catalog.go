// Package adapters holds the catalog of adapter plugins: their internal
// plugin names and the titles users see and type.
package adapters

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Adapter struct {
	Name  string `yaml:"name" json:"name"`
	Title string `yaml:"title" json:"title"`
}

// Catalog maps adapter titles to plugin names and back.
type Catalog struct {
	adapters []Adapter
	byTitle  map[string]string
	byName   map[string]string
}

type catalogFile struct {
	Adapters []Adapter `yaml:"adapters"`
}

// Load reads a YAML catalog. Entries are kept sorted by name.
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode adapter catalog: %w", err)
	}

	c := &Catalog{
		byTitle: make(map[string]string, len(file.Adapters)),
		byName:  make(map[string]string, len(file.Adapters)),
	}
	for i, a := range file.Adapters {
		if a.Name == "" {
			return nil, fmt.Errorf("adapter %d has no name", i)
		}
		if _, ok := c.byName[a.Name]; ok {
			return nil, fmt.Errorf("duplicate adapter %q", a.Name)
		}
		if a.Title == "" {
			a.Title = a.Name
		}
		c.byName[a.Name] = a.Title
		c.byTitle[a.Title] = a.Name
		c.adapters = append(c.adapters, a)
	}
	sort.Slice(c.adapters, func(i, j int) bool {
		return c.adapters[i].Name < c.adapters[j].Name
	})
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(bytes.NewReader(defaultCatalog))
		if err != nil {
			panic(err)
		}
		defaultCat = c
	})
	return defaultCat
}

// NameForTitle resolves a title, ignoring surrounding blanks.
func (c *Catalog) NameForTitle(title string) (string, bool) {
	name, ok := c.byTitle[strings.TrimSpace(title)]
	return name, ok
}

func (c *Catalog) TitleForName(name string) (string, bool) {
	title, ok := c.byName[name]
	return title, ok
}

func (c *Catalog) Entries() []Adapter {
	return append([]Adapter{}, c.adapters...)
}

func (c *Catalog) Len() int {
	return len(c.adapters)
}

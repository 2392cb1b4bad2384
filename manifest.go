// manifest.go — optional per-project configuration (zr.yml).
//
// A manifest lets a project name its entry script and add module search
// roots without relying on ZRPATH. It is entirely optional: `zr run file.zr`
// works without one.
package zr

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestNames are the file names probed by FindManifest, in order.
var ManifestNames = []string{"zr.yml", "zr.yaml"}

// Manifest is the parsed contents of zr.yml.
type Manifest struct {
	Path        string   `yaml:"-"` // absolute path the manifest was read from
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Main        string   `yaml:"main"`         // entry script, relative to the manifest dir
	ModulePaths []string `yaml:"module_paths"` // extra loadin search roots
}

// LoadManifest parses a manifest file. Unknown fields are rejected so typos
// surface instead of being ignored. Relative module_paths entries and Main
// are resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", abs, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", abs)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", abs, err)
	}
	m.Path = abs

	dir := filepath.Dir(abs)
	if m.Main != "" && !filepath.IsAbs(m.Main) {
		m.Main = filepath.Join(dir, m.Main)
	}
	for i, p := range m.ModulePaths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		m.ModulePaths[i] = p
	}
	return &m, nil
}

// FindManifest probes dir for a manifest file and returns its path.
func FindManifest(dir string) (string, bool) {
	for _, name := range ManifestNames {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Package prompts holds the model prompt templates. Templates live in JSON
// files embedded in the binary and use {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt files shipped with the binary.
const (
	DocumentsFile = "documents.json"
	IngestionFile = "ingestion.json"
)

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9_]*)\}\}`)

// library is every embedded file, parsed once on first use.
var library = sync.OnceValues(func() (map[string]map[string]string, error) {
	return loadAll(promptFiles)
})

func loadAll(fsys fs.FS) (map[string]map[string]string, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}

	files := make(map[string]map[string]string, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var templates map[string]string
		if err := json.Unmarshal(data, &templates); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		for key, tmpl := range templates {
			if strings.TrimSpace(tmpl) == "" {
				return nil, fmt.Errorf("prompt %s/%s is empty", name, key)
			}
		}
		files[name] = templates
	}
	return files, nil
}

func file(filename string) (map[string]string, error) {
	files, err := library()
	if err != nil {
		return nil, err
	}
	templates, ok := files[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", filename)
	}
	return templates, nil
}

// Get returns the raw template stored under key in filename.
func Get(filename, key string) (string, error) {
	templates, err := file(filename)
	if err != nil {
		return "", err
	}
	tmpl, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return tmpl, nil
}

// Keys lists the template keys in filename, sorted.
func Keys(filename string) ([]string, error) {
	templates, err := file(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Render fills every placeholder of a stored template from data. A template
// placeholder without a value in data is an error. Values are inserted
// literally, so placeholder syntax inside a value is left alone.
func Render(filename, key string, data map[string]string) (string, error) {
	tmpl, err := Get(filename, key)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, name := range Placeholders(tmpl) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s: missing values for %s", filename, key, strings.Join(missing, ", "))
	}

	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		return data[match[3:len(match)-2]]
	}), nil
}

// Placeholders returns the distinct placeholder names used by tmpl, sorted.
func Placeholders(tmpl string) []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		names = append(names, m[1])
	}
	slices.Sort(names)
	return slices.Compact(names)
}

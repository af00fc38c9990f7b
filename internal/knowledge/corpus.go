package knowledge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const manifestFile = "knowledge.yaml"

// Document — исходный документ базы знаний
type Document struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	File  string `yaml:"file"`
	Text  string `yaml:"-"`
}

type manifest struct {
	Documents []Document `yaml:"documents"`
}

var defaultDocuments = []Document{
	{ID: "about", Title: "About Company", File: "about.txt"},
	{ID: "services", Title: "Services", File: "services.txt"},
	{ID: "pricing", Title: "Pricing", File: "pricing.txt"},
	{ID: "policies", Title: "Policies", File: "policies.txt"},
	{ID: "faqs", Title: "FAQs", File: "faqs.txt"},
}

// LoadCorpus читает документы из dir; отсутствующие и пустые файлы пропускаются.
// Список берется из knowledge.yaml, если он есть.
func LoadCorpus(dir string) ([]Document, error) {
	docs, err := readManifest(dir)
	if err != nil {
		return nil, err
	}

	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if d.ID == "" || d.File == "" {
			return nil, fmt.Errorf("%s: document needs id and file", manifestFile)
		}
		b, err := os.ReadFile(filepath.Join(dir, d.File))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", d.File, err)
		}
		d.Text = strings.TrimSpace(string(b))
		if d.Text == "" {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func readManifest(dir string) ([]Document, error) {
	b, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return defaultDocuments, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", manifestFile, err)
	}

	var m manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestFile, err)
	}
	return m.Documents, nil
}

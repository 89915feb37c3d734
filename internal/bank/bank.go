// Package bank reads question banks from YAML files and serves them as a
// question source.
package bank

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SAP-F-2025/adaptive-assessment/internal/models"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"gopkg.in/yaml.v3"
)

// File is one module's question bank as written on disk.
type File struct {
	ModuleID    string            `yaml:"module_id"`
	Title       string            `yaml:"title,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Questions   []models.Question `yaml:"questions"`

	Path string `yaml:"-"`
}

// ParseYAML decodes a bank payload. Questions without a module_id inherit
// the bank's.
func ParseYAML(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("bank: payload is empty")
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("bank: decode: %w", err)
	}

	f.ModuleID = strings.TrimSpace(f.ModuleID)
	if f.ModuleID == "" {
		return nil, fmt.Errorf("bank: module_id is required")
	}
	for i := range f.Questions {
		if f.Questions[i].ModuleID == "" {
			f.Questions[i].ModuleID = f.ModuleID
		}
	}
	return &f, nil
}

// LoadFile reads a bank from disk.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bank: read %s: %w", path, err)
	}
	f, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("bank: %s: %w", path, err)
	}
	f.Path = filepath.Clean(path)
	return f, nil
}

// LoadDir loads every *.yaml and *.yml bank in dir, sorted by file name.
func LoadDir(dir string) ([]*File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("bank: directory %s does not exist", dir)
		}
		return nil, fmt.Errorf("bank: read dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	files := make([]*File, 0, len(names))
	for _, name := range names {
		f, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// Load accepts either a single bank file or a directory of banks.
func Load(path string) ([]*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("bank: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return []*File{f}, nil
}

// Validate checks every question of the bank and that IDs are unique.
func (f *File) Validate(v *validator.Validator) error {
	if err := v.Question().ValidateBatch(f.QuestionPointers()); err != nil {
		return fmt.Errorf("bank %s: %w", f.ModuleID, err)
	}
	return nil
}

// QuestionPointers returns pointers into the bank, in file order.
func (f *File) QuestionPointers() []*models.Question {
	out := make([]*models.Question, len(f.Questions))
	for i := range f.Questions {
		out[i] = &f.Questions[i]
	}
	return out
}

// Source serves loaded banks as a question source. It is read-only after
// construction and safe for concurrent use.
type Source struct {
	byModule map[string][]models.Question
	modules  []string
}

// NewSource indexes the questions of the given banks by module, keeping file
// order. Banks for the same module are concatenated.
func NewSource(files ...*File) *Source {
	s := &Source{byModule: make(map[string][]models.Question)}
	for _, f := range files {
		for _, q := range f.Questions {
			if _, seen := s.byModule[q.ModuleID]; !seen {
				s.modules = append(s.modules, q.ModuleID)
			}
			s.byModule[q.ModuleID] = append(s.byModule[q.ModuleID], q.Clone())
		}
	}
	return s
}

// GetQuestions returns copies of the module's questions. Unknown modules
// yield an empty set.
func (s *Source) GetQuestions(ctx context.Context, moduleID string) ([]models.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	questions := s.byModule[moduleID]
	out := make([]models.Question, len(questions))
	for i, q := range questions {
		out[i] = q.Clone()
	}
	return out, nil
}

// Modules lists the module IDs in the order they were first seen.
func (s *Source) Modules() []string {
	return append([]string(nil), s.modules...)
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Storage struct{}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

func (s *Storage) SaveFile(filePath string, content []byte) error {
	err := os.WriteFile(filePath, content, 0644)
	if err != nil {
		return fmt.Errorf("error saving file: %s", err)
	}

	return nil
}

// SaveJSON marshals v with two-space indentation and writes it, creating the
// parent directory if needed.
func (s *Storage) SaveJSON(filePath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}
	if err := s.EnsureDir(filepath.Dir(filePath)); err != nil {
		return err
	}
	return s.SaveFile(filePath, data)
}

// SaveYAML marshals v as YAML and writes it, creating the parent directory
// if needed.
func (s *Storage) SaveYAML(filePath string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling YAML: %s", err)
	}
	if err := s.EnsureDir(filepath.Dir(filePath)); err != nil {
		return err
	}
	return s.SaveFile(filePath, data)
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %s", err)
	}
	return data, nil
}

// ReadJSON reads filePath and unmarshals it into v.
func (s *Storage) ReadJSON(filePath string, v any) error {
	data, err := s.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error parsing JSON from %s: %s", filePath, err)
	}
	return nil
}

// ReadYAML reads filePath and unmarshals it into v.
func (s *Storage) ReadYAML(filePath string, v any) error {
	data, err := s.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error parsing YAML from %s: %s", filePath, err)
	}
	return nil
}

func (s *Storage) EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %s", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

func (s *Storage) HasFile(fn string) bool {
	if fileExists(fn) {
		return true
	}
	return false
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %s", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

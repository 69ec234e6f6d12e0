package liblink

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// DefaultExtensions are the file extensions recognized as batch descriptor
// files.
var DefaultExtensions = []string{".yaml", ".yml"}

// Source finds batch descriptor files.
type Source interface {
	// ListFiles returns all descriptor file paths known to this source,
	// in deterministic order.
	ListFiles() ([]string, error)

	// ReadFile returns the content of one listed file.
	ReadFile(path string) ([]byte, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	fs         afero.Fs
	extensions []string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{
		fs:         afero.NewOsFs(),
		extensions: DefaultExtensions,
	}
}

// WithExtensions sets the file extensions to recognize for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

// WithFs sets the filesystem the source reads from. Defaults to the OS
// filesystem; tests use an in-memory one.
func WithFs(fsys afero.Fs) SourceOption {
	return func(c *sourceConfig) {
		c.fs = fsys
	}
}

// --- Dir Source (single directory) ---

type dirSource struct {
	path      string
	recursive bool
	config    sourceConfig
}

// Dir creates a Source over a single directory (no recursion).
func Dir(path string, opts ...SourceOption) Source {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &dirSource{path: path, config: cfg}
}

// DirTree creates a Source that walks a directory recursively.
func DirTree(path string, opts ...SourceOption) Source {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &dirSource{path: path, recursive: true, config: cfg}
}

func (s *dirSource) ListFiles() ([]string, error) {
	var files []string
	if s.recursive {
		err := afero.Walk(s.config.fs, s.path, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && s.matches(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := afero.ReadDir(s.config.fs, s.path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(s.path, entry.Name())
			if s.matches(path) {
				files = append(files, path)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s *dirSource) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.config.fs, path)
}

func (s *dirSource) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range s.config.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// --- Files Source (explicit list) ---

type filesSource struct {
	paths  []string
	config sourceConfig
}

// Files creates a Source over an explicit list of descriptor files.
// Extensions are not checked; the caller named the files deliberately.
func Files(paths []string, opts ...SourceOption) Source {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &filesSource{paths: paths, config: cfg}
}

func (s *filesSource) ListFiles() ([]string, error) {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out, nil
}

func (s *filesSource) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.config.fs, path)
}

// --- Multi Source ---

type multiSource []Source

// Multi combines sources; files are listed in source order.
func Multi(sources ...Source) Source {
	return multiSource(sources)
}

func (m multiSource) ListFiles() ([]string, error) {
	var all []string
	for _, src := range m {
		files, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
	}
	return all, nil
}

func (m multiSource) ReadFile(path string) ([]byte, error) {
	var lastErr error
	for _, src := range m {
		data, err := src.ReadFile(path)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// BatchConfig is an upload manifest for `gfy upload --manifest`.
type BatchConfig struct {
	Defaults BatchDefaults     `yaml:"defaults,omitempty"`
	Files    []BatchFileConfig `yaml:"files,omitempty"`
}

type BatchDefaults struct {
	Tags    []string `yaml:"tags,omitempty"`
	Private bool     `yaml:"private,omitempty"`
	Nsfw    int      `yaml:"nsfw,omitempty"`
	NoAudio bool     `yaml:"no_audio,omitempty"`
}

type BatchFileConfig struct {
	Pattern     string   `yaml:"pattern,omitempty"`
	Path        string   `yaml:"path,omitempty"`
	Title       string   `yaml:"title,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Private     *bool    `yaml:"private,omitempty"`
	Nsfw        *int     `yaml:"nsfw,omitempty"`
	NoAudio     *bool    `yaml:"no_audio,omitempty"`
}

func LoadBatchConfig(fsys afero.Fs, path string) (*BatchConfig, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	cfg := &BatchConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetFileConfig returns the first entry matching filename by exact path,
// base name or glob pattern.
func (bc *BatchConfig) GetFileConfig(filename string) *BatchFileConfig {
	baseName := filepath.Base(filename)

	for i := range bc.Files {
		fc := &bc.Files[i]
		if fc.Path != "" && (fc.Path == filename || fc.Path == baseName) {
			return fc
		}

		if fc.Pattern != "" {
			matched, err := filepath.Match(fc.Pattern, baseName)
			if err == nil && matched {
				return fc
			}
		}
	}

	return nil
}

// Entry is the resolved upload settings for one file.
type Entry struct {
	Path        string
	Title       string
	Description string
	Tags        []string
	Private     bool
	Nsfw        int
	NoAudio     bool
}

func (bc *BatchConfig) Resolve(filename string) Entry {
	e := Entry{
		Path:    filename,
		Tags:    bc.Defaults.Tags,
		Private: bc.Defaults.Private,
		Nsfw:    bc.Defaults.Nsfw,
		NoAudio: bc.Defaults.NoAudio,
	}
	fc := bc.GetFileConfig(filename)
	if fc == nil {
		return e
	}
	e.Title = fc.Title
	e.Description = fc.Description
	if len(fc.Tags) > 0 {
		e.Tags = fc.Tags
	}
	if fc.Private != nil {
		e.Private = *fc.Private
	}
	if fc.Nsfw != nil {
		e.Nsfw = *fc.Nsfw
	}
	if fc.NoAudio != nil {
		e.NoAudio = *fc.NoAudio
	}
	return e
}

// Paths lists the files named by the manifest: explicit paths first, then
// glob patterns expanded relative to dir.
func (bc *BatchConfig) Paths(fsys afero.Fs, dir string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, fc := range bc.Files {
		if fc.Path != "" {
			p := fc.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			add(p)
		}
	}
	for _, fc := range bc.Files {
		if fc.Pattern == "" {
			continue
		}
		matches, err := afero.Glob(fsys, filepath.Join(dir, fc.Pattern))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if IsVideoFile(m) {
				add(m)
			}
		}
	}
	return out, nil
}

func IsVideoFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp4", ".webm", ".mov", ".avi", ".mkv", ".m4v", ".wmv", ".flv", ".gif":
		return true
	}
	return false
}

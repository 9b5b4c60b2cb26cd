// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	yamlExts = []string{".yaml", ".yml"}
	jsonExts = []string{".json"}
	tomlExts = []string{".toml"}
)

type Type int

const (
	TypeUnknown Type = iota
	TypeYAML
	TypeJSON
	TypeTOML
)

func (t Type) String() string {
	switch t {
	case TypeYAML:
		return "yaml"
	case TypeJSON:
		return "json"
	case TypeTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// TypeFromName maps a format name given on the command line.
func TypeFromName(name string) (Type, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return TypeYAML, nil
	case "json":
		return TypeJSON, nil
	case "toml":
		return TypeTOML, nil
	default:
		return TypeUnknown, fmt.Errorf("Unknown format '%s' (expected yaml, json or toml)", name)
	}
}

type File struct {
	src     Source
	relPath string
}

// NewSortedFilesFromPaths expands paths into files. Directories contribute
// the YAML files found within them, in lexical order.
func NewSortedFilesFromPaths(paths []string) ([]*File, error) {
	var fileSrcs []Source
	stdinRead := false

	for _, path := range paths {
		switch {
		case path == "-":
			if stdinRead {
				return nil, fmt.Errorf("Standard input has already been read, has the '-' argument been used more than once?")
			}
			stdinRead = true
			fileSrcs = append(fileSrcs, NewStdinSource())

		case strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://"):
			fileSrcs = append(fileSrcs, NewHTTPSource(path))

		default:
			fileInfo, err := os.Stat(path)
			if err != nil {
				return nil, fmt.Errorf("Checking file '%s': %s", path, err)
			}

			if !fileInfo.IsDir() {
				fileSrcs = append(fileSrcs, NewLocalSource(path, ""))
				continue
			}

			var selectedPaths []string

			err = filepath.Walk(path, func(walkedPath string, fi os.FileInfo, err error) error {
				if err != nil || fi.IsDir() {
					return err
				}
				if matchesExt(walkedPath, yamlExts) {
					selectedPaths = append(selectedPaths, walkedPath)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("Listing files '%s': %s", path, err)
			}

			sort.Strings(selectedPaths)

			for _, selectedPath := range selectedPaths {
				fileSrcs = append(fileSrcs, NewLocalSource(selectedPath, path))
			}
		}
	}

	var files []*File

	for _, fileSrc := range fileSrcs {
		file, err := NewFileFromSource(fileSrc)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

func NewFileFromSource(fileSrc Source) (*File, error) {
	relPath, err := fileSrc.RelativePath()
	if err != nil {
		return nil, fmt.Errorf("Calculating relative path for '%s': %s", fileSrc.Description(), err)
	}

	return &File{src: fileSrc, relPath: relPath}, nil
}

func (r *File) Description() string    { return r.src.Description() }
func (r *File) RelativePath() string   { return r.relPath }
func (r *File) Bytes() ([]byte, error) { return r.src.Bytes() }

// Type is TypeYAML for standard input.
func (r *File) Type() Type {
	switch {
	case matchesExt(r.relPath, yamlExts):
		return TypeYAML
	case matchesExt(r.relPath, jsonExts):
		return TypeJSON
	case matchesExt(r.relPath, tomlExts):
		return TypeTOML
	default:
		return TypeUnknown
	}
}

func matchesExt(path string, exts []string) bool {
	filename := strings.ToLower(filepath.Base(path))
	for _, ext := range exts {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

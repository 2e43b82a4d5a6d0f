/*
Copyright 2011-2025 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package fswalk expands the archiver's command-line input paths — files
// or directories — into the flat list of regular files archive.Config
// actually compresses.
package fswalk

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Entry is one file fswalk found: its full path plus the size Stat
// already reported, so a caller that sorts by size doesn't need a
// second stat call per file.
type Entry struct {
	Path string
	Size int64
}

// Expand resolves target into the files it names: target itself if it
// is a regular file (or, with !ignoreLinks, a symlink), or every
// regular file reachable from it if it is a directory — recursively
// when recursive is set, immediate children only otherwise.
// ignoreDotFiles skips any path component beginning with '.'.
func Expand(target string, recursive, ignoreLinks, ignoreDotFiles bool) ([]Entry, error) {
	fi, err := os.Lstat(target)
	if err != nil {
		return nil, err
	}

	if ignoreDotFiles && isDotFile(target) {
		return nil, nil
	}

	if fi.Mode().IsRegular() || (!ignoreLinks && fi.Mode()&fs.ModeSymlink != 0) {
		return []Entry{{Path: target, Size: fi.Size()}}, nil
	}

	if !fi.IsDir() {
		return nil, nil
	}

	var entries []Entry
	if recursive {
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ignoreDotFiles && path != target && isDotFile(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() || (!ignoreLinks && d.Type()&fs.ModeSymlink != 0) {
				info, err := d.Info()
				if err != nil {
					return err
				}
				entries = append(entries, Entry{Path: path, Size: info.Size()})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		children, err := os.ReadDir(target)
		if err != nil {
			return nil, err
		}
		for _, d := range children {
			if ignoreDotFiles && isDotFile(d.Name()) {
				continue
			}
			if !d.Type().IsRegular() && (ignoreLinks || d.Type()&fs.ModeSymlink == 0) {
				continue
			}
			info, err := d.Info()
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Path: filepath.Join(target, d.Name()), Size: info.Size()})
		}
	}

	return entries, nil
}

// ExpandAll runs Expand over every target and concatenates the results
// in the order given, so a mixed list of files and directories on the
// command line becomes one flat input list.
func ExpandAll(targets []string, recursive, ignoreLinks, ignoreDotFiles bool) ([]Entry, error) {
	var all []Entry
	for _, target := range targets {
		entries, err := Expand(target, recursive, ignoreLinks, ignoreDotFiles)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// SortBySize orders entries by parent directory, then by decreasing
// file size within each directory — grouping same-directory files
// together while still coding the largest files in each group first,
// which tends to seed the predictor's contexts before its smaller
// siblings arrive.
func SortBySize(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		di, dj := filepath.Dir(entries[i].Path), filepath.Dir(entries[j].Path)
		if di != dj {
			return di < dj
		}
		return entries[i].Size > entries[j].Size
	})
}

func isDotFile(path string) bool {
	name := filepath.Base(path)
	return name != "." && name != ".." && strings.HasPrefix(name, ".")
}

// reservedWindowsNames lists device names Windows reserves regardless
// of extension; IsReservedName guards output file creation during
// extraction so an archive built on Linux can still be extracted safely
// on Windows.
var reservedWindowsNames = map[string]bool{
	"AUX": true, "COM0": true, "COM1": true, "COM2": true, "COM3": true,
	"COM4": true, "COM5": true, "COM6": true, "COM7": true, "COM8": true,
	"COM9": true, "CON": true, "LPT0": true, "LPT1": true, "LPT2": true,
	"LPT3": true, "LPT4": true, "LPT5": true, "LPT6": true, "LPT7": true,
	"LPT8": true, "LPT9": true, "NUL": true, "PRN": true,
}

// IsReservedName reports whether name is a reserved device name on
// Windows. It always returns false on other platforms.
func IsReservedName(name string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return reservedWindowsNames[strings.ToUpper(filepath.Base(name))]
}

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

package fswalk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandSingleFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(f, []byte("hi"), 0o644))

	entries, err := Expand(f, false, false, false)
	require.NoError(t, err)
	require.Equal(t, []Entry{{Path: f, Size: 2}}, entries)
}

func TestExpandDirectoryNonRecursive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("bb"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.txt"), []byte("ccc"), 0o644))

	entries, err := Expand(dir, false, false, false)
	require.NoError(t, err)
	require.Len(t, entries, 2, "non-recursive expansion must skip the subdirectory entirely")
}

func TestExpandDirectoryRecursive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.txt"), []byte("ccc"), 0o644))

	entries, err := Expand(dir, true, false, false)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestExpandIgnoresDotFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("h"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "visible.txt"), []byte("v"), 0o644))

	entries, err := Expand(dir, false, false, true)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, filepath.Join(dir, "visible.txt"), entries[0].Path)
}

func TestExpandAllConcatenatesInOrder(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "a.txt")
	f2 := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(f1, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(f2, []byte("b"), 0o644))

	entries, err := ExpandAll([]string{f2, f1}, false, false, false)
	require.NoError(t, err)
	require.Equal(t, []string{f2, f1}, []string{entries[0].Path, entries[1].Path})
}

func TestSortBySizeOrdersLargestFirstWithinDirectory(t *testing.T) {
	entries := []Entry{
		{Path: "/d/small.txt", Size: 1},
		{Path: "/d/big.txt", Size: 100},
	}
	SortBySize(entries)
	require.Equal(t, "/d/big.txt", entries[0].Path)
}

func TestIsReservedNameOnlyAppliesToWindows(t *testing.T) {
	// On non-Windows platforms CON is a perfectly ordinary filename.
	require.False(t, IsReservedName("CON"))
}

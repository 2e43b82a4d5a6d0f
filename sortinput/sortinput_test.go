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

package sortinput

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompareByExt(t *testing.T) {
	a := File{Path: "a.ZIP"}
	b := File{Path: "b.zip"}
	c := File{Path: "c.txt"}

	cmp, err := Compare(a, b, Ext)
	require.NoError(t, err)
	require.Zero(t, cmp, "extension comparison must be case-insensitive")

	cmp, err = Compare(c, a, Ext)
	require.NoError(t, err)
	require.Negative(t, cmp)
}

func TestCompareByName(t *testing.T) {
	cmp, err := Compare(File{Path: "/x/Apple.txt"}, File{Path: "/y/banana.txt"}, Name)
	require.NoError(t, err)
	require.Negative(t, cmp)
}

func TestCompareByLen(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small")
	big := filepath.Join(dir, "big")
	require.NoError(t, os.WriteFile(small, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(big, []byte("xxxxxxxxxx"), 0o644))

	cmp, err := Compare(File{Path: small}, File{Path: big}, Len)
	require.NoError(t, err)
	require.Negative(t, cmp)
}

func TestCompareByModified(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "older")
	newer := filepath.Join(dir, "newer")
	require.NoError(t, os.WriteFile(older, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("b"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	cmp, err := Compare(File{Path: older}, File{Path: newer}, Modified)
	require.NoError(t, err)
	require.Negative(t, cmp)
}

func TestCompressedFilesSortLast(t *testing.T) {
	plain := File{Path: "z.txt", Kind: KindPlain}
	compressed := File{Path: "a.txt", Kind: KindCompressed}

	cmp, err := Compare(compressed, plain, Name)
	require.NoError(t, err)
	require.Positive(t, cmp, "a compressed file must sort after a plain one regardless of name")

	cmp, err = Compare(plain, compressed, Name)
	require.NoError(t, err)
	require.Negative(t, cmp)
}

func TestFileCreatedIsUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Compare(File{Path: path}, File{Path: path}, Created)
	require.Error(t, err)
}

func TestCompareParentDir(t *testing.T) {
	cmp, err := CompareParentDir(File{Path: "/a/b/x.txt"}, File{Path: "/a/c/y.txt"}, 0)
	require.NoError(t, err)
	require.Negative(t, cmp)
}

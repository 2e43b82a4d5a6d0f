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

package archive

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zarc-project/zarc/block"
)

func writeTempFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func newTestConfig(archivePath string) Config {
	cfg := NewConfig()
	cfg.Memory = 1
	cfg.BlockSize = 64
	cfg.Threads = 2
	cfg.ExistingArchive = archivePath
	return cfg
}

func TestCreateExtractRoundTrip(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	f1 := writeTempFile(t, src, "alpha.txt", bytes.Repeat([]byte("alpha "), 50))
	f2 := writeTempFile(t, src, "beta.txt", []byte("a much shorter file"))

	archivePath := filepath.Join(out, "test.zarc")
	cfg := newTestConfig(archivePath)
	cfg.Mode = ModeCreate
	cfg.OutputDir = archivePath
	cfg.Inputs = []string{f1, f2}
	cfg.Method = block.MethodCM

	require.NoError(t, NewArchiver(cfg).Create(context.Background()))

	extractDir := filepath.Join(out, "extracted")
	ecfg := cfg
	ecfg.Mode = ModeExtract
	ecfg.OutputDir = extractDir

	require.NoError(t, NewExtractor(ecfg).Extract(context.Background()))

	got1, err := os.ReadFile(filepath.Join(extractDir, f1))
	require.NoError(t, err)
	want1, _ := os.ReadFile(f1)
	require.Equal(t, want1, got1)

	got2, err := os.ReadFile(filepath.Join(extractDir, f2))
	require.NoError(t, err)
	want2, _ := os.ReadFile(f2)
	require.Equal(t, want2, got2)
}

func TestCreateExtractRoundTripStoreMethod(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	f1 := writeTempFile(t, src, "data.bin", []byte{0x00, 0x01, 0x02, 0xFF, 0xFE})

	archivePath := filepath.Join(out, "test.zarc")
	cfg := newTestConfig(archivePath)
	cfg.Mode = ModeCreate
	cfg.OutputDir = archivePath
	cfg.Inputs = []string{f1}
	cfg.Method = block.MethodStore

	require.NoError(t, NewArchiver(cfg).Create(context.Background()))

	extractDir := filepath.Join(out, "extracted")
	ecfg := cfg
	ecfg.OutputDir = extractDir
	require.NoError(t, NewExtractor(ecfg).Extract(context.Background()))

	got, err := os.ReadFile(filepath.Join(extractDir, f1))
	require.NoError(t, err)
	want, _ := os.ReadFile(f1)
	require.Equal(t, want, got)
}

func TestExtractFilesOnlyWritesWantedFile(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	f1 := writeTempFile(t, src, "keep.txt", bytes.Repeat([]byte("keep "), 20))
	f2 := writeTempFile(t, src, "skip.txt", bytes.Repeat([]byte("skip "), 20))

	archivePath := filepath.Join(out, "test.zarc")
	cfg := newTestConfig(archivePath)
	cfg.Mode = ModeCreate
	cfg.OutputDir = archivePath
	cfg.Inputs = []string{f1, f2}
	cfg.Method = block.MethodLZW

	require.NoError(t, NewArchiver(cfg).Create(context.Background()))

	extractDir := filepath.Join(out, "extracted")
	ecfg := cfg
	ecfg.OutputDir = extractDir
	require.NoError(t, NewExtractor(ecfg).ExtractFiles(context.Background(), []string{f1}))

	_, err := os.Stat(filepath.Join(extractDir, f1))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(extractDir, f2))
	require.True(t, os.IsNotExist(err), "ExtractFiles must not write files that were not requested")
}

func TestAppendContinuesBlockIDs(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	f1 := writeTempFile(t, src, "first.txt", []byte("first file contents"))
	f2 := writeTempFile(t, src, "second.txt", []byte("second file contents, added later"))

	archivePath := filepath.Join(out, "test.zarc")
	cfg := newTestConfig(archivePath)
	cfg.Mode = ModeCreate
	cfg.OutputDir = archivePath
	cfg.Inputs = []string{f1}

	require.NoError(t, NewArchiver(cfg).Create(context.Background()))

	info, err := Scan(archivePath)
	require.NoError(t, err)
	firstCount := len(info.Blocks)

	acfg := cfg
	acfg.Mode = ModeAppend
	acfg.Inputs = []string{f2}
	require.NoError(t, NewArchiver(acfg).Append(context.Background()))

	info2, err := Scan(archivePath)
	require.NoError(t, err)
	require.Greater(t, len(info2.Blocks), firstCount)
	for i, blk := range info2.Blocks {
		require.EqualValues(t, i, blk.ID, "appended blocks must continue the id sequence contiguously")
	}

	extractDir := filepath.Join(out, "extracted")
	ecfg := cfg
	ecfg.Mode = ModeExtract
	ecfg.OutputDir = extractDir
	require.NoError(t, NewExtractor(ecfg).Extract(context.Background()))

	got1, err := os.ReadFile(filepath.Join(extractDir, f1))
	require.NoError(t, err)
	require.Equal(t, []byte("first file contents"), got1)

	got2, err := os.ReadFile(filepath.Join(extractDir, f2))
	require.NoError(t, err)
	require.Equal(t, []byte("second file contents, added later"), got2)
}

func TestListReportsBlocksAndFiles(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	f1 := writeTempFile(t, src, "only.txt", []byte("only file"))

	archivePath := filepath.Join(out, "test.zarc")
	cfg := newTestConfig(archivePath)
	cfg.Mode = ModeCreate
	cfg.OutputDir = archivePath
	cfg.Inputs = []string{f1}

	require.NoError(t, NewArchiver(cfg).Create(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, List(archivePath, &buf))
	require.Contains(t, buf.String(), "only.txt")
}

func TestConfigValidateRejectsOutOfRangeMemory(t *testing.T) {
	cfg := NewConfig()
	cfg.Mode = ModeCreate
	cfg.Inputs = []string{"x"}
	cfg.Memory = 99

	err := cfg.Validate()
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, ErrOutOfRangeMemory, cerr.Kind)
}

func TestConfigValidateRequiresInputsForCreate(t *testing.T) {
	cfg := NewConfig()
	cfg.Mode = ModeCreate

	err := cfg.Validate()
	require.Error(t, err)
}

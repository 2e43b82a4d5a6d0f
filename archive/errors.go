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

import "fmt"

// RuntimeErrorKind names an archive-level failure surfaced only after
// the pipeline has drained every job it already dispatched, mirroring
// original_source/src/error.rs's ArchiveError variants.
type RuntimeErrorKind int

const (
	ErrIncompatibleVersion RuntimeErrorKind = iota
	ErrChecksumMismatch
	ErrFileNotFound
	ErrIO
)

// RuntimeError reports a failure encountered while reading, writing, or
// verifying an archive. BlockID is set when the failure is attributable
// to one specific block.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	BlockID uint32
	Path    string
	Err     error
}

func (e *RuntimeError) Error() string {
	switch e.Kind {
	case ErrIncompatibleVersion:
		return fmt.Sprintf("archive: block %d: %v", e.BlockID, e.Err)
	case ErrChecksumMismatch:
		return fmt.Sprintf("archive: block %d checksum is invalid", e.BlockID)
	case ErrFileNotFound:
		return fmt.Sprintf("archive: %s not found", e.Path)
	default:
		return fmt.Sprintf("archive: %v", e.Err)
	}
}

func (e *RuntimeError) Unwrap() error { return e.Err }

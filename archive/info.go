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
	"fmt"
	"io"
	"text/tabwriter"
)

// methodName renders a block.Method the way a report should: short and
// human-legible, not the bare integer stored on disk.
func methodName(m uint8) string {
	switch m {
	case 0:
		return "cm"
	case 1:
		return "lzw"
	default:
		return "store"
	}
}

// List writes a per-block report of the archive at archivePath
// to w: id, compressed size, uncompressed size, method, memory level,
// and the files it covers.
func List(archivePath string, w io.Writer) error {
	info, err := Scan(archivePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "archive format version %d.%d.%d, %d block(s)\n\n",
		info.Version.Major, info.Version.Minor, info.Version.Patch, len(info.Blocks))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMETHOD\tMEM\tSIZE OUT\tSIZE IN\tFILES")
	for _, blk := range info.Blocks {
		files := ""
		for i, fr := range blk.Files {
			if i > 0 {
				files += ", "
			}
			files += fr.Path
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n",
			blk.ID, methodName(uint8(blk.Method)), blk.Memory, blk.SizeOut, blk.SizeIn, files)
	}
	return tw.Flush()
}

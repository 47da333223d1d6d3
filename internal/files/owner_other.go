//go:build !unix

package files

import "io/fs"

func ownership(fs.FileInfo) (owner, group string) {
	return "", ""
}

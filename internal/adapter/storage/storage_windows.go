//go:build windows

package storage

func init() {
	skipDirFsync = true
}

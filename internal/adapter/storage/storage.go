package storage

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gedb/gedb/domain"
)

// osOps abstracts the os package calls Storage makes, so tests can make
// individual filesystem operations fail at a precise point in a
// multi-step sequence (like the fsync/rename chain in
// CrashSafeWriteFileLines) without having to engineer real filesystem
// failures.
type osOps interface {
	IsNotExist(err error) bool
	MkdirAll(path string, perm os.FileMode) error
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
	Remove(name string) error
	Rename(oldpath, newpath string) error
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type realOSOps struct{}

func (realOSOps) IsNotExist(err error) bool                        { return os.IsNotExist(err) }
func (realOSOps) MkdirAll(path string, perm os.FileMode) error     { return os.MkdirAll(path, perm) }
func (realOSOps) Remove(name string) error                         { return os.Remove(name) }
func (realOSOps) Rename(oldpath, newpath string) error             { return os.Rename(oldpath, newpath) }
func (realOSOps) Stat(name string) (os.FileInfo, error)            { return os.Stat(name) }
func (realOSOps) WriteFile(n string, d []byte, p os.FileMode) error { return os.WriteFile(n, d, p) }
func (realOSOps) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

// Storage implements domain.Storage.
type Storage struct {
	osOpts osOps
}

// NewStorage returns a new implementation of domain.Storage.
func NewStorage() domain.Storage {
	return &Storage{osOpts: realOSOps{}}
}

// AppendFile implements domain.Storage.
func (d *Storage) AppendFile(filename string, mode os.FileMode, data []byte) (int, error) {
	f, err := d.osOpts.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, mode)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return f.Write(data)
}

// CrashSafeWriteFileLines implements domain.Storage. It runs through the
// fsync/rename sequence needed to guarantee that a crash at any point
// leaves either the old file or the fully-written new one on disk, never a
// truncated one: flush the directory, flush the existing file if any,
// write the replacement under a temp name, flush it, rename it into
// place, then flush the directory again so the rename itself is durable.
func (d *Storage) CrashSafeWriteFileLines(filename string, lines [][]byte, dirMode os.FileMode, fileMode os.FileMode) error {
	tempFilename := filename + "~"
	dir := filepath.Dir(filename)

	exists, err := d.Exists(filename)
	if err != nil {
		return err
	}

	steps := []func() error{
		func() error { return d.flushToStorage(dir, true, dirMode) },
	}
	if exists {
		steps = append(steps, func() error { return d.flushToStorage(filename, false, fileMode) })
	}
	steps = append(steps,
		func() error { return d.writeFileLines(tempFilename, lines, fileMode) },
		func() error { return d.flushToStorage(tempFilename, false, fileMode) },
		func() error { return d.rename(tempFilename, filename) },
		func() error { return d.flushToStorage(dir, true, dirMode) },
	)

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDatafileIntegrity implements domain.Storage.
func (d *Storage) EnsureDatafileIntegrity(filename string, mode os.FileMode) error {
	tempFilename := filename + "~"

	filenameExists, err := d.Exists(filename)
	if err != nil {
		return err
	}
	// Write was successful
	if filenameExists {
		return nil
	}

	oldFilenameExists, err := d.Exists(tempFilename)
	if err != nil {
		return err
	}
	// New database
	if !oldFilenameExists {
		return d.osOpts.WriteFile(filename, nil, mode)
	}
	return d.osOpts.Rename(tempFilename, filename)
}

// EnsureParentDirectoryExists implements domain.Storage.
func (d *Storage) EnsureParentDirectoryExists(filename string, mode os.FileMode) error {
	dir := filepath.Dir(filename)
	parsedDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	root := filepath.VolumeName(parsedDir) + string(os.PathSeparator)
	if runtime.GOOS != "windows" || parsedDir != root || filepath.Base(parsedDir) != "" {
		return d.osOpts.MkdirAll(parsedDir, mode)
	}
	return nil
}

// Exists implements domain.Storage.
func (d *Storage) Exists(filename string) (bool, error) {
	_, err := d.osOpts.Stat(filename)
	if err != nil {
		if d.osOpts.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// skipDirFsync disables fsync-ing a directory handle. Overridden to true on
// Windows, where a directory cannot be opened for the sync.
var skipDirFsync = false

func (d *Storage) flushToStorage(filename string, isDir bool, mode os.FileMode) error {
	if isDir && skipDirFsync {
		return nil
	}

	flags := os.O_RDWR
	if isDir {
		flags = os.O_RDONLY
	}

	fileHandle, err := d.osOpts.OpenFile(filename, flags, mode)
	if err != nil {
		return domain.ErrFlushToStorage{ErrorOnFsync: err}
	}

	if err := fileHandle.Sync(); err != nil {
		return domain.ErrFlushToStorage{ErrorOnFsync: err}
	}

	if err := fileHandle.Close(); err != nil {
		return domain.ErrFlushToStorage{ErrorOnClose: err}
	}

	return nil
}

// ReadFileStream implements domain.Storage.
func (d *Storage) ReadFileStream(filename string, mode os.FileMode) (io.ReadCloser, error) {
	return d.osOpts.OpenFile(filename, os.O_RDONLY, mode)
}

func (d *Storage) rename(oldPath string, newPath string) error {
	return d.osOpts.Rename(oldPath, newPath)
}

// writeFileLines writes each line followed by a newline. It never appends
// into a caller-owned line slice, since a line's backing array may have
// spare capacity shared with other data.
func (d *Storage) writeFileLines(filename string, lines [][]byte, mode os.FileMode) error {
	stream, err := d.writeFileStream(filename, mode)
	if err != nil {
		return err
	}
	defer stream.Close()

	w := bufio.NewWriter(stream)
	for _, line := range lines {
		if _, err := w.Write(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (d *Storage) writeFileStream(filename string, mode os.FileMode) (io.WriteCloser, error) {
	return d.osOpts.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
}

// Remove implements domain.Storage.
func (d *Storage) Remove(filename string) error {
	return d.osOpts.Remove(filename)
}

package io

import (
	"io"
	"os"
	"path/filepath"
)

// CreateFS defines a file system interface that supports creating and
// replacing files. It lets memory images be written without exposing a
// partially written file under the final name.
type CreateFS interface {
	// Create creates a new file for writing, truncating any existing file.
	Create(name string) (file io.WriteCloser, err error)
	// Rename atomically replaces newname with oldname.
	Rename(oldname, newname string) (err error)
	// Remove deletes a file.
	Remove(name string) (err error)
}

// DirFS is a CreateFS rooted at a host directory.
type DirFS string

var _ CreateFS = DirFS("")

func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	return os.Create(filepath.Join(string(dir), name))
}

func (dir DirFS) Rename(oldname, newname string) (err error) {
	return os.Rename(filepath.Join(string(dir), oldname), filepath.Join(string(dir), newname))
}

func (dir DirFS) Remove(name string) (err error) {
	return os.Remove(filepath.Join(string(dir), name))
}

// WriteFile writes the output of wt to name. The data is written to a
// temporary file first, and only renamed over name once completely
// written, so an existing file is left untouched on failure.
func WriteFile(filesys CreateFS, name string, wt io.WriterTo) (err error) {
	tmp := "." + name + ".tmp"

	file, err := filesys.Create(tmp)
	if err != nil {
		return
	}

	defer func() {
		if err != nil {
			filesys.Remove(tmp)
		}
	}()

	_, err = wt.WriteTo(file)
	if err != nil {
		file.Close()
		return
	}

	err = file.Close()
	if err != nil {
		return
	}

	err = filesys.Rename(tmp, name)
	return
}

package web

import (
	"io/fs"
	"net/http"
	"strings"
)

// uploadFS serves stored images only. Directories and dotfiles, which
// include in-flight uploads, are reported as missing.
type uploadFS struct {
	root http.FileSystem
}

func (u uploadFS) Open(name string) (http.File, error) {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return nil, fs.ErrNotExist
		}
	}

	f, err := u.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

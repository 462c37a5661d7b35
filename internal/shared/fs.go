package shared

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// RootFS returns an OS filesystem rooted at dir. A missing dir surfaces when
// the filesystem is first walked.
func RootFS(dir string) (billy.Filesystem, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return osfs.New(abs), nil
}

// FileFS returns an OS filesystem rooted at the parent of path and the
// file's name inside it. The file itself may not exist yet.
func FileFS(path string) (billy.Filesystem, string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return osfs.New(filepath.Dir(abs)), filepath.Base(abs)
}

package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput writes every exchange into its own file inside a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput creates a fresh "dump-*" directory inside `dir`
// (creating `dir` if needed), existing files are never touched.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	directory, err := os.MkdirTemp(dir, "dump-")
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: directory}, nil
}

// Directory is where the exchanges of this output are written.
func (o FilesystemOutput) Directory() string {
	return o.directory
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

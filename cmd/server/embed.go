package main

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
)

// embeddedSQLFS contains the setup files for the postgres user backend.
//
//go:embed sql
var embeddedSQLFS embed.FS

// sqlSetupFiles reads the embedded SQL files in the order they must be executed.
// The users table must exist before the functions that manage it are created.
func sqlSetupFiles(fsys fs.FS) ([]io.Reader, error) {
	fileNames := []string{
		"users.sql",
		"user_create.sql",
		"user_read.sql",
		"user_update_password.sql",
		"user_update_points_increment.sql",
		"user_delete.sql",
	}
	files := make([]io.Reader, len(fileNames))
	for i, n := range fileNames {
		b, err := fs.ReadFile(fsys, "sql/"+n)
		if err != nil {
			return nil, fmt.Errorf("reading embedded sql file %v: %w", n, err)
		}
		files[i] = bytes.NewReader(b)
	}
	return files, nil
}

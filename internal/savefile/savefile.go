// Package savefile loads and stores tag-tree documents on disk.
//
// Writes go through a temporary sibling that is fsynced and renamed over the
// target, so a crash mid-save leaves either the old file or the new one.
package savefile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/louisbranch/savegraft/internal/nbt"
	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
)

// BackupSuffix is appended to a file name to form its backup path.
const BackupSuffix = "_old"

const defaultMode fs.FileMode = 0o644

// Load reads and decodes the document at path.
func Load(path string) (*nbt.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fileError(err, "read", path)
	}
	doc, err := nbt.DecodeBytes(data)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeFormat, "decode "+path, pathMeta(path), err)
	}
	return doc, nil
}

// Save encodes doc and atomically replaces path with the result. An existing
// file keeps its permission bits.
func Save(path string, doc *nbt.Document) error {
	data, err := nbt.EncodeBytes(doc)
	if err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeFormat, "encode "+path, pathMeta(path), err)
	}

	mode := defaultMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fileError(err, "create temp for", path)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fileError(err, "write", path)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fileError(err, "sync", path)
	}
	if err := tmp.Close(); err != nil {
		return fileError(err, "close", path)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fileError(err, "chmod", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fileError(err, "replace", path)
	}
	committed = true
	return nil
}

// Backup copies path to path+BackupSuffix, replacing any earlier backup, and
// returns the backup location.
func Backup(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fileError(err, "open", path)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fileError(err, "stat", path)
	}

	backupPath := path + BackupSuffix
	dst, err := os.OpenFile(backupPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", fileError(err, "create backup", backupPath)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fileError(err, "copy backup", backupPath)
	}
	if err := dst.Close(); err != nil {
		return "", fileError(err, "close backup", backupPath)
	}
	return backupPath, nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func fileError(err error, op, path string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.WrapWithMetadata(apperrors.CodeNotFound, fmt.Sprintf("%s %s", op, path), pathMeta(path), err)
	}
	return apperrors.WrapWithMetadata(apperrors.CodeIO, fmt.Sprintf("%s %s", op, path), pathMeta(path), err)
}

func pathMeta(path string) map[string]string {
	return map[string]string{"Path": path}
}

package clients

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore publishes generated files and hands back a download URL.
type FileStore interface {
	Publish(ctx context.Context, fileName string, data []byte, contentType string) (string, error)
}

type StorageClient struct {
	BaseDir      string // absolute or relative directory to store files
	PublicPrefix string // URL prefix where files are served, e.g. "/files"
	BaseURL      string // optional scheme+host[:port] used to build absolute URLs
}

// NewLocalStorage creates a storage client; baseDir will be created if missing.
func NewLocalStorage(baseDir, publicPrefix, baseURL string) (*StorageClient, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if publicPrefix == "" {
		publicPrefix = "/files"
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure storage dir %q: %w", baseDir, err)
	}

	return &StorageClient{BaseDir: baseDir, PublicPrefix: publicPrefix, BaseURL: baseURL}, nil
}

// Save writes data under a random prefix and returns the stored file name.
func (s *StorageClient) Save(ctx context.Context, fileName string, data []byte) (string, error) {
	fileName = filepath.Base(fileName)

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	final := fmt.Sprintf("%s_%s", hex.EncodeToString(randBytes), fileName)

	path := filepath.Join(s.BaseDir, final)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize file: %w", err)
	}

	return final, nil
}

func (s *StorageClient) Publish(ctx context.Context, fileName string, data []byte, _ string) (string, error) {
	saved, err := s.Save(ctx, fileName, data)
	if err != nil {
		return "", err
	}
	return s.GetURL(saved), nil
}

// GetURL returns the public URL of a saved file, absolute when BaseURL is set.
func (s *StorageClient) GetURL(fileName string) string {
	prefix := s.PublicPrefix
	if prefix == "" {
		prefix = "/files"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	if s.BaseURL != "" {
		return fmt.Sprintf("%s%s/%s", strings.TrimSuffix(s.BaseURL, "/"), prefix, fileName)
	}
	return fmt.Sprintf("%s/%s", prefix, fileName)
}

// Open resolves a stored file name. The name must not leave BaseDir.
func (s *StorageClient) Open(fileName string) (path string, original string, err error) {
	if fileName != filepath.Base(fileName) || strings.HasPrefix(fileName, ".") {
		return "", "", fs.ErrNotExist
	}
	path = filepath.Join(s.BaseDir, fileName)
	if _, err := os.Stat(path); err != nil {
		return "", "", err
	}

	original = fileName
	if idx := strings.IndexByte(fileName, '_'); idx >= 0 {
		original = fileName[idx+1:]
	}
	return path, original, nil
}

// CleanupOlderThan deletes files older than d in the base dir.
func (s *StorageClient) CleanupOlderThan(d time.Duration) error {
	now := time.Now()
	return filepath.WalkDir(s.BaseDir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			return nil
		}
		info, err := de.Info()
		if err != nil {
			return nil
		}
		if now.Sub(info.ModTime()) > d {
			_ = os.Remove(path) // best-effort
		}
		return nil
	})
}

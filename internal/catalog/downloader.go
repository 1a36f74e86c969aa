package catalog

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultCacheDir holds downloaded catalogs between runs
const DefaultCacheDir = "~/.cache/watchrec"

// DownloadConfig configures catalog downloading
type DownloadConfig struct {
	CacheDir      string
	ForceDownload bool
	Client        *http.Client
}

// Downloader fetches remote catalogs into a local cache
type Downloader struct {
	config DownloadConfig
}

// NewDownloader creates a new catalog downloader
func NewDownloader(config DownloadConfig) *Downloader {
	if config.CacheDir == "" {
		config.CacheDir = DefaultCacheDir
	}

	// Expand ~ to home directory
	if strings.HasPrefix(config.CacheDir, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			config.CacheDir = filepath.Join(homeDir, config.CacheDir[1:])
		}
	}

	if config.Client == nil {
		config.Client = &http.Client{Timeout: 5 * time.Minute}
	}

	return &Downloader{config: config}
}

// IsRemote reports whether source is an http(s) URL rather than a file path
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// CachePath returns where the catalog at rawURL is cached. The file keeps
// the URL's base name so its extension still selects the loader.
func (d *Downloader) CachePath(rawURL string) string {
	base := "catalog.csv"
	if u, err := url.Parse(rawURL); err == nil {
		if b := path.Base(u.Path); b != "." && b != "/" && b != "" {
			base = b
		}
	}
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(d.config.CacheDir, fmt.Sprintf("%x-%s", sum[:6], base))
}

// Resolve returns a local path for source, downloading it first when it is a URL
func (d *Downloader) Resolve(ctx context.Context, source string) (string, error) {
	if !IsRemote(source) {
		return source, nil
	}

	if err := os.MkdirAll(d.config.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cachedPath := d.CachePath(source)

	if !d.config.ForceDownload {
		if _, err := os.Stat(cachedPath); err == nil {
			slog.Info("Using cached catalog", "path", cachedPath)
			return cachedPath, nil
		}
	}

	slog.Info("Downloading catalog", "url", source)

	if err := d.downloadFile(ctx, source, cachedPath); err != nil {
		return "", fmt.Errorf("failed to download catalog: %w", err)
	}

	slog.Info("Catalog downloaded successfully", "path", cachedPath)
	return cachedPath, nil
}

// downloadFile streams url into destPath via a temporary file
func (d *Downloader) downloadFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.config.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	tempPath := destPath + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("download failed: %w", err)
	}

	slog.Debug("Catalog bytes written", "bytes", written, "path", tempPath)

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move file: %w", err)
	}

	return nil
}

// ClearCache removes every cached catalog
func (d *Downloader) ClearCache() error {
	slog.Info("Clearing cache", "path", d.config.CacheDir)
	return os.RemoveAll(d.config.CacheDir)
}

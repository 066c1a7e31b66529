package ytdlp

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ytscribe/internal/services"
)

// WriteCookies decodes a base64 Netscape cookie jar into a uniquely named
// file inside dir and returns its path. An empty blob yields "" and no file.
func WriteCookies(dir, b64 string) (string, error) {
	blob := strings.Join(strings.Fields(b64), "")
	if blob == "" {
		return "", nil
	}
	data, err := decodeBase64(blob)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, stageDownload, "decode cookies", "downloader.cookies_b64 is not valid base64", err)
	}
	if len(data) == 0 {
		return "", services.Wrap(services.ErrConfiguration, stageDownload, "decode cookies", "downloader.cookies_b64 decodes to nothing", nil)
	}
	path := filepath.Join(dir, "cookies-"+uuid.NewString()+".txt")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", services.Wrap(services.ErrDownload, stageDownload, "write cookies", path, err)
	}
	return path, nil
}

// RemoveCookies deletes a cookie file written by WriteCookies.
func RemoveCookies(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func decodeBase64(blob string) ([]byte, error) {
	if data, err := base64.StdEncoding.DecodeString(blob); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(blob, "="))
}

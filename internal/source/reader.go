package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"course-catalog/internal/httpx"
	"course-catalog/internal/sftpclient"
)

// Reader fetches documents from local paths, http(s) URLs or sftp URLs.
type Reader struct {
	HTTP  *http.Client
	Retry httpx.RetryConfig
	SFTP  sftpclient.Config
}

func NewReader(sftpCfg sftpclient.Config) *Reader {
	return &Reader{
		HTTP:  http.DefaultClient,
		Retry: httpx.DefaultRetryConfig(),
		SFTP:  sftpCfg,
	}
}

// Read fetches and decodes the document at location. Errors wrap ErrUnavailable.
func (r *Reader) Read(ctx context.Context, location string) (Document, error) {
	raw, name, err := r.fetch(ctx, location)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s: %v", ErrUnavailable, location, err)
	}
	doc, err := Decode(name, raw)
	if err != nil {
		return Document{}, err
	}
	doc.Name = location
	return doc, nil
}

// Fetch returns the raw content at location, brotli-decompressed when the
// name ends in ".br". Errors wrap ErrUnavailable.
func (r *Reader) Fetch(ctx context.Context, location string) ([]byte, error) {
	raw, name, err := r.fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, location, err)
	}
	data, _, err := Decompress(name, raw)
	return data, err
}

func (r *Reader) fetch(ctx context.Context, location string) ([]byte, string, error) {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, "", err
		}
		body, err := httpx.GetBytes(ctx, r.HTTP, location, r.Retry)
		return body, path.Base(u.Path), err

	case strings.HasPrefix(location, "sftp://"):
		cfg, remote, err := sftpclient.FromURL(r.SFTP, location)
		if err != nil {
			return nil, "", err
		}
		body, err := sftpclient.Download(ctx, cfg, remote)
		return body, path.Base(remote), err

	default:
		body, err := os.ReadFile(location)
		return body, location, err
	}
}

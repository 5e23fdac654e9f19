package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const uploadEndpoint = "https://storage.googleapis.com/upload/storage/v1/b/%s/o?uploadType=media&name=%s"

// Upload streams the object body into the bucket and returns its public URL.
func (b *Bucket) Upload(ctx context.Context, objectKey, contentType string, body io.Reader) (string, error) {
	if b == nil || b.client == nil {
		return "", errors.New("storage bucket not initialized")
	}
	if strings.TrimSpace(objectKey) == "" {
		return "", errors.New("object key is required")
	}

	token, err := b.client.tokenSource.Token(ctx)
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf(uploadEndpoint, url.PathEscape(b.name), url.QueryEscape(objectKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := b.client.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading object: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("storage upload returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	return b.PublicURL(objectKey), nil
}

// Delete removes the object. Missing objects are treated as deleted so the
// cleanup job can retry safely.
func (b *Bucket) Delete(ctx context.Context, objectKey string) error {
	if b == nil || b.client == nil {
		return errors.New("storage bucket not initialized")
	}
	if strings.TrimSpace(objectKey) == "" {
		return errors.New("object key is required")
	}

	token, err := b.client.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf(
		"https://storage.googleapis.com/storage/v1/b/%s/o/%s",
		url.PathEscape(b.name),
		url.PathEscape(objectKey),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := b.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("storage delete returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	return nil
}

// PublicURL builds the canonical public object URL.
func (b *Bucket) PublicURL(objectKey string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.name, objectKey)
}

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload sends a single file as a multipart form body. Uploads always
// require auth and share bearer injection, the timeout, and failure
// classification with Do.
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("api: build form: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return fmt.Errorf("api: read upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("api: finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), &buf)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	c.attachToken(ctx, httpReq, true)

	return c.send(ctx, httpReq, out)
}

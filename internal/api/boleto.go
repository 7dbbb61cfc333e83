package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/zombor/boleto-client/internal/acquire"
)

const (
	uploadPath          = "/boleto/upload"
	uploadImageField    = "image"
	uploadPasswordField = "password"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadBoleto posts the payload and its password as a multipart form.
// The password field is always sent, even when empty.
func (c *Client) UploadBoleto(ctx context.Context, payload *acquire.Payload) (Result, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("validating payload: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		uploadImageField, quoteEscaper.Replace(payload.Filename)))
	header.Set("Content-Type", payload.MimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating image part: %w", err)
	}
	if _, err := part.Write(payload.Data); err != nil {
		return nil, fmt.Errorf("writing image part: %w", err)
	}
	if err := writer.WriteField(uploadPasswordField, payload.Password); err != nil {
		return nil, fmt.Errorf("writing password field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	return c.do(ctx, http.MethodPost, uploadPath, writer.FormDataContentType(), &body)
}

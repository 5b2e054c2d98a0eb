package hrsdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
)

// Resource is the generic request/response contract page modules use against
// one REST resource group (employees, leave requests, assets, ...). No
// per-screen logic lives here.
type Resource struct {
	client *Client
	base   string // e.g. "/employees"
}

// NewResource binds a resource group rooted at base to the client.
func (c *Client) NewResource(base string) *Resource {
	return &Resource{client: c, base: base}
}

// List fetches the collection, optionally filtered by query parameters, and
// decodes the envelope data into out.
func (r *Resource) List(ctx context.Context, query url.Values, out any) error {
	path := r.base
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return r.request(ctx, http.MethodGet, path, nil, out)
}

// Get fetches a single record by id.
func (r *Resource) Get(ctx context.Context, id string, out any) error {
	return r.request(ctx, http.MethodGet, r.base+"/"+url.PathEscape(id), nil, out)
}

// Create posts a new record.
func (r *Resource) Create(ctx context.Context, in, out any) error {
	return r.request(ctx, http.MethodPost, r.base, in, out)
}

// Update replaces a record by id.
func (r *Resource) Update(ctx context.Context, id string, in, out any) error {
	return r.request(ctx, http.MethodPut, r.base+"/"+url.PathEscape(id), in, out)
}

// Delete removes a record by id.
func (r *Resource) Delete(ctx context.Context, id string) error {
	return r.request(ctx, http.MethodDelete, r.base+"/"+url.PathEscape(id), nil, nil)
}

func (r *Resource) request(ctx context.Context, method, path string, in, out any) error {
	env, err := r.client.doJSON(ctx, method, path, in)
	if err != nil {
		return err
	}
	if !env.Success {
		return &APIError{StatusCode: http.StatusOK, Message: env.Message, FieldErrors: env.Errors}
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &ContractError{Op: method + " " + path, Detail: "payload does not decode"}
		}
	}
	return nil
}

// Upload sends a document as multipart/form-data under the given field name,
// with optional extra form fields, and decodes the envelope data into out.
func (r *Resource) Upload(
	ctx context.Context,
	subpath, field, filename string,
	content io.Reader,
	fields map[string]string,
	out any,
) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to buffer upload: %w", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write form field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	status, _, respBody, err := r.client.call(ctx, http.MethodPost, r.base+subpath, buf.Bytes(), mw.FormDataContentType())
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return normalizeErrorResponse(status, respBody)
	}

	var env Envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return &ContractError{Op: "upload " + r.base + subpath, Detail: "response body is not a valid envelope"}
	}
	if !env.Success {
		return &APIError{StatusCode: status, Message: env.Message, FieldErrors: env.Errors}
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &ContractError{Op: "upload " + r.base + subpath, Detail: "payload does not decode"}
		}
	}
	return nil
}

// Download fetches a binary blob (document, report export) and returns its
// bytes together with the filename suggested by Content-Disposition, if any.
// Callers drive the save-as flow themselves.
func (c *Client) Download(ctx context.Context, path string) ([]byte, string, error) {
	status, header, body, err := c.call(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, "", err
	}
	if status < 200 || status >= 300 {
		return nil, "", normalizeErrorResponse(status, body)
	}

	filename := ""
	if cd := header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			filename = params["filename"]
		}
	}

	return body, filename, nil
}

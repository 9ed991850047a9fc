// Package rest implements the BillStore port against a remote bill
// collection over HTTP: JSON for reads and updates, multipart form for the
// create-with-receipt upload.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/billed-app/billed-backend/internal/apperrors"
	"github.com/billed-app/billed-backend/internal/core/domain"
	"golang.org/x/oauth2"
)

const requestTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a store client for the remote collection at baseURL.
// When token is non-empty, requests carry it as a bearer token via an
// oauth2 static token source.
func NewClient(baseURL, token string) *Client {
	httpClient := &http.Client{Timeout: requestTimeout}
	if token != "" {
		httpClient = oauth2.NewClient(context.Background(),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		httpClient.Timeout = requestTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) List(ctx context.Context) ([]domain.Bill, error) {
	var bills []domain.Bill
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/bills", nil, "", &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (c *Client) Get(ctx context.Context, id string) (*domain.Bill, error) {
	var bill domain.Bill
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/bills/"+id, nil, "", &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// Create uploads the receipt blob and the draft fields as one multipart
// form. The store assigns the id and the fileUrl.
func (c *Client) Create(ctx context.Context, draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if receipt != nil {
		part, err := writer.CreateFormFile("file", receipt.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
		if _, err := part.Write(receipt.Content); err != nil {
			return nil, fmt.Errorf("failed to write receipt into multipart body: %w", err)
		}
	}

	fields := map[string]string{
		"type":       draft.Type,
		"name":       draft.Name,
		"date":       draft.Date,
		"amount":     draft.Amount.String(),
		"vat":        draft.VAT,
		"pct":        strconv.Itoa(draft.Pct),
		"commentary": draft.Commentary,
		"status":     string(draft.Status),
		"email":      draft.Email,
		"fileName":   draft.FileName,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var bill domain.Bill
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/bills", &body, writer.FormDataContentType(), &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (c *Client) Update(ctx context.Context, id string, bill domain.Bill) (*domain.Bill, error) {
	payload, err := json.Marshal(bill)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bill %s: %w", id, err)
	}
	var updated domain.Bill
	if err := c.doJSON(ctx, http.MethodPut, c.baseURL+"/bills/"+id, bytes.NewReader(payload), "application/json", &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// doJSON performs one request and decodes a JSON response into out. A
// transport failure or a non-2xx response surfaces as a StoreError; there is
// no retry at this layer.
func (c *Client) doJSON(ctx context.Context, method, url string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewStoreError(0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return apperrors.NewStoreError(resp.StatusCode, readErrorMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewStoreError(resp.StatusCode, fmt.Sprintf("malformed store response: %v", err))
	}
	return nil
}

// readErrorMessage extracts the store's error text, preferring the JSON
// {"error": "..."} shape and falling back to the raw body.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

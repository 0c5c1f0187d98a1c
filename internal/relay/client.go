package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Payload is one contact submission as sent to the relay.
type Payload struct {
	Name      string
	Email     string
	Message   string
	AccessKey string
	Subject   string
	FromName  string
}

// Fields returns the multipart fields in wire order.
func (p Payload) Fields() [][2]string {
	return [][2]string{
		{"name", p.Name},
		{"email", p.Email},
		{"message", p.Message},
		{"access_key", p.AccessKey},
		{"subject", p.Subject},
		{"from_name", p.FromName},
	}
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client posts submissions to a form-relay endpoint. Each Submit is a
// single attempt; there is no retry.
type Client struct {
	Endpoint string
	HTTP     *http.Client
	Log      *zap.Logger
}

func NewClient(endpoint string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{Endpoint: endpoint, HTTP: httpClient, Log: log}
}

// Submit performs exactly one POST and normalizes the result.
func (c *Client) Submit(ctx context.Context, p Payload) Outcome {
	body, contentType, err := encode(p)
	if err != nil {
		c.Log.Error("encode relay payload", zap.Error(err))
		return Failed(FailureUnknown, 0)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, body)
	if err != nil {
		c.Log.Error("build relay request", zap.Error(err))
		return Failed(FailureUnknown, 0)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Warn("relay unreachable", zap.Error(err))
		return Failed(FailureNetwork, 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.Log.Warn("relay returned error status", zap.Int("status", resp.StatusCode))
		return Failed(FailureHTTP, resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.Log.Warn("relay response not decodable", zap.Error(err))
		return Failed(FailureUnknown, resp.StatusCode)
	}
	if !decoded.Success {
		c.Log.Info("relay rejected submission", zap.String("message", decoded.Message))
		return Rejected(decoded.Message)
	}
	return Succeeded(p.Name)
}

func encode(p Payload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range p.Fields() {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

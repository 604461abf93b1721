package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/model"
)

// Transport delivers a record to the registration intake.
type Transport interface {
	Send(ctx context.Context, rec model.RegistrationRecord) error
}

// Mode selects how much of the intake's response the transport trusts.
type Mode int

const (
	// ModeOpaque treats any completed HTTP exchange as success. The
	// intake's status and body are never inspected, so a server-side
	// rejection is indistinguishable from success.
	ModeOpaque Mode = iota
	// ModeStatus reads the status envelope and reports intake rejections.
	ModeStatus
)

func (m Mode) String() string {
	if m == ModeStatus {
		return "status"
	}
	return "opaque"
}

// ParseMode parses "opaque" or "status". Empty means opaque.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "opaque", "no-cors":
		return ModeOpaque, nil
	case "status":
		return ModeStatus, nil
	default:
		return ModeOpaque, fmt.Errorf("unknown transport mode %q", s)
	}
}

// ErrNoEndpoint is returned before any I/O when no intake URL is set.
var ErrNoEndpoint = errors.New("intake endpoint not configured")

// IntakeError is a rejection reported by the intake in ModeStatus.
type IntakeError struct {
	StatusCode int
	Message    string
}

func (e *IntakeError) Error() string {
	return e.Message
}

const maxResponseBytes = 1 << 20

// HTTPTransport posts records as JSON to the intake endpoint.
type HTTPTransport struct {
	Endpoint string
	Mode     Mode
	Client   *http.Client
}

// NewHTTPTransport constructs an HTTPTransport using http.DefaultClient.
// No timeout is imposed beyond the client's own.
func NewHTTPTransport(endpoint string, mode Mode) *HTTPTransport {
	return &HTTPTransport{Endpoint: endpoint, Mode: mode, Client: http.DefaultClient}
}

// Send issues exactly one POST carrying rec.
func (t *HTTPTransport) Send(ctx context.Context, rec model.RegistrationRecord) error {
	if strings.TrimSpace(t.Endpoint) == "" {
		return ErrNoEndpoint
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send registration: %w", err)
	}
	defer resp.Body.Close()

	if t.Mode == ModeOpaque {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}

	var env model.StatusResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || env.Status == model.StatusError {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("intake returned %s", resp.Status)
		}
		return &IntakeError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode intake response: %w", decodeErr)
	}
	return nil
}

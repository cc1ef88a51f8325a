package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

// HTTPVerifier checks credentials against a remote identity service exposing
// POST <base>/verify. 200 carries the user record, 401 means the credentials
// did not match, anything else is treated as an outage.
type HTTPVerifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPVerifier(baseURL string, timeout time.Duration) *HTTPVerifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyResponse struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	body, err := json.Marshal(verifyRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		// Transport failure or timeout: fail closed, never implicit allow.
		return nil, domain.ErrServiceUnavailable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var vr verifyResponse
		if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
			return nil, domain.ErrServiceUnavailable
		}
		return &domain.User{
			ID:          vr.ID,
			Username:    vr.Username,
			DisplayName: vr.DisplayName,
			Email:       vr.Email,
			Role:        domain.Role(vr.Role),
			Permissions: vr.Permissions,
		}, nil
	case http.StatusUnauthorized, http.StatusNotFound:
		return nil, domain.ErrInvalidCredentials
	default:
		return nil, domain.ErrServiceUnavailable
	}
}

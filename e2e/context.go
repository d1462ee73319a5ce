package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestContext carries one scenario's state: the caller's token, the last
// response and any values saved between steps.
type TestContext struct {
	BaseURL     string
	SigningKey  string
	Issuer      string

	client      *http.Client
	token       string
	lastStatus  int
	lastHeaders http.Header
	lastBody    []byte
	saved       map[string]string
}

func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL:     envOr("E2E_BASE_URL", "http://localhost:8080"),
		SigningKey:  envOr("E2E_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Issuer:      envOr("E2E_JWT_ISSUER", "dealchecker"),
		client:      &http.Client{Timeout: 10 * time.Second},
		saved:       map[string]string{},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type claims struct {
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Authenticate mints a token the server accepts for the given identity.
func (tc *TestContext) Authenticate(userID, role string, permissions []string) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:      userID,
		Role:        role,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tc.Issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	})
	signed, err := token.SignedString([]byte(tc.SigningKey))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	tc.token = signed
	return nil
}

func (tc *TestContext) ClearToken() {
	tc.token = ""
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, tc.BaseURL+path, nil, headers)
}

func (tc *TestContext) POST(path string, body any, headers map[string]string) error {
	return tc.do(http.MethodPost, tc.BaseURL+path, body, headers)
}

func (tc *TestContext) do(method, url string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	tc.lastStatus = resp.StatusCode
	tc.lastHeaders = resp.Header
	return nil
}

func (tc *TestContext) GetLastStatusCode() int {
	return tc.lastStatus
}

func (tc *TestContext) GetLastHeader(name string) string {
	return tc.lastHeaders.Get(name)
}

func (tc *TestContext) GetLastBody() []byte {
	return tc.lastBody
}

// GetResponseField resolves a dotted path such as "tasks.0.id" in the last
// JSON response.
func (tc *TestContext) GetResponseField(path string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.lastBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	current := doc
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in response", path)
			}
			current = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, path)
			}
			current = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q", path)
		}
	}
	return current, nil
}

func (tc *TestContext) Save(name, value string) {
	tc.saved[name] = value
}

func (tc *TestContext) Saved(name string) (string, error) {
	v, ok := tc.saved[name]
	if !ok {
		return "", fmt.Errorf("nothing saved as %q", name)
	}
	return v, nil
}

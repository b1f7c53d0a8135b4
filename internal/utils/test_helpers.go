package utils

import (
	"os"
	"testing"

	"cephlog-mcp/internal/models"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SetupTestConfig builds a configuration for tests that talk to a real
// cluster. It reads TEST_CEPHLOG_API_TOKEN and TEST_CEPHLOG_BASE_URL
// from the environment and returns a TestConfigError when either is
// missing.
func SetupTestConfig() (*models.Config, error) {
	token := os.Getenv("TEST_CEPHLOG_API_TOKEN")
	if token == "" {
		return nil, &TestConfigError{Message: "TEST_CEPHLOG_API_TOKEN not set"}
	}
	baseURL := os.Getenv("TEST_CEPHLOG_BASE_URL")
	if baseURL == "" {
		return nil, &TestConfigError{Message: "TEST_CEPHLOG_BASE_URL not set"}
	}

	return &models.Config{
		APIToken: token,
		BaseURL:  baseURL,
	}, nil
}

// TestConfigError marks a test environment that is not configured for
// live cluster tests.
type TestConfigError struct {
	Message string
}

func (e *TestConfigError) Error() string {
	return e.Message
}

// SetupTestConfigOrSkip builds a live-cluster test configuration, or
// skips the test when the environment is not configured for one.
func SetupTestConfigOrSkip(t *testing.T) *models.Config {
	t.Helper()
	cfg, err := SetupTestConfig()
	if err != nil {
		if _, ok := err.(*TestConfigError); ok {
			t.Skipf("Skipping live cluster test: %v", err)
		}
		t.Fatalf("failed to setup test config: %v", err)
	}
	return cfg
}

// GetTextContent extracts TextContent from a CallToolResult, failing
// the test if the result carries anything else.
func GetTextContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatalf("expected content in result")
	}
	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent type")
	}
	return textContent.Text
}

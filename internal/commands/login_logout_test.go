package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

// TestLoginCommand_NoOAuthClient verifies login fails without oauth_client.json
func TestLoginCommand_NoOAuthClient(t *testing.T) {
	cmd := &commands.LoginCmd{}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}

	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	if !strings.Contains(errBuf.String(), "oauth_client.json not found") {
		t.Errorf("expected setup instructions, got %q", errBuf.String())
	}
	if !strings.Contains(errBuf.String(), "todo login") {
		t.Errorf("setup instructions should name the login command, got %q", errBuf.String())
	}
}

// TestLoginCommand_TokenWithoutRefresh verifies login does not trust a token
// that cannot be refreshed.
func TestLoginCommand_TokenWithoutRefresh(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"no refresh token", `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`},
		{"corrupt", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &commands.LoginCmd{}
			tmpDir := t.TempDir()

			if err := os.WriteFile(filepath.Join(tmpDir, config.OAuthClientFile), []byte(testOAuthClient), 0600); err != nil {
				t.Fatalf("failed to write oauth_client.json: %v", err)
			}
			if err := os.WriteFile(filepath.Join(tmpDir, config.TokenFile), []byte(tt.token), 0600); err != nil {
				t.Fatalf("failed to write token.json: %v", err)
			}

			var outBuf, errBuf bytes.Buffer
			cfg := &config.Config{Dir: tmpDir}

			// Cancelled up front so the command does not wait for a callback.
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			code := cmd.Run(ctx, cfg, nil, nil, &outBuf, &errBuf)

			if outBuf.String() == "already logged in\n" {
				t.Error("should not say 'already logged in' with an unusable token")
			}
			if code != exitcode.AuthError {
				t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
			}
		})
	}
}

// TestLogoutCommand_OnlyRemovesToken verifies logout only removes token.json
func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	cmd := &commands.LogoutCmd{}
	tmpDir := t.TempDir()

	oauthPath := filepath.Join(tmpDir, config.OAuthClientFile)
	if err := os.WriteFile(oauthPath, []byte(testOAuthClient), 0600); err != nil {
		t.Fatalf("failed to write oauth_client.json: %v", err)
	}
	tokenPath := filepath.Join(tmpDir, config.TokenFile)
	if err := os.WriteFile(tokenPath, []byte(`{"access_token":"test","refresh_token":"test"}`), 0600); err != nil {
		t.Fatalf("failed to write token.json: %v", err)
	}
	dataPath := filepath.Join(tmpDir, config.JSONFile)
	if err := os.WriteFile(dataPath, []byte(`{}`), 0600); err != nil {
		t.Fatalf("failed to write todo.json: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: tmpDir}

	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "logged out\n" {
		t.Errorf("expected 'logged out\\n', got %q", outBuf.String())
	}

	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(oauthPath); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
	if _, err := os.Stat(dataPath); err != nil {
		t.Error("task data should NOT have been deleted")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	tests := []struct {
		name  string
		quiet bool
		want  string
	}{
		{"normal", false, "not logged in\n"},
		{"quiet", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &commands.LogoutCmd{}

			var outBuf, errBuf bytes.Buffer
			cfg := &config.Config{Dir: t.TempDir(), Quiet: tt.quiet}

			code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if errBuf.String() != "" {
				t.Errorf("expected no stderr, got %q", errBuf.String())
			}
			if outBuf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, outBuf.String())
			}
		})
	}
}

package integration_testing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/flexclub/memberpulse/internal/auth"
	"github.com/flexclub/memberpulse/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// login authenticates as the test admin and returns the session token.
func (s *IntegrationTestSuite) login(ctx context.Context) string {
	t := s.T()
	t.Helper()

	loginReqBytes, err := json.Marshal(auth.Credentials{
		Username: testUsername,
		Password: testPassword,
	})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(
		ctx, "POST",
		fmt.Sprintf("%s/a/login", serverEndpoint),
		bytes.NewReader(loginReqBytes),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "test")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var loginResp auth.LoginResponse
	require.NoError(t, json.Unmarshal(respBytes, &loginResp))
	require.NotEmpty(t, loginResp.Token)

	return loginResp.Token
}

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.login(ctx)

	// a logged-in token passes the auth middleware
	req, err := http.NewRequestWithContext(
		ctx, "GET",
		fmt.Sprintf("%s/analytics/gym/1", serverEndpoint),
		nil,
	)
	require.NoError(t, err)
	req.Header.Set("Origin", "test")
	req.Header.Set(middleware.AuthTokenHeader, token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// logout invalidates the token
	req, err = http.NewRequestWithContext(
		ctx, "POST",
		fmt.Sprintf("%s/a/logout", serverEndpoint),
		nil,
	)
	require.NoError(t, err)
	req.Header.Set("Origin", "test")
	req.Header.Set(middleware.AuthTokenHeader, token)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err = http.NewRequestWithContext(
		ctx, "GET",
		fmt.Sprintf("%s/analytics/gym/1", serverEndpoint),
		nil,
	)
	require.NoError(t, err)
	req.Header.Set("Origin", "test")
	req.Header.Set(middleware.AuthTokenHeader, token)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestLogin_InvalidCredentials() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loginReqBytes, err := json.Marshal(auth.Credentials{
		Username: testUsername,
		Password: "not-the-password",
	})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(
		ctx, "POST",
		fmt.Sprintf("%s/a/login", serverEndpoint),
		bytes.NewReader(loginReqBytes),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "test")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestAnalyticsRequiresAuth() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx, "GET",
		fmt.Sprintf("%s/analytics/member/1/score", serverEndpoint),
		nil,
	)
	require.NoError(t, err)
	req.Header.Set("Origin", "test")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

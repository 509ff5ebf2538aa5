package radiko

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"aircheck/internal/logging"
	"aircheck/internal/services"
)

// authKey is the fixed shared secret the partial-key derivation slices into.
// It is public knowledge baked into the upstream web player.
const authKey = "bcd151073c03b352e1ef2fd66c32209da9ca0afa"

// Session is the ephemeral product of one successful handshake. It is valid
// for the lifetime of a single run and never persisted.
type Session struct {
	Token  string
	AreaID string
}

// Authorize performs the two-phase handshake and returns the session token
// plus the resolved area. The sequence is never retried internally; callers
// own any retry decision.
func (c *Client) Authorize(ctx context.Context) (Session, error) {
	token, offset, length, err := c.authPhase1(ctx)
	if err != nil {
		return Session{}, err
	}

	partial, err := PartialKey(offset, length)
	if err != nil {
		return Session{}, services.Wrap(services.ErrAuthPhase1, "auth", "derive partial key", "invalid key range from challenge", err)
	}

	area, err := c.authPhase2(ctx, token, partial)
	if err != nil {
		return Session{}, err
	}

	c.logger.Info("authorized", logging.Args(logging.String("area_id", area))...)
	return Session{Token: token, AreaID: area}, nil
}

func (c *Client) authPhase1(ctx context.Context) (token string, offset, length int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/api/auth1", nil)
	if err != nil {
		return "", 0, 0, services.Wrap(services.ErrAuthPhase1, "auth", "build challenge request", "", err)
	}
	req.Header.Set("x-radiko-app", "pc_html5")
	req.Header.Set("x-radiko-app-version", "0.0.1")
	req.Header.Set("x-radiko-device", "pc")
	req.Header.Set("x-radiko-user", "dummy_user")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, 0, services.Wrap(services.ErrAuthPhase1, "auth", "challenge request", "", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", 0, 0, services.Wrap(services.ErrAuthPhase1, "auth", "challenge request", fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	token = resp.Header.Get("x-radiko-authtoken")
	offsetText := resp.Header.Get("x-radiko-keyoffset")
	lengthText := resp.Header.Get("x-radiko-keylength")
	if token == "" || offsetText == "" || lengthText == "" {
		return "", 0, 0, services.Wrap(services.ErrAuthPhase1, "auth", "challenge response", "missing token or key range headers", nil)
	}
	offset, err = strconv.Atoi(offsetText)
	if err != nil {
		return "", 0, 0, services.Wrap(services.ErrAuthPhase1, "auth", "challenge response", "malformed key offset", err)
	}
	length, err = strconv.Atoi(lengthText)
	if err != nil {
		return "", 0, 0, services.Wrap(services.ErrAuthPhase1, "auth", "challenge response", "malformed key length", err)
	}
	return token, offset, length, nil
}

func (c *Client) authPhase2(ctx context.Context, token, partialKey string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/api/auth2", nil)
	if err != nil {
		return "", services.Wrap(services.ErrAuthPhase2, "auth", "build verification request", "", err)
	}
	req.Header.Set("x-radiko-authtoken", token)
	req.Header.Set("x-radiko-device", "pc")
	req.Header.Set("x-radiko-partialkey", partialKey)
	req.Header.Set("x-radiko-user", "dummy_user")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrAuthPhase2, "auth", "verification request", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrAuthPhase2, "auth", "verification request", fmt.Sprintf("status %d", resp.StatusCode), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrAuthPhase2, "auth", "read verification response", "", err)
	}
	area := strings.TrimSpace(strings.SplitN(string(body), ",", 2)[0])
	if area == "" {
		return "", services.Wrap(services.ErrAuthPhase2, "auth", "verification response", "empty body", nil)
	}
	return area, nil
}

// PartialKey derives the phase-2 proof: base64 of the shared secret's
// substring [offset, offset+length).
func PartialKey(offset, length int) (string, error) {
	if offset < 0 || length <= 0 || offset+length > len(authKey) {
		return "", fmt.Errorf("key range [%d,%d) outside secret bounds", offset, offset+length)
	}
	return base64.StdEncoding.EncodeToString([]byte(authKey[offset : offset+length])), nil
}

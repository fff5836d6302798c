package classroom

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	classroomapi "google.golang.org/api/classroom/v1"

	"classroom_sync/internal/config"
)

// Scopes are the read-only scopes the sync needs.
var Scopes = []string{
	classroomapi.ClassroomCoursesReadonlyScope,
	classroomapi.ClassroomCourseworkMeReadonlyScope,
	classroomapi.ClassroomAnnouncementsReadonlyScope,
}

const callbackPath = "/oauth-callback"

// PromptFunc shows the consent URL to the user.
type PromptFunc func(authURL string)

// Authenticate returns an HTTP client authorized for the Classroom API. A
// cached token is reused and refreshed as needed; without one the installed
// app flow runs once through a loopback redirect. Refreshed tokens are
// written back to the cache.
func Authenticate(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (*http.Client, error) {
	secret, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(secret, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	prompt := func(authURL string) {
		logger.Info("open this URL in a browser to authorize access", "url", authURL)
	}
	return authenticate(ctx, oauthCfg, cfg.TokenCacheFile, prompt, logger)
}

func authenticate(ctx context.Context, oauthCfg *oauth2.Config, cachePath string, prompt PromptFunc, logger *slog.Logger) (*http.Client, error) {
	tok, err := loadToken(cachePath)
	if err != nil {
		return nil, err
	}

	if tok == nil {
		logger.Info("no cached token, starting authorization flow")
		tok, err = tokenFromWeb(ctx, oauthCfg, prompt)
		if err != nil {
			return nil, fmt.Errorf("authorize: %w", err)
		}
		if err := saveToken(cachePath, tok); err != nil {
			return nil, err
		}
	}

	ts := &cachingTokenSource{
		base:   oauthCfg.TokenSource(ctx, tok),
		path:   cachePath,
		last:   tok.AccessToken,
		logger: logger,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)), nil
}

// tokenFromWeb runs the authorization code flow with PKCE against a
// loopback listener on an ephemeral port.
func tokenFromWeb(ctx context.Context, oauthCfg *oauth2.Config, prompt PromptFunc) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for callback: %w", err)
	}

	flowCfg := *oauthCfg
	flowCfg.RedirectURL = "http://" + ln.Addr().String() + callbackPath

	state, err := randomState()
	if err != nil {
		ln.Close()
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "invalid state", http.StatusBadRequest)
			sendErr(errCh, errors.New("invalid state received"))
		case q.Get("error") != "":
			http.Error(w, "authorization failed", http.StatusBadRequest)
			sendErr(errCh, fmt.Errorf("authorization failed: %s", q.Get("error")))
		case q.Get("code") == "":
			http.Error(w, "no code received", http.StatusBadRequest)
			sendErr(errCh, errors.New("no code received"))
		default:
			fmt.Fprintln(w, "Authorization complete. You can close this window.")
			select {
			case codeCh <- q.Get("code"):
			default:
			}
		}
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errCh, err)
		}
	}()
	defer server.Close()

	prompt(flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)))

	select {
	case code := <-codeCh:
		tok, err := flowCfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("exchange code: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// loadToken returns nil without error when there is no cache yet.
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token cache: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token cache: %w", err)
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token cache dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	return nil
}

// cachingTokenSource writes every newly minted token back to disk.
type cachingTokenSource struct {
	base   oauth2.TokenSource
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	last string
}

func (c *cachingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := c.base.Token()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if tok.AccessToken != c.last {
		if err := saveToken(c.path, tok); err != nil {
			c.logger.Warn("failed to persist refreshed token", "error", err)
		} else {
			c.last = tok.AccessToken
		}
	}
	return tok, nil
}

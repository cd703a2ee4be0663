package google

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/teemow/audioinsight/internal/instrumentation"
	"github.com/teemow/audioinsight/internal/logging"
)

const (
	// DefaultAuthTimeout bounds the wait for the user to finish consent.
	DefaultAuthTimeout = 5 * time.Minute

	callbackPath = "/callback"
)

// Opener presents the authorization URL to the user.
type Opener func(authURL string) error

// AuthorizerConfig configures an Authorizer.
type AuthorizerConfig struct {
	ClientID     string
	ClientSecret string

	// Port is the loopback port for the redirect; 0 picks a free one.
	// The client must allow http://127.0.0.1 redirects (desktop app clients do).
	Port int

	// Timeout bounds the wait for the redirect (default 5 minutes).
	Timeout time.Duration

	// Endpoint overrides Google's OAuth endpoints (used in tests).
	Endpoint oauth2.Endpoint

	// Opener shows the consent URL; required.
	Opener Opener

	// Tokens receives the access token on success. Optional.
	Tokens *StoreTokenProvider

	Logger  logging.Logger
	Metrics *instrumentation.Metrics
}

// Authorizer runs one loopback authorization-code flow per Authorize call.
type Authorizer struct {
	config AuthorizerConfig
	logger logging.Logger
}

// NewAuthorizer validates config and creates an Authorizer.
func NewAuthorizer(config AuthorizerConfig) (*Authorizer, error) {
	if strings.TrimSpace(config.ClientID) == "" {
		return nil, ErrClientIDMissing
	}
	if config.Opener == nil {
		return nil, errors.New("an opener for the authorization URL is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultAuthTimeout
	}
	if config.Endpoint.AuthURL == "" {
		config.Endpoint = googleoauth.Endpoint
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.NewSlogAdapter(nil)
	}

	return &Authorizer{config: config, logger: logger}, nil
}

type callbackResult struct {
	code string
	err  error
}

// Authorize sends the user through consent and returns the granted token.
//
// It resolves exactly once: with a token, ErrAuthorizationCancelled (consent
// denied or ctx done), ErrAuthorizationTimeout, or an exchange error. A
// redirect carrying a foreign state is rejected and the flow keeps waiting.
func (a *Authorizer) Authorize(ctx context.Context) (*oauth2.Token, error) {
	tok, err := a.authorize(ctx)
	a.config.Metrics.RecordOAuthAuth(ctx, authResult(err))
	return tok, err
}

func (a *Authorizer) authorize(ctx context.Context) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", a.config.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen for OAuth redirect: %w", err)
	}

	redirectURL := fmt.Sprintf("http://%s%s", listener.Addr().String(), callbackPath)
	conf := &oauth2.Config{
		ClientID:     a.config.ClientID,
		ClientSecret: a.config.ClientSecret,
		Endpoint:     a.config.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       DriveScopes,
	}

	state, err := generateState()
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() { _ = srv.Serve(listener) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	a.logger.Debug("waiting for OAuth redirect", "redirect_url", redirectURL)
	if err := a.config.Opener(authURL); err != nil {
		a.logger.Warn("could not open authorization URL", logging.Err(err))
	}

	timer := time.NewTimer(a.config.Timeout)
	defer timer.Stop()

	var res callbackResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrAuthorizationCancelled, ctx.Err())
	case <-timer.C:
		return nil, ErrAuthorizationTimeout
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := conf.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if a.config.Tokens != nil {
		if err := a.config.Tokens.SaveToken(tok); err != nil {
			return nil, fmt.Errorf("failed to store access token: %w", err)
		}
	}

	a.logger.Info("Google Drive authorized", "token", logging.SanitizeToken(tok.AccessToken))
	return tok, nil
}

// callbackHandler answers the redirect and reports its outcome once. Requests
// with the wrong state get a 400 and are not reported.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if q.Get("state") != state {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprintf(w, "Authorization failed: %v\n", ErrStateMismatch)
			return
		}

		var res callbackResult
		switch {
		case q.Get("error") != "":
			res.err = &AuthError{Code: q.Get("error"), Description: q.Get("error_description")}
		case q.Get("code") == "":
			res.err = &AuthError{Code: "invalid_request", Description: "redirect carried no authorization code"}
		default:
			res.code = q.Get("code")
		}

		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprintf(w, "Authorization failed: %v\nYou can close this window.\n", res.err)
		} else {
			_, _ = fmt.Fprintln(w, "Google Drive connected. You can close this window.")
		}

		select {
		case results <- res:
		default:
		}
	})
	return mux
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func authResult(err error) string {
	switch {
	case err == nil:
		return instrumentation.OAuthResultSuccess
	case errors.Is(err, ErrAuthorizationCancelled):
		return instrumentation.OAuthResultCancelled
	case errors.Is(err, ErrAuthorizationTimeout):
		return instrumentation.OAuthResultTimeout
	default:
		return instrumentation.OAuthResultFailure
	}
}

// Package auth implements the OAuth2 authorization-code flow against the
// TickTick open API. The default mode runs a local callback server and waits
// for the browser redirect; --manual mode prints the authorization URL and
// reads the pasted redirect URL instead, which works over SSH.
package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Scopes requested from TickTick; both are needed for full task access.
var Scopes = []string{"tasks:read", "tasks:write"}

// DefaultRedirectURI is used when TICKTICK_REDIRECT_URI is not set. The same
// URI must be registered on the TickTick developer console.
const DefaultRedirectURI = "http://127.0.0.1:8080/callback"

const authorizeTimeout = 5 * time.Minute

// Flow holds everything needed to run one authorization pass.
type Flow struct {
	ClientID     string
	ClientSecret string
	Host         string // ticktick.com or dida365.com
	RedirectURI  string
	Manual       bool
	Out          io.Writer

	// In overrides the manual-mode input stream. Defaults to os.Stdin.
	In io.Reader
}

func (f *Flow) config() *oauth2.Config {
	redirect := f.RedirectURI
	if redirect == "" {
		redirect = DefaultRedirectURI
	}
	return &oauth2.Config{
		ClientID:     f.ClientID,
		ClientSecret: f.ClientSecret,
		RedirectURL:  redirect,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   fmt.Sprintf("https://%s/oauth/authorize", f.Host),
			TokenURL:  fmt.Sprintf("https://%s/oauth/token", f.Host),
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// Run executes the flow and prints the obtained access token along with the
// .env line to persist it. Returns an error if authorization fails or times
// out.
func (f *Flow) Run(ctx context.Context) error {
	cfg := f.config()
	state := fmt.Sprintf("ticktick-cli-%d", time.Now().UnixNano())
	authURL := cfg.AuthCodeURL(state)

	var code string
	var err error
	if f.Manual {
		code, err = f.manualCode(authURL, state)
	} else {
		code, err = f.callbackCode(ctx, cfg.RedirectURL, authURL, state)
	}
	if err != nil {
		return err
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	tok, err := cfg.Exchange(exchangeCtx, code)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}

	fmt.Fprintln(f.Out, "Authorization successful.")
	fmt.Fprintln(f.Out)
	fmt.Fprintf(f.Out, "Access token: %s\n", tok.AccessToken)
	fmt.Fprintln(f.Out)
	fmt.Fprintln(f.Out, "Add this to your .env file:")
	fmt.Fprintf(f.Out, "TICKTICK_ACCESS_TOKEN=%s\n", tok.AccessToken)
	return nil
}

// manualCode prints the authorization URL and reads the redirect URL (or a
// bare code) the user pastes back.
func (f *Flow) manualCode(authURL, state string) (string, error) {
	in := f.In
	if in == nil {
		in = os.Stdin
	}
	fmt.Fprintln(f.Out, "Open this URL in a browser and authorize the app:")
	fmt.Fprintln(f.Out)
	fmt.Fprintln(f.Out, authURL)
	fmt.Fprintln(f.Out)
	fmt.Fprint(f.Out, "Paste the full redirect URL (or just the code): ")

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading authorization response: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("no authorization code provided")
	}

	if parsed, perr := url.Parse(line); perr == nil && parsed.Query().Get("code") != "" {
		if got := parsed.Query().Get("state"); got != "" && got != state {
			return "", fmt.Errorf("state mismatch in redirect URL")
		}
		return parsed.Query().Get("code"), nil
	}
	return line, nil
}

// callbackCode starts a loopback HTTP server on the redirect URI's port and
// waits for TickTick to redirect the browser back with the code.
func (f *Flow) callbackCode(ctx context.Context, redirectURL, authURL, state string) (string, error) {
	parsed, err := url.Parse(redirectURL)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URI %q: %w", redirectURL, err)
	}
	addr := parsed.Host
	if parsed.Port() == "" {
		addr = net.JoinHostPort(parsed.Hostname(), "80")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("cannot listen on %s (use --manual on remote machines): %w", addr, err)
	}
	defer listener.Close()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != parsed.Path {
				http.NotFound(w, r)
				return
			}
			q := r.URL.Query()
			if errMsg := q.Get("error"); errMsg != "" {
				http.Error(w, "Authorization denied.", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization denied: %s", errMsg)
				return
			}
			code := q.Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found.", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in callback")
				return
			}
			if got := q.Get("state"); got != state {
				http.Error(w, "State mismatch.", http.StatusBadRequest)
				errCh <- fmt.Errorf("state mismatch in callback")
				return
			}
			fmt.Fprint(w, "Authorization complete. You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()
	defer server.Shutdown(context.Background())

	fmt.Fprintln(f.Out, "Open this URL in a browser and authorize the app:")
	fmt.Fprintln(f.Out)
	fmt.Fprintln(f.Out, authURL)
	fmt.Fprintln(f.Out)
	fmt.Fprintf(f.Out, "Waiting for the callback on %s ...\n", redirectURL)

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(authorizeTimeout):
		return "", fmt.Errorf("authorization timed out after %s", authorizeTimeout)
	}
}

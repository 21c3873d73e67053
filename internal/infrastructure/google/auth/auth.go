package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/afkham/recurring-meeting-optimizer/internal/core/domain"
)

// Scopes required by the sweeper: event mutation, read-only document
// bodies, and read-only drive metadata to resolve attachments.
var Scopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/documents.readonly",
	"https://www.googleapis.com/auth/drive.readonly",
}

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
)

type Options struct {
	CredentialsPath string
	TokenPath       string
	HTTPTimeout     time.Duration
	Log             *slog.Logger
}

// NewHTTPClient builds an authorized *http.Client, refreshing or
// re-authorizing as needed. Refreshed tokens are written back to the
// token cache with owner-only permissions.
func NewHTTPClient(ctx context.Context, opts Options) (*http.Client, error) {
	cfg, err := loadClientSecrets(opts.CredentialsPath)
	if err != nil {
		return nil, err
	}
	restrictPermissions(opts.CredentialsPath, opts.Log)

	token := loadCachedToken(opts.TokenPath, opts.Log)
	if token == nil {
		token, err = authorize(ctx, cfg, opts.Log)
		if err != nil {
			return nil, domain.WrapError(domain.ErrAuth, "browser authorization", err)
		}
		if err := saveToken(opts.TokenPath, token); err != nil {
			opts.Log.Warn("token_cache_write_failed", "path", opts.TokenPath, "error", err)
		}
	}

	source := &persistingTokenSource{
		base: cfg.TokenSource(ctx, token),
		path: opts.TokenPath,
		last: token.AccessToken,
		log:  opts.Log,
	}
	client := oauth2.NewClient(ctx, source)
	if opts.HTTPTimeout > 0 {
		client.Timeout = opts.HTTPTimeout
	}
	return client, nil
}

type clientSecrets struct {
	Installed struct {
		ClientID     string   `json:"client_id"`
		ClientSecret string   `json:"client_secret"`
		AuthURI      string   `json:"auth_uri"`
		TokenURI     string   `json:"token_uri"`
		RedirectURIs []string `json:"redirect_uris"`
	} `json:"installed"`
}

func loadClientSecrets(path string) (*oauth2.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrAuth, "read client credentials",
			fmt.Errorf("%q not found; download OAuth client credentials for a desktop app from the Google Cloud Console and save them there: %w", path, err))
	}
	var secrets clientSecrets
	if err := json.Unmarshal(raw, &secrets); err != nil {
		return nil, domain.WrapError(domain.ErrAuth, "parse client credentials", err)
	}
	if secrets.Installed.ClientID == "" {
		return nil, domain.WrapError(domain.ErrAuth, "parse client credentials",
			fmt.Errorf("%q carries no installed-app client id", path))
	}

	authURL := secrets.Installed.AuthURI
	if authURL == "" {
		authURL = googleAuthURL
	}
	tokenURL := secrets.Installed.TokenURI
	if tokenURL == "" {
		tokenURL = googleTokenURL
	}
	return &oauth2.Config{
		ClientID:     secrets.Installed.ClientID,
		ClientSecret: secrets.Installed.ClientSecret,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}, nil
}

// cachedToken is the on-disk shape: the OAuth token plus the scopes it
// was granted with, so an under-scoped cache triggers re-auth instead of
// runtime permission errors.
type cachedToken struct {
	oauth2.Token
	GrantedScopes []string `json:"granted_scopes,omitempty"`
}

func loadCachedToken(path string, log *slog.Logger) *oauth2.Token {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var cached cachedToken
	if err := json.Unmarshal(raw, &cached); err != nil {
		log.Warn("token_cache_corrupt", "path", path, "error", err)
		return nil
	}
	if cached.RefreshToken == "" && !cached.Valid() {
		return nil
	}
	if !coversScopes(cached.GrantedScopes) {
		log.Warn("token_cache_missing_scopes", "path", path)
		return nil
	}
	return &cached.Token
}

// coversScopes treats an empty recorded scope list as valid; older cache
// files did not record scopes.
func coversScopes(granted []string) bool {
	if len(granted) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(granted))
	for _, s := range granted {
		have[s] = struct{}{}
	}
	for _, s := range Scopes {
		if _, ok := have[s]; !ok {
			return false
		}
	}
	return true
}

func saveToken(path string, token *oauth2.Token) error {
	raw, err := json.Marshal(cachedToken{Token: *token, GrantedScopes: Scopes})
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	return os.Chmod(path, 0o600)
}

func restrictPermissions(path string, log *slog.Logger) {
	if err := os.Chmod(path, 0o600); err != nil {
		log.Warn("restrict_permissions_failed", "path", path, "error", err)
	}
}

// authorize runs the loopback redirect flow: a local listener receives
// the authorization code after the operator approves in a browser.
func authorize(ctx context.Context, cfg *oauth2.Config, log *slog.Logger) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for oauth redirect: %w", err)
	}
	defer listener.Close()

	flowCfg := *cfg
	flowCfg.RedirectURL = "http://" + listener.Addr().String()

	state := uuid.NewString()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- fmt.Errorf("oauth state mismatch")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			errCh <- fmt.Errorf("oauth redirect carried no code")
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this window.")
		codeCh <- code
	})}
	go func() { _ = server.Serve(listener) }()
	defer server.Close()

	log.Info("authorize_in_browser", "url", flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, err
	case code := <-codeCh:
		token, err := flowCfg.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("exchange authorization code: %w", err)
		}
		log.Info("browser_authorization_completed")
		return token, nil
	}
}

// persistingTokenSource writes the token cache back whenever the
// underlying source produces a refreshed access token.
type persistingTokenSource struct {
	mu   sync.Mutex
	base oauth2.TokenSource
	path string
	last string
	log  *slog.Logger
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.base.Token()
	if err != nil {
		return nil, domain.WrapError(domain.ErrAuth, "refresh access token", err)
	}
	if token.AccessToken != s.last {
		s.last = token.AccessToken
		if err := saveToken(s.path, token); err != nil {
			s.log.Warn("token_cache_write_failed", "path", s.path, "error", err)
		}
	}
	return token, nil
}

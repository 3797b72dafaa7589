package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

var loginTimeout time.Duration

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Authorize an account through the browser",
	Long:  "Runs the OAuth2 authorization code flow with PKCE against lichess. A local callback server receives the code and the token is saved to db.json.",
	Args:  cobra.ExactArgs(1),
	Run:   runLogin,
}

func init() {
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 5*time.Minute, "How long to wait for the browser")
}

var puzzleScopes = []string{"puzzle:read", "puzzle:write"}

func oauthConfig(config *AppConfig) *oauth2.Config {
	base := strings.TrimSuffix(config.BaseURL, "/")
	return &oauth2.Config{
		ClientID: config.OAuthClientID,
		Endpoint: oauth2.Endpoint{
			AuthURL:   base + "/oauth",
			TokenURL:  base + "/api/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: fmt.Sprintf("http://localhost:%d/callback", config.OAuthRedirectPort),
		Scopes:      puzzleScopes,
	}
}

type callbackResult struct {
	code string
	err  error
}

// CallbackServer receives the single redirect of an authorization flow.
type CallbackServer struct {
	address string
	state   string
	results chan callbackResult
}

func NewCallbackServer(address, state string) *CallbackServer {
	return &CallbackServer{
		address: address,
		state:   state,
		results: make(chan callbackResult, 1),
	}
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var res callbackResult
	switch {
	case q.Get("error") != "":
		res.err = fmt.Errorf("authorization denied: %s %s", q.Get("error"), q.Get("error_description"))
	case q.Get("state") != s.state:
		res.err = errors.New("state mismatch in callback")
	case q.Get("code") == "":
		res.err = errors.New("callback without code")
	default:
		res.code = q.Get("code")
	}

	if res.err != nil {
		http.Error(w, res.err.Error(), http.StatusBadRequest)
	} else {
		fmt.Fprintln(w, "lipuzzle is authorized. You can close this tab.")
	}

	select {
	case s.results <- res:
	default:
	}
}

// Wait serves until a callback arrives or ctx is done.
func (s *CallbackServer) Wait(ctx context.Context) (string, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)

	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln)
	defer srv.Close()

	select {
	case res := <-s.results:
		return res.code, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func runLogin(cmd *cobra.Command, args []string) {
	username := args[0]
	appConfig, err := loadAppConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load app config: %v", err)
	}
	db, err := loadDatabase(dbPath)
	if err != nil {
		log.Fatalf("Failed to load database: %v", err)
	}

	conf := oauthConfig(appConfig)
	verifier := oauth2.GenerateVerifier()
	state := oauth2.GenerateVerifier()
	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))

	logger.Printf("Open this URL in a browser logged in as %s:\n\n%s\n\n", username, authURL)

	ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
	defer cancel()
	server := NewCallbackServer(fmt.Sprintf("localhost:%d", appConfig.OAuthRedirectPort), state)
	code, err := server.Wait(ctx)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	token, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		log.Fatalf("Failed to exchange code: %v", err)
	}

	account := db.Accounts[username]
	account.Username = username
	account.Token = token.AccessToken
	account.TokenExpiry = token.Expiry
	if err := refreshAccount(cmd.Context(), appConfig, &account); err != nil {
		logger.Printf("%v\n", err)
	}
	db.Accounts[username] = account
	if err := saveDatabase(dbPath, db); err != nil {
		log.Fatalf("Failed to save database: %v", err)
	}
	logger.Printf("Logged in as %s.\n", username)
}

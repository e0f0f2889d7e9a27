// Package sso signs users in through the Warwick websignon OAuth1 provider.
package sso

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dghubble/oauth1"
)

const (
	scope  = "urn:websignon.warwick.ac.uk:sso:service"
	expiry = "forever"

	// PendingTTL is how long a user has to finish signing in at the provider
	PendingTTL = 10 * time.Minute
)

// Websignon is the production provider
var Websignon = Endpoint{
	Endpoint: oauth1.Endpoint{
		RequestTokenURL: "https://websignon.warwick.ac.uk/oauth/requestToken?" + url.Values{"scope": {scope}, "expiry": {expiry}}.Encode(),
		AuthorizeURL:    "https://websignon.warwick.ac.uk/oauth/authorise",
		AccessTokenURL:  "https://websignon.warwick.ac.uk/oauth/accessToken",
	},
	AttributesURL: "https://websignon.warwick.ac.uk/oauth/authenticate/attributes",
}

var (
	ErrUnknownRequestToken = errors.New("sso: unknown or expired request token")
	ErrMissingUserID       = errors.New("sso: provider did not return a university id")
)

// Endpoint is the set of provider URLs
type Endpoint struct {
	oauth1.Endpoint
	AttributesURL string
}

// User is the identity returned by the provider
type User struct {
	WarwickID int
	Name      string
}

type pendingToken struct {
	secret string
	issued time.Time
}

// Client runs the three-legged OAuth1 flow. Request token secrets are kept
// in memory between Begin and Complete for at most PendingTTL.
type Client struct {
	config        *oauth1.Config
	attributesURL string
	now           func() time.Time

	mu      sync.Mutex
	pending map[string]pendingToken
}

// New creates a client for the given consumer credentials. callbackURL is
// where the provider sends the user back to.
func New(consumerKey, consumerSecret, callbackURL string, endpoint Endpoint) *Client {
	return &Client{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    callbackURL,
			Endpoint:       endpoint.Endpoint,
		},
		attributesURL: endpoint.AttributesURL,
		now:           time.Now,
		pending:       make(map[string]pendingToken),
	}
}

// Begin obtains a request token and returns the URL the user must visit
func (c *Client) Begin() (string, error) {
	requestToken, requestSecret, err := c.config.RequestToken()
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}

	now := c.now()
	c.mu.Lock()
	c.prune(now)
	c.pending[requestToken] = pendingToken{secret: requestSecret, issued: now}
	c.mu.Unlock()

	authURL, err := c.config.AuthorizationURL(requestToken)
	if err != nil {
		return "", err
	}
	return authURL.String(), nil
}

// Complete handles the provider's callback: it exchanges the verified
// request token for an access token and fetches the user's attributes.
func (c *Client) Complete(ctx context.Context, r *http.Request) (User, error) {
	requestToken, verifier, err := oauth1.ParseAuthorizationCallback(r)
	if err != nil {
		return User{}, err
	}

	c.mu.Lock()
	pending, ok := c.pending[requestToken]
	delete(c.pending, requestToken)
	c.mu.Unlock()
	if !ok || c.expired(pending, c.now()) {
		return User{}, ErrUnknownRequestToken
	}
	requestSecret := pending.secret

	accessToken, accessSecret, err := c.config.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return User{}, fmt.Errorf("access token: %w", err)
	}

	httpClient := c.config.Client(ctx, oauth1.NewToken(accessToken, accessSecret))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.attributesURL, nil)
	if err != nil {
		return User{}, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("attributes: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("attributes: unexpected status %d", resp.StatusCode)
	}

	attrs, err := ParseAttributes(resp.Body)
	if err != nil {
		return User{}, err
	}
	return userFromAttributes(attrs)
}

func (c *Client) expired(p pendingToken, now time.Time) bool {
	return now.Sub(p.issued) > PendingTTL
}

// prune drops abandoned sign-ins. Callers hold c.mu.
func (c *Client) prune(now time.Time) {
	for token, p := range c.pending {
		if c.expired(p, now) {
			delete(c.pending, token)
		}
	}
}

// ParseAttributes reads the provider's key=value lines
func ParseAttributes(r io.Reader) (map[string]string, error) {
	attrs := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		attrs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return attrs, scanner.Err()
}

func userFromAttributes(attrs map[string]string) (User, error) {
	raw := attrs["warwickuniid"]
	if raw == "" {
		raw = attrs["id"]
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return User{}, ErrMissingUserID
	}

	name := attrs["name"]
	if name == "" {
		name = strings.TrimSpace(attrs["firstname"] + " " + attrs["lastname"])
	}
	return User{WarwickID: id, Name: name}, nil
}

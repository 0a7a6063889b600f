package uberdirect

import (
	"context"
	"net/url"
	"sync"
	"time"

	"localoffice/internal/adapters/out/courier"
	"localoffice/internal/pkg/errs"
)

// refreshWindow is how long before expiry a cached token is considered
// stale, so a token never expires mid-request.
const refreshWindow = 60 * time.Second

// tokenSource caches an OAuth client-credentials access token and refreshes
// it proactively near expiry. Safe for concurrent use.
type tokenSource struct {
	client       *courier.Client
	clientID     string
	clientSecret string
	scope        string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newTokenSource(authURL, clientID, clientSecret, scope string) *tokenSource {
	return &tokenSource{
		client:       courier.NewClient(authProviderName, authURL),
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        scope,
	}
}

// Token returns the cached access token, fetching a fresh one when none is
// cached or the cached one is within the refresh window of expiring.
func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Until(t.expiresAt) > refreshWindow {
		return t.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"scope":         {t.scope},
		"client_id":     {t.clientID},
		"client_secret": {t.clientSecret},
	}

	payload, err := t.client.PostForm(ctx, "/oauth/v2/token", form.Encode())
	if err != nil {
		return "", err
	}

	token := courier.StringField(payload, "access_token")
	if token == "" {
		return "", errs.NewAdapterHTTPError(authProviderName,
			"auth response missing access token", 0, false)
	}

	expiresIn := courier.IntField(payload, "expires_in")
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	t.token = token
	t.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)

	return token, nil
}

// Invalidate drops the cached token. Called when the API rejects it, so the
// retry fetches a fresh one.
func (t *tokenSource) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.expiresAt = time.Time{}
}

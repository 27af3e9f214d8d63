package portalclient

import (
	"context"
	"net/http"
)

// retriedKey marks a request context after its one permitted retry, so a
// persistently invalid credential cannot trigger a refresh storm.
type retriedKey struct{}

// authTransport injects the bearer token into outgoing requests and, on a
// 401, refreshes the session and replays the request exactly once. Network
// errors pass through untouched; only authorization failures take the
// refresh path.
type authTransport struct {
	base    http.RoundTripper
	session *Session
	refresh func(ctx context.Context) error
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get("Authorization") == "" {
		if token := t.session.AccessToken(); token != "" {
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || req.Context().Value(retriedKey{}) != nil {
		return resp, nil
	}

	if err := t.refresh(req.Context()); err != nil {
		t.session.Clear()
		// Propagate the original authorization failure, not the
		// refresh error.
		return resp, nil
	}

	retry := req.Clone(context.WithValue(req.Context(), retriedKey{}, true))
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return resp, nil
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+t.session.AccessToken())

	resp.Body.Close()
	return t.base.RoundTrip(retry)
}

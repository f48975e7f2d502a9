package oauth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"regexp"
)

// DefaultReturnTo is the post-login path used when none is requested.
const DefaultReturnTo = "/chat"

// State is the payload round-tripped through the provider in the state query
// parameter. It is attacker-observable: Origin must pass ValidOrigin before
// being used as a redirect target.
type State struct {
	Origin   string `json:"origin"`
	ReturnTo string `json:"returnTo"`
}

// Encode serializes the state as base64url JSON.
func (s State) Encode() string {
	raw, _ := json.Marshal(s)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeState parses an encoded state parameter. Any failure falls back to an
// empty origin and the default return path rather than aborting the flow.
func DecodeState(encoded string) State {
	fallback := State{ReturnTo: DefaultReturnTo}
	if encoded == "" {
		return fallback
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		// Tolerate padded encoders.
		raw, err = base64.URLEncoding.DecodeString(encoded)
		if err != nil {
			return fallback
		}
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return fallback
	}
	if s.ReturnTo == "" {
		s.ReturnTo = DefaultReturnTo
	}
	return s
}

var originPattern = regexp.MustCompile(`^https?://[a-zA-Z0-9\-.:]+$`)

// ValidOrigin reports whether origin is a bare scheme://host[:port] safe to
// redirect to. This is the open-redirect guard for the callback.
func ValidOrigin(origin string) bool {
	return origin != "" && originPattern.MatchString(origin)
}

// RedirectTarget resolves the post-login redirect URL: the state's origin when
// it passes the allow-list, else the server's own base URL.
func (s State) RedirectTarget(baseURL string) string {
	origin := s.Origin
	if !ValidOrigin(origin) {
		origin = baseURL
	}
	returnTo := s.ReturnTo
	if returnTo == "" {
		returnTo = DefaultReturnTo
	}
	if origin == "" {
		return returnTo
	}
	return origin + returnTo
}

// BaseURL derives the request's external base URL, honoring proxy forwarding
// headers so the flow works behind tunnels like ngrok.
func BaseURL(r *http.Request) string {
	proto := r.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		if r.TLS != nil {
			proto = "https"
		} else {
			proto = "http"
		}
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	if host == "" {
		return ""
	}
	return proto + "://" + host
}

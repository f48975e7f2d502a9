package oauth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateRoundTrip(t *testing.T) {
	t.Parallel()

	s := State{Origin: "https://example.com", ReturnTo: "/dashboard"}
	decoded := DecodeState(s.Encode())
	assert.Equal(t, s, decoded)
}

func TestDecodeState_Fallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"not json", base64.RawURLEncoding.EncodeToString([]byte("garbage"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DecodeState(tt.encoded)
			assert.Equal(t, State{Origin: "", ReturnTo: DefaultReturnTo}, s)
		})
	}
}

func TestDecodeState_PaddedEncoding(t *testing.T) {
	t.Parallel()

	padded := base64.URLEncoding.EncodeToString([]byte(`{"origin":"http://a.b","returnTo":"/x"}`))
	s := DecodeState(padded)
	assert.Equal(t, State{Origin: "http://a.b", ReturnTo: "/x"}, s)
}

func TestValidOrigin(t *testing.T) {
	t.Parallel()

	valid := []string{
		"http://localhost:3000",
		"https://example.com",
		"https://my-app.ngrok.io",
	}
	for _, origin := range valid {
		assert.True(t, ValidOrigin(origin), origin)
	}

	invalid := []string{
		"",
		"javascript:alert(1)",
		"https://evil.com/phish",
		"https://evil.com?x=1",
		"ftp://example.com",
		"https://evil.com\\@good.com",
	}
	for _, origin := range invalid {
		assert.False(t, ValidOrigin(origin), origin)
	}
}

func TestRedirectTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state State
		base  string
		want  string
	}{
		{"valid origin wins", State{Origin: "https://app.example.com", ReturnTo: "/chat"}, "http://srv", "https://app.example.com/chat"},
		{"tampered origin falls back", State{Origin: "https://evil.com/phish", ReturnTo: "/chat"}, "http://srv", "http://srv/chat"},
		{"empty origin falls back", State{ReturnTo: "/chat"}, "http://srv", "http://srv/chat"},
		{"no origin no base", State{ReturnTo: "/chat"}, "", "/chat"},
		{"empty returnTo defaults", State{Origin: "https://a.com"}, "http://srv", "https://a.com" + DefaultReturnTo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.RedirectTarget(tt.base))
		})
	}
}

func TestBaseURL(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "http://plain.example/api", nil)
	assert.Equal(t, "http://plain.example", BaseURL(r))

	r = httptest.NewRequest(http.MethodGet, "http://internal/api", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	r.Header.Set("X-Forwarded-Host", "tunnel.ngrok.io")
	assert.Equal(t, "https://tunnel.ngrok.io", BaseURL(r))
}

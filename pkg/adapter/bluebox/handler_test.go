package bluebox

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/processor"
	"github.com/martengale/foxbox/internal/protocol/sfs2x"
	"github.com/martengale/foxbox/internal/session"
)

func newTestServer(t *testing.T) (*httptest.Server, *session.Registry) {
	t.Helper()
	sessions := session.NewRegistry(0)
	rooms := lobby.NewRegistry()
	proc := processor.New(sessions, rooms, nil, "")
	srv := httptest.NewServer(NewRouter(NewHandler(proc, sessions, nil)))
	t.Cleanup(srv.Close)
	return srv, sessions
}

// post sends one sfsHttp command and returns the response body.
func post(t *testing.T, srv *httptest.Server, value string) string {
	t.Helper()
	form := url.Values{"sfsHttp": {value}}
	resp, err := http.Post(srv.URL+"/BlueBox/BlueBox.do",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))

	buf := make([]byte, 64*1024)
	n, _ := resp.Body.Read(buf)
	return string(buf[:n])
}

func TestConnectAssignsSession(t *testing.T) {
	srv, sessions := newTestServer(t)

	body := post(t, srv, "null|connect|null")
	require.True(t, strings.HasPrefix(body, "connect|"), "got %q", body)

	id := strings.TrimPrefix(body, "connect|")
	assert.Regexp(t, session.IDPattern, id)

	_, err := sessions.Get(id)
	assert.NoError(t, err)
}

func TestDataThenPollRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	body := post(t, srv, "null|connect|null")
	id := strings.TrimPrefix(body, "connect|")

	hs := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionHandshake)
	payload, err := hs.Encode()
	require.NoError(t, err)
	frame := base64.StdEncoding.EncodeToString(payload)

	body = post(t, srv, id+"|data|"+frame)
	assert.Equal(t, "data|null", body)

	body = post(t, srv, id+"|poll|null")
	require.True(t, strings.HasPrefix(body, "poll|"), "got %q", body)
	encoded := strings.TrimPrefix(body, "poll|")
	require.NotEqual(t, "null", encoded)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	resp, err := sfs2x.DecodeMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, sfs2x.ActionHandshake, resp.Action)

	token, err := resp.Params.GetString(sfs2x.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, id, token)

	// Queue drained: next poll is empty.
	body = post(t, srv, id+"|poll|null")
	assert.Equal(t, "poll|null", body)
}

func TestTrailingNulStripped(t *testing.T) {
	srv, _ := newTestServer(t)
	body := post(t, srv, "null|connect|null\x00")
	assert.True(t, strings.HasPrefix(body, "connect|"), "got %q", body)
}

func TestPollUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)
	body := post(t, srv, "SESS_0000000000000000|poll|null")
	assert.Equal(t, "err01|Invalid http session !", body)
}

func TestDataUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)
	body := post(t, srv, "SESS_0000000000000000|data|AAAA")
	assert.Equal(t, "err01|Invalid http session !", body)
}

func TestDataUndecodablePayload(t *testing.T) {
	srv, _ := newTestServer(t)
	body := post(t, srv, "null|connect|null")
	id := strings.TrimPrefix(body, "connect|")

	body = post(t, srv, id+"|data|not-base64!!!")
	assert.Equal(t, "err01|Data error", body)
}

func TestDataMalformedFrame(t *testing.T) {
	srv, _ := newTestServer(t)
	body := post(t, srv, "null|connect|null")
	id := strings.TrimPrefix(body, "connect|")

	garbage := base64.StdEncoding.EncodeToString([]byte{0xFF, 0x01, 0x02})
	body = post(t, srv, id+"|data|"+garbage)
	assert.Equal(t, "err01|Data error", body)
}

func TestUnknownCommand(t *testing.T) {
	srv, _ := newTestServer(t)
	body := post(t, srv, "null|frobnicate|null")
	assert.Equal(t, "err01|Unknown command", body)
}

func TestDisconnectDestroysSession(t *testing.T) {
	srv, sessions := newTestServer(t)
	body := post(t, srv, "null|connect|null")
	id := strings.TrimPrefix(body, "connect|")

	body = post(t, srv, id+"|disconnect|null")
	assert.Equal(t, "disconnect|null", body)

	_, err := sessions.Get(id)
	assert.ErrorIs(t, err, session.ErrUnknownSession)

	body = post(t, srv, id+"|poll|null")
	assert.Equal(t, "err01|Invalid http session !", body)
}

func TestClientIPFromForwardedFor(t *testing.T) {
	srv, sessions := newTestServer(t)

	form := url.Values{"sfsHttp": {"null|connect|null"}}
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/BlueBox/BlueBox.do",
		strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("X-Real-IP", "198.51.100.7")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := make([]byte, 1024)
	n, _ := resp.Body.Read(buf)
	id := strings.TrimPrefix(string(buf[:n]), "connect|")

	s, err := sessions.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", s.ClientIP)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/BlueBox/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	buf := make([]byte, 16)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, "ok", string(buf[:n]))
}

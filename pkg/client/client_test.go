package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradewatch/pkg/core"
)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPublic_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/ticker/price", r.URL.Path)
		assert.Equal(t, "symbol=BTCUSDT", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","price":"117000.10"}`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	resp, err := c.Public(context.Background(), core.VerbGet, srv.URL, "/fapi/v1/ticker/price",
		core.Params{"symbol": "BTCUSDT"}, true)
	require.NoError(t, err)

	body, ok := resp.JSON.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "BTCUSDT", body["symbol"])
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
}

func TestPublic_EmptyParamsOmitsSeparator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		assert.Equal(t, "/v5/market/tickers", r.URL.Path)
		_, _ = w.Write([]byte(`{"retCode":0,"result":{}}`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.Public(context.Background(), core.VerbGet, srv.URL, "/v5/market/tickers", nil, true)
	require.NoError(t, err)
}

func TestPublic_RawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := newTestClient(t)
	resp, err := c.Public(context.Background(), core.VerbGet, srv.URL, "/page", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "not json at all", resp.Raw())
	assert.Nil(t, resp.JSON)
}

func TestPublic_ApplicationFault_CodeMsg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.Public(context.Background(), core.VerbGet, srv.URL, "/fapi/v1/ticker/price",
		core.Params{"symbol": "NOPE"}, true)
	require.Error(t, err)
	assert.True(t, core.IsApplicationFault(err))

	re, ok := core.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, int64(-1121), re.Code)
	assert.Equal(t, "Invalid symbol.", re.Msg)
	assert.Contains(t, re.URL, "symbol=NOPE")
}

func TestPublic_ApplicationFault_RetCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"retCode":10001,"retMsg":"oops"}`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.Public(context.Background(), core.VerbGet, srv.URL, "/v5/market/tickers", nil, true)
	require.Error(t, err)
	assert.True(t, core.IsApplicationFault(err))

	re, ok := core.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, int64(10001), re.Code)
	assert.Equal(t, "oops", re.Msg)
}

func TestPublic_DecodeFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.Public(context.Background(), core.VerbGet, srv.URL, "/fapi/v1/klines", nil, true)
	require.Error(t, err)
	assert.True(t, core.IsDecodeFault(err))
}

func TestPublic_TransportFault_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, WithTimeout(50*time.Millisecond))
	_, err := c.Public(context.Background(), core.VerbGet, srv.URL, "/slow", nil, true)
	require.Error(t, err)
	assert.True(t, core.IsTransportFault(err))
}

func TestPublic_TransportFault_ConnectionRefused(t *testing.T) {
	// Grab an address that is guaranteed to refuse connections.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	dead := srv.URL
	srv.Close()

	c := newTestClient(t)
	_, err := c.Public(context.Background(), core.VerbGet, dead, "/anything", nil, true)
	require.Error(t, err)
	assert.True(t, core.IsTransportFault(err))
}

func TestSigned_StandardScheme(t *testing.T) {
	creds := core.Credentials{APIKey: "test-key", SecretKey: "test-secret"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-MBX-APIKEY"))

		raw := r.URL.RawQuery
		i := strings.Index(raw, "&signature=")
		require.Positive(t, i, "signature must be appended to the query")
		canonical, sig := raw[:i], raw[i+len("&signature="):]

		assert.Contains(t, canonical, "timestamp=")
		assert.Contains(t, canonical, "symbol=BTCUSDT")

		// Recomputing over the canonical string must reproduce the
		// signature exactly.
		assert.Equal(t, core.Sign(canonical, core.ExchangeBinance, creds, 0), sig)

		_, _ = w.Write([]byte(`[{"asset":"USDT","balance":"42.0"}]`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	resp, err := c.Signed(context.Background(), core.VerbGet, "/fapi/v2/balance",
		core.Params{"symbol": "BTCUSDT"}, core.ExchangeBinance, srv.URL, creds)
	require.NoError(t, err)
	require.NotNil(t, resp.JSON)
}

func TestSigned_TimestampPrefixedScheme(t *testing.T) {
	creds := core.Credentials{APIKey: "test-key", SecretKey: "test-secret"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.RawQuery
		assert.NotContains(t, raw, "signature=")
		assert.NotContains(t, raw, "timestamp=")

		assert.Equal(t, "test-key", r.Header.Get("X-BAPI-API-KEY"))
		assert.Equal(t, core.SignatureType, r.Header.Get("X-BAPI-SIGN-TYPE"))
		assert.Equal(t, core.RecvWindow, r.Header.Get("X-BAPI-RECV-WINDOW"))

		ts, err := strconv.ParseInt(r.Header.Get("X-BAPI-TIMESTAMP"), 10, 64)
		require.NoError(t, err)

		expected := core.Sign(raw, core.ExchangeBybit, creds, ts)
		assert.Equal(t, expected, r.Header.Get("X-BAPI-SIGN"))

		_, _ = w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[]}}`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.Signed(context.Background(), core.VerbGet, "/v5/account/wallet-balance",
		core.Params{"accountType": "UNIFIED"}, core.ExchangeBybit, srv.URL, creds)
	require.NoError(t, err)
}

func TestSigned_ApplicationFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":-2015,"msg":"Invalid API-key, IP, or permissions for action."}`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.Signed(context.Background(), core.VerbGet, "/fapi/v2/balance", nil,
		core.ExchangeBinance, srv.URL, core.Credentials{APIKey: "k", SecretKey: "s"})
	require.Error(t, err)
	assert.True(t, core.IsApplicationFault(err))
}

func TestSigned_PostVerb(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"retCode":0,"result":{}}`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.Signed(context.Background(), core.VerbPost, "/v5/order/create",
		core.Params{"symbol": "BTCUSDT"}, core.ExchangeBybit, srv.URL,
		core.Credentials{APIKey: "k", SecretKey: "s"})
	require.NoError(t, err)
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"signature at end",
			"https://x.test/a?b=1&signature=deadbeef",
			"https://x.test/a?b=1&signature=REDACTED",
		},
		{
			"signature mid-query",
			"https://x.test/a?signature=deadbeef&b=1",
			"https://x.test/a?signature=REDACTED&b=1",
		},
		{
			"no signature",
			"https://x.test/a?b=1",
			"https://x.test/a?b=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, redactURL(tt.input))
		})
	}
}

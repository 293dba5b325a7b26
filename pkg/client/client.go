// Package client implements the public and signed request executors shared
// by every exchange integration. An executor encodes the parameter mapping
// into a canonical query string, signs it when credentials are supplied,
// dispatches over a pooled HTTP client, and classifies the response body
// into either a payload or a tagged fault.
package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	httpclient "tradewatch/internal/http"
	"tradewatch/pkg/core"
)

// Response carries the outcome of a successful call.
type Response struct {
	// Headers holds the response headers, first value per key.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
	// JSON is the decoded body, populated unless decoding was not requested.
	JSON any
}

// Raw returns the body as text, for calls made with decodeJSON=false.
func (r *Response) Raw() string {
	return string(r.Body)
}

// Client executes requests against exchange REST APIs. It owns one pooled
// HTTP client; individual calls share no other state, so a Client may be
// used from many goroutines without coordination.
type Client struct {
	http   *httpclient.Client
	logger zerolog.Logger
}

// Option is a functional option for configuring the Client.
type Option func(*Options)

// Options holds configuration options for the Client.
type Options struct {
	Logger  zerolog.Logger
	Timeout time.Duration
}

// WithLogger returns an option that sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithTimeout returns an option that overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// New creates a Client with a pooled HTTP transport.
func New(opts ...Option) (*Client, error) {
	options := &Options{
		Logger:  zerolog.Nop(),
		Timeout: httpclient.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}

	hc, err := httpclient.NewClient(&httpclient.Config{Timeout: options.Timeout}, options.Logger)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	return &Client{
		http:   hc,
		logger: options.Logger,
	}, nil
}

// Close releases the pooled HTTP transport.
func (c *Client) Close() error {
	return c.http.Close()
}

// Public executes an unsigned request against baseURL+path. The canonical
// query string is appended when non-empty. When decodeJSON is false the
// body is returned as-is without classification.
func (c *Client) Public(ctx context.Context, verb core.Verb, baseURL, path string, params core.Params, decodeJSON bool) (*Response, error) {
	url := baseURL + path
	if qs := core.EncodeParams(params); qs != "" {
		url += "?" + qs
	}

	c.logger.Debug().Str("url", url).Msg("requesting")

	headers := map[string]string{"Content-Type": contentTypeJSON}
	resp, err := c.dispatch(ctx, verb, url, headers)
	if err != nil {
		return nil, c.fail(core.NewFault(core.FaultTransport, url, err))
	}

	if !decodeJSON {
		return &Response{Headers: headerMap(resp), Body: resp.Bytes()}, nil
	}
	return c.finish(url, resp)
}

// Signed executes an authenticated request. A fresh millisecond timestamp
// is injected into the query for the standard scheme; the timestamp-prefixed
// scheme carries its timestamp in the header set and signing payload
// instead. The signature is appended to the URL only for the standard
// scheme.
func (c *Client) Signed(ctx context.Context, verb core.Verb, path string, params core.Params, ex core.Exchange, baseURL string, creds core.Credentials) (*Response, error) {
	if params == nil {
		params = core.Params{}
	}

	ts := time.Now().UnixMilli()
	if ex == core.ExchangeBinance {
		params["timestamp"] = ts
	}

	qs := core.EncodeSigned(params)
	sig := core.Sign(qs, ex, creds, ts)

	url := baseURL + path + "?" + qs
	if ex == core.ExchangeBinance {
		url += "&signature=" + sig
	}

	c.logger.Debug().Str("url", redactURL(url)).Msg("requesting")

	resp, err := c.dispatch(ctx, verb, url, authHeaders(creds, sig, ts))
	if err != nil {
		return nil, c.fail(core.NewFault(core.FaultTransport, url, err))
	}
	return c.finish(url, resp)
}

const contentTypeJSON = "application/json;charset=utf-8"

// authHeaders builds the full authentication header set. Both scheme
// header groups are attached whenever credentials are present; exchanges
// ignore the set they do not validate.
func authHeaders(creds core.Credentials, sig string, ts int64) map[string]string {
	headers := map[string]string{
		"Content-Type": contentTypeJSON,
	}
	if creds.Empty() {
		return headers
	}
	headers["X-MBX-APIKEY"] = creds.APIKey
	headers["X-BAPI-API-KEY"] = creds.APIKey
	headers["X-BAPI-SIGN"] = sig
	headers["X-BAPI-SIGN-TYPE"] = core.SignatureType
	headers["X-BAPI-TIMESTAMP"] = strconv.FormatInt(ts, 10)
	headers["X-BAPI-RECV-WINDOW"] = core.RecvWindow
	return headers
}

func (c *Client) dispatch(ctx context.Context, verb core.Verb, url string, headers map[string]string) (*resty.Response, error) {
	req, err := c.http.Request()
	if err != nil {
		return nil, err
	}
	req.SetContext(ctx)
	for k, v := range headers {
		req.SetHeader(k, v)
	}

	switch verb {
	case core.VerbGet:
		return req.Get(url)
	case core.VerbPut:
		return req.Put(url)
	case core.VerbPost:
		return req.Post(url)
	case core.VerbDelete:
		return req.Delete(url)
	default:
		return nil, fmt.Errorf("unsupported verb: %d", verb)
	}
}

func (c *Client) finish(url string, resp *resty.Response) (*Response, error) {
	body := resp.Bytes()

	var decoded any
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return nil, c.fail(core.NewFault(core.FaultDecode, url, err))
	}
	if err := core.Classify(url, body); err != nil {
		return nil, c.fail(core.NewFault(core.FaultApplication, url, err))
	}

	return &Response{
		Headers: headerMap(resp),
		Body:    body,
		JSON:    decoded,
	}, nil
}

func (c *Client) fail(f *core.Fault) error {
	c.logger.Warn().
		Str("kind", f.Kind.String()).
		Str("url", redactURL(f.URL)).
		Err(f.Err).
		Msg("request failed")
	return f
}

func headerMap(resp *resty.Response) map[string]string {
	headers := make(map[string]string, len(resp.Header()))
	for k, v := range resp.Header() {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return headers
}

// redactURL strips the signature value from a URL before it reaches a log
// line.
func redactURL(url string) string {
	const marker = "signature="
	i := strings.Index(url, marker)
	if i < 0 {
		return url
	}
	rest := url[i+len(marker):]
	if j := strings.IndexByte(rest, '&'); j >= 0 {
		return url[:i+len(marker)] + "REDACTED" + rest[j:]
	}
	return url[:i+len(marker)] + "REDACTED"
}

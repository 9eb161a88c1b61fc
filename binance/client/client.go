// Package client is the sole egress point to the venue REST API. It issues
// public and signed calls, keeps the clock offset fresh, and normalizes every
// failure into the gateway error taxonomy.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/betbot/bingate/binance/signing"
	"github.com/betbot/bingate/binance/types"
	"github.com/betbot/bingate/pkg/apperr"
)

// callTimeout bounds every venue round trip. There is no retry: one failure
// surfaces immediately to the caller.
const callTimeout = 15 * time.Second

// Config carries the venue connection settings.
type Config struct {
	BaseURL      string
	APIKey       string
	APISecret    string
	RecvWindowMS int64
}

// Client is a thin venue REST client.
type Client struct {
	cfg    Config
	http   *resty.Client
	signer *signing.Signer
	times  *TimeSync
}

// New builds a client. Credentials may be empty; signed calls then fail with
// a Configuration error at call time.
func New(cfg Config) *Client {
	c := &Client{
		cfg: cfg,
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
			SetTimeout(callTimeout).
			SetHeader("Accept", "application/json"),
	}
	c.times = NewTimeSync(c.ServerTime)
	c.signer = &signing.Signer{
		Secret:       cfg.APISecret,
		RecvWindowMS: cfg.RecvWindowMS,
		Timestamp:    c.times.NowMS,
	}
	return c
}

// StartTimeSync runs the eager sync and the background refresher.
func (c *Client) StartTimeSync(ctx context.Context) {
	c.times.Start(ctx)
}

// TimeOffsetMS returns the current clock offset against the venue.
func (c *Client) TimeOffsetMS() int64 {
	return c.times.OffsetMS()
}

// BaseURL returns the configured venue base URL.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// ServerTime fetches the venue's current time in milliseconds.
func (c *Client) ServerTime(ctx context.Context) (int64, error) {
	raw, err := c.PublicGet(ctx, EndpointTime, nil)
	if err != nil {
		return 0, err
	}
	var st types.ServerTime
	if err := json.Unmarshal(raw, &st); err != nil {
		return 0, apperr.Wrap(apperr.Remote, err, "decode server time")
	}
	return st.ServerTime, nil
}

// PublicGet issues an unauthenticated GET and returns the venue body.
func (c *Client) PublicGet(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	endpoint := path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	resp, err := c.http.R().SetContext(ctx).Get(endpoint)
	return venueResponse(resp, err)
}

// SignedCall signs params, attaches the API key header, and dispatches one
// request. The transmitted query string is byte-identical to the signed
// payload with the signature appended.
func (c *Client) SignedCall(ctx context.Context, method, path string, params url.Values) (json.RawMessage, error) {
	if c.cfg.APIKey == "" || c.cfg.APISecret == "" {
		return nil, apperr.Newf(apperr.Configuration, "api key/secret not set")
	}

	signed, err := c.signer.Sign(params)
	if err != nil {
		return nil, err
	}
	endpoint := path + "?" + signed.Encode()

	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-MBX-APIKEY", c.cfg.APIKey)

	var resp *resty.Response
	switch method {
	case http.MethodGet:
		resp, err = req.Get(endpoint)
	case http.MethodPost:
		resp, err = req.Post(endpoint)
	case http.MethodDelete:
		resp, err = req.Delete(endpoint)
	default:
		return nil, apperr.Newf(apperr.Configuration, "unsupported method %s", method)
	}
	return venueResponse(resp, err)
}

// LastPrice fetches the last traded price for a symbol.
func (c *Client) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	raw, err := c.PublicGet(ctx, EndpointTickerPrice, params)
	if err != nil {
		return decimal.Zero, err
	}
	var tp types.TickerPrice
	if err := json.Unmarshal(raw, &tp); err != nil {
		return decimal.Zero, apperr.Wrap(apperr.Remote, err, "decode ticker price")
	}
	price, err := decimal.NewFromString(tp.Price)
	if err != nil {
		return decimal.Zero, apperr.Wrap(apperr.Remote, err, "parse ticker price")
	}
	return price, nil
}

// venueResponse maps a completed round trip to (body, error). Transport
// failures carry no status; non-2xx responses keep the venue body verbatim
// when it is parseable.
func venueResponse(resp *resty.Response, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, apperr.Wrap(apperr.Remote, errors.WithStack(err), "venue call failed")
	}
	if !resp.IsSuccess() {
		return nil, apperr.RemoteHTTP(resp.StatusCode(), resp.Body())
	}
	return json.RawMessage(resp.Body()), nil
}

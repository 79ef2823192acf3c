package core

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
	"teaptrack-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseUrl is the production COMET site.
const DefaultBaseUrl = "https://cometlms.medcast.com.au"

// Client wraps an already-authenticated http session against the LMS.
// Login itself is handled elsewhere, callers hand over a valid session
// cookie.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
	// name/value of the LMS session cookie, e.g. "MoodleSession"
	SessionCookieName  string
	SessionCookieValue string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	if opts.SessionCookieValue != "" {
		name := opts.SessionCookieName
		if name == "" {
			name = "MoodleSession"
		}
		client.SetCookie(&http.Cookie{
			Name:   name,
			Value:  opts.SessionCookieValue,
			Domain: baseUrl.Hostname(),
			Path:   "/",
		})
	}

	telemetry.InstrumentResty(client, "scrapers/comet/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

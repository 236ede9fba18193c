// Package session performs authenticated, certificate-pinned requests
// against Netflix's domains. It exists for the things every Netflix
// connection must do: inject the credential cookies, set the user-agent,
// and pin the TLS handshake. Logic that not all connections need does not
// belong here.
package session

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ratingsexporter/lib/netflix/credential"
	"ratingsexporter/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("netflix/session")

const userAgent = "RatingsExporter (personal ratings backup tool) Version/0.1"

const cookieDomain = ".netflix.com"

// ErrInvalidCredentials is returned when a session is constructed from a
// credential missing either session id.
var ErrInvalidCredentials = errors.New("credential is missing a required session id")

// Session issues an authenticated GET and reports the body and HTTP status.
// A rejected TLS handshake surfaces as a transport error; no retries happen
// at this layer.
type Session interface {
	Do(ctx context.Context, url string) (body []byte, status int, err error)
}

type Options struct {
	// WillDownloadAssets additionally accepts the bundled assets-domain key
	// during pinning. Without it, requests to the box-art CDN fail their
	// handshake.
	WillDownloadAssets bool
	// Pins overrides the bundled pinned keys (DER SubjectPublicKeyInfo).
	Pins [][]byte
	// RootCAs overrides the trust roots used for chain verification.
	RootCAs *x509.CertPool
	// InstrumentOutput, when set, receives request/response dumps.
	InstrumentOutput restyutil.InstrumentOutput
}

// Client is the production Session. All requests carry the credential
// cookies and the fixed user-agent; every TLS handshake is pinned.
type Client struct {
	http *resty.Client
}

func NewClient(cred credential.Credential, opts Options) (*Client, error) {
	if !cred.Valid() {
		return nil, ErrInvalidCredentials
	}

	pins := opts.Pins
	if pins == nil {
		var err error
		pins, err = bundledPins(opts.WillDownloadAssets)
		if err != nil {
			return nil, err
		}
	}

	client := resty.New()
	client.SetTimeout(time.Second * 30)
	client.SetHeader("user-agent", userAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy("www.netflix.com", "netflix.com"))
	client.SetCookies([]*http.Cookie{
		{
			Name:   credential.CookieNetflixID,
			Value:  cred.NetflixID,
			Domain: cookieDomain,
			Path:   "/",
		},
		{
			Name:   credential.CookieSecureNetflixID,
			Value:  cred.SecureNetflixID,
			Domain: cookieDomain,
			Path:   "/",
			Secure: true,
		},
	})
	client.SetTLSClientConfig(&tls.Config{
		RootCAs: opts.RootCAs,
		// runs after standard chain verification succeeds; fail closed on
		// any non-pinned key
		VerifyPeerCertificate: func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			return verifyPinnedKey(rawCerts, pins)
		},
	})

	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	return &Client{http: client}, nil
}

func (c *Client) Do(ctx context.Context, url string) ([]byte, int, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, 0, fmt.Errorf("netflix request: %w", err)
	}
	return res.Body(), res.StatusCode(), nil
}

package juiceshop

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dimasma0305/juicectf/function/log"
	"github.com/imroc/req/v3"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/110.0"

// Client talks to a Juice Shop instance and to the raw files it references
// (ctf.key, country mapping).
type Client struct {
	Url    string
	Client *req.Client
}

func New(shopUrl string, ignoreSslWarnings bool) *Client {
	c := req.C().
		SetUserAgent(userAgent).
		SetTimeout(30 * time.Second)
	if ignoreSslWarnings {
		c.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	return &Client{
		Url:    strings.TrimRight(shopUrl, "/"),
		Client: c,
	}
}

func (cs *Client) getBytes(ctx context.Context, url string) ([]byte, error) {
	log.Debug("GET %s", url)

	res, err := cs.Client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET request failed for %s: %w", url, err)
	}
	if !res.IsSuccessState() {
		return nil, fmt.Errorf("HTTP error! status: %d", res.StatusCode)
	}
	return res.Bytes(), nil
}

func (cs *Client) get(ctx context.Context, url string, data any) error {
	log.Debug("GET %s", url)

	res, err := cs.Client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("GET request failed for %s: %w", url, err)
	}
	if !res.IsSuccessState() {
		return fmt.Errorf("HTTP error! status: %d", res.StatusCode)
	}
	if err := res.UnmarshalJson(data); err != nil {
		return fmt.Errorf("error unmarshal json: %w", err)
	}
	return nil
}

func (cs *Client) shopPath(path ...string) (string, error) {
	res, err := url.JoinPath(cs.Url, path...)
	if err != nil {
		return "", fmt.Errorf("invalid Juice Shop URL %q: %w", cs.Url, err)
	}
	return res, nil
}

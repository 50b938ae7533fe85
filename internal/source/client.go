package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults matching the public sporttery history endpoint.
const (
	DefaultEndpoint   = "https://webapi.sporttery.cn/gateway/lottery/getHistoryPageListV1.qry"
	DefaultGameNo     = "04"
	DefaultProvinceID = "0"
	DefaultPageSize   = 30
	DefaultTimeout    = 10 * time.Second
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/89.0.4389.90 Safari/537.36"
)

// maxErrorBody limits how much of an error response is kept for messages.
const maxErrorBody = 512

// Config configures a Client.
type Config struct {
	Endpoint   string
	GameNo     string
	ProvinceID string
	PageSize   int
	UserAgent  string
	Timeout    time.Duration

	// HTTPClient overrides the client built from Timeout (for testing).
	HTTPClient *http.Client
}

// Client fetches pages from the remote source. It holds no state between
// calls and is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
	log  logrus.FieldLogger
}

// New creates a Client. Zero config fields take the package defaults.
func New(cfg Config, log logrus.FieldLogger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.GameNo == "" {
		cfg.GameNo = DefaultGameNo
	}
	if cfg.ProvinceID == "" {
		cfg.ProvinceID = DefaultProvinceID
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		cfg:  cfg,
		http: hc,
		log:  log.WithField("component", "source"),
	}
}

// PageURL returns the request URL for page.
func (c *Client) PageURL(page int) (string, error) {
	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("gameNo", c.cfg.GameNo)
	q.Set("provinceId", c.cfg.ProvinceID)
	q.Set("pageSize", strconv.Itoa(c.cfg.PageSize))
	q.Set("isVerify", "1")
	q.Set("pageNo", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchPage requests a single page. An empty Entries slice with a nil error
// means the source has no more data.
func (c *Client) FetchPage(ctx context.Context, page int) (*Page, error) {
	pageURL, err := c.PageURL(page)
	if err != nil {
		return nil, &Error{Code: CodeProtocol, Page: page, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &Error{Code: CodeProtocol, Page: page, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Code: classify(err), Page: page, Err: err}
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"page":    page,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("page response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{
			Code:   CodeProtocol,
			Page:   page,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status: %s", string(body)),
		}
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		code := CodeProtocol
		if isTimeout(err) {
			code = CodeTimeout
		}
		return nil, &Error{Code: code, Page: page, Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}

	if body.Success != nil && !*body.Success {
		return nil, &Error{
			Code:   CodeProtocol,
			Page:   page,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("source reported failure %s: %s", body.ErrorCode, body.ErrorMessage),
		}
	}
	if body.Value == nil {
		return nil, &Error{Code: CodeProtocol, Page: page, Status: resp.StatusCode, Err: errors.New("missing value object")}
	}

	return &Page{
		Number:  page,
		Entries: body.Value.List,
		Pages:   body.Value.Pages,
		Total:   body.Value.Total,
	}, nil
}

// classify maps a transport error to a code.
func classify(err error) ErrorCode {
	if isTimeout(err) {
		return CodeTimeout
	}
	return CodeConnectivity
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

package pagespeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/wdp365/siteapi/internal/apperr"
)

const (
	DefaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"
	DefaultTimeout  = 60 * time.Second
	DefaultStrategy = "mobile"

	maxBody = 32 << 20
)

var DefaultCategories = []string{"performance", "accessibility", "best-practices", "seo"}

var targetRe = regexp.MustCompile(`^https?://[^\s/$.?#]\S*$`)

type Request struct {
	URL        string   `json:"url"`
	Strategy   string   `json:"strategy,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

type Client struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		Endpoint: DefaultEndpoint,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: DefaultTimeout},
	}
}

func ValidURL(raw string) bool { return targetRe.MatchString(raw) }

// normalize applies defaults and validates everything that can be checked
// before calling out.
func (req Request) normalize() (Request, error) {
	req.URL = strings.TrimSpace(req.URL)
	if !ValidURL(req.URL) {
		return req, apperr.Invalid("Invalid URL. Please provide a valid http:// or https:// URL.")
	}
	req.Strategy = strings.ToLower(strings.TrimSpace(req.Strategy))
	switch req.Strategy {
	case "":
		req.Strategy = DefaultStrategy
	case "mobile", "desktop":
	default:
		return req, apperr.Invalid("Invalid strategy. Use \"mobile\" or \"desktop\".")
	}
	cats := make([]string, 0, len(req.Categories))
	for _, c := range req.Categories {
		if c = strings.TrimSpace(c); c != "" {
			cats = append(cats, c)
		}
	}
	if len(cats) == 0 {
		cats = append(cats, DefaultCategories...)
	}
	req.Categories = cats
	return req, nil
}

// FetchReport calls the PageSpeed Insights API once and reshapes its answer.
// It never retries.
func (c *Client) FetchReport(ctx context.Context, in Request) (*Report, error) {
	req, err := in.normalize()
	if err != nil {
		return nil, err
	}
	if c.APIKey == "" {
		return nil, apperr.Config("PageSpeed API key is not configured on the server.")
	}

	q := url.Values{}
	q.Set("url", req.URL)
	q.Set("key", c.APIKey)
	q.Set("strategy", req.Strategy)
	for _, cat := range req.Categories {
		q.Add("category", cat)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, apperr.Unreachable("Could not reach the PageSpeed API", err)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, apperr.Timeout("PageSpeed API request timed out", err)
		}
		return nil, apperr.Unreachable("Could not reach the PageSpeed API: "+transportText(err), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if isTimeout(err) {
			return nil, apperr.Timeout("PageSpeed API request timed out", err)
		}
		return nil, apperr.Unreachable("Could not read the PageSpeed API response: "+transportText(err), err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.UpstreamStatus(resp.StatusCode, upstreamMessage(resp.StatusCode, body))
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperr.UpstreamStatus(http.StatusBadGateway, "PageSpeed API returned an unreadable report")
	}
	return Shape(req, raw), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// transportText strips the request URL (which carries the key) from a
// *url.Error before it is shown to callers.
func transportText(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}

func upstreamMessage(code int, body []byte) string {
	var payload map[string]any
	if json.Unmarshal(body, &payload) == nil {
		if msg, ok := str(dig(payload, "error", "message")); ok && msg != "" {
			return fmt.Sprintf("PageSpeed API error: %s", msg)
		}
	}
	return fmt.Sprintf("PageSpeed API error: %s", http.StatusText(code))
}

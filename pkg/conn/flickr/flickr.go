// Package flickr is a client of Flickr REST API.
package flickr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/opst/photoshare/pkg/domain"
	"golang.org/x/time/rate"
)

// ErrUserNotFound is returned when Flickr does not know the user.
var ErrUserNotFound = errors.New("flickr: user not found")

type Client interface {
	// Person fetches the profile of the Flickr user.
	//
	// ClaimedBy and SyncedAt of the returned value are not set.
	Person(ctx context.Context, nsid string) (domain.FlickrUser, error)
}

type client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	limiter  *rate.Limiter
}

type Option func(*client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *client) {
		cl.http = c
	}
}

// New returns Client. Requests are throttled to requestsPerSecond.
func New(endpoint string, apiKey string, requestsPerSecond float64, options ...Option) Client {
	c := &client{
		http:     http.DefaultClient,
		endpoint: endpoint,
		apiKey:   apiKey,
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// Error is a failure reported by Flickr.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("flickr: %s (code %d)", e.Message, e.Code)
}

type content struct {
	Content string `json:"_content"`
}

type personResponse struct {
	Stat    string `json:"stat"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Person  struct {
		NSID        string      `json:"nsid"`
		IconServer  json.Number `json:"iconserver"`
		IconFarm    int         `json:"iconfarm"`
		Username    content     `json:"username"`
		RealName    content     `json:"realname"`
		Description content     `json:"description"`
		ProfileURL  content     `json:"profileurl"`
	} `json:"person"`
}

func (c *client) call(ctx context.Context, method string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("method", method)
	q.Set("api_key", c.apiKey)
	q.Set("format", "json")
	q.Set("nojsoncallback", "1")

	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+sep+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("flickr: %s: unexpected status %d", method, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// codes of flickr.people.getInfo meaning "no such user"
const (
	codeUserNotFound = 1
	codeUserDeleted  = 5
)

func (c *client) Person(ctx context.Context, nsid string) (domain.FlickrUser, error) {
	var resp personResponse
	if err := c.call(ctx, "flickr.people.getInfo", url.Values{"user_id": {nsid}}, &resp); err != nil {
		return domain.FlickrUser{}, err
	}
	if resp.Stat != "ok" {
		if resp.Code == codeUserNotFound || resp.Code == codeUserDeleted {
			return domain.FlickrUser{}, fmt.Errorf("%w: %s", ErrUserNotFound, nsid)
		}
		return domain.FlickrUser{}, &Error{Code: resp.Code, Message: resp.Message}
	}

	p := resp.Person
	if p.NSID == "" {
		p.NSID = nsid
	}
	return domain.FlickrUser{
		NSID:        p.NSID,
		Username:    p.Username.Content,
		RealName:    p.RealName.Content,
		Description: p.Description.Content,
		ProfileURL:  p.ProfileURL.Content,
		IconURL:     iconURL(p.NSID, p.IconServer.String(), p.IconFarm),
	}, nil
}

// iconURL builds the buddy icon URL as Flickr documents.
func iconURL(nsid string, server string, farm int) string {
	if server == "" || server == "0" {
		return "https://www.flickr.com/images/buddyicon.gif"
	}
	return fmt.Sprintf("https://farm%d.staticflickr.com/%s/buddyicons/%s.jpg", farm, server, nsid)
}

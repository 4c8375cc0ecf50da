package flickr_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/opst/photoshare/pkg/conn/flickr"
	"github.com/opst/photoshare/pkg/domain"
)

func TestPerson(t *testing.T) {
	type when struct {
		response string
	}
	type then struct {
		user domain.FlickrUser
		err  error
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			var query map[string]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				query = map[string]string{}
				for k := range r.URL.Query() {
					query[k] = r.URL.Query().Get(k)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(when.response))
			}))
			defer server.Close()

			testee := flickr.New(server.URL, "fake-key", 100)
			got, err := testee.Person(context.Background(), "12345@N01")

			if then.err != nil {
				if !errors.Is(err, then.err) {
					t.Errorf("unexpected error: %v", err)
				}
			} else if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(then.user, got); diff != "" {
				t.Errorf("user (-want +got):\n%s", diff)
			}

			wantQuery := map[string]string{
				"method":         "flickr.people.getInfo",
				"api_key":        "fake-key",
				"user_id":        "12345@N01",
				"format":         "json",
				"nojsoncallback": "1",
			}
			if diff := cmp.Diff(wantQuery, query); diff != "" {
				t.Errorf("query (-want +got):\n%s", diff)
			}
		}
	}

	t.Run("When flickr returns a person, it is converted", theory(
		when{response: `{
			"person": {
				"id": "12345@N01", "nsid": "12345@N01",
				"iconserver": "7", "iconfarm": 1,
				"username": {"_content": "alice"},
				"realname": {"_content": "Alice Liddell"},
				"description": {"_content": "photoshare-0123456789abcdef"},
				"profileurl": {"_content": "https://www.flickr.com/people/alice/"}
			},
			"stat": "ok"
		}`},
		then{user: domain.FlickrUser{
			NSID:        "12345@N01",
			Username:    "alice",
			RealName:    "Alice Liddell",
			Description: "photoshare-0123456789abcdef",
			ProfileURL:  "https://www.flickr.com/people/alice/",
			IconURL:     "https://farm1.staticflickr.com/7/buddyicons/12345@N01.jpg",
		}},
	))

	t.Run("When the person has no icon, the default icon is used", theory(
		when{response: `{
			"person": {"nsid": "12345@N01", "iconserver": "0", "iconfarm": 0, "username": {"_content": "bob"}},
			"stat": "ok"
		}`},
		then{user: domain.FlickrUser{
			NSID:     "12345@N01",
			Username: "bob",
			IconURL:  "https://www.flickr.com/images/buddyicon.gif",
		}},
	))

	t.Run("When flickr says user not found, it is ErrUserNotFound", theory(
		when{response: `{"stat": "fail", "code": 1, "message": "User not found"}`},
		then{err: flickr.ErrUserNotFound},
	))
}

func TestPerson_Error(t *testing.T) {
	t.Run("other failures are reported as *Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"stat": "fail", "code": 100, "message": "Invalid API Key"}`))
		}))
		defer server.Close()

		_, err := flickr.New(server.URL, "bad-key", 100).Person(context.Background(), "x")
		var ferr *flickr.Error
		if !errors.As(err, &ferr) || ferr.Code != 100 {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("requests are throttled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"stat": "ok", "person": {"nsid": "x"}}`))
		}))
		defer server.Close()

		testee := flickr.New(server.URL, "key", 20)
		start := time.Now()
		for i := 0; i < 3; i++ {
			if _, err := testee.Person(context.Background(), "x"); err != nil {
				t.Fatal(err)
			}
		}
		// burst 1, then 50ms each.
		if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
			t.Errorf("too fast: %s", elapsed)
		}
	})

	t.Run("when context is done while waiting, it returns", func(t *testing.T) {
		testee := flickr.New("http://127.0.0.1:0", "key", 0.001)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := testee.Person(ctx, "x"); err == nil {
			t.Error("it should fail")
		}
	})
}

package hook_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/opst/photoshare/cmd/jobs/hook"
	apijobs "github.com/opst/photoshare/pkg/api/types/jobs"
	cfg_hook "github.com/opst/photoshare/pkg/configs/hook"
	"github.com/opst/photoshare/pkg/utils/try"
)

type Value struct {
	Content string `json:"content"`
}

type Resp struct {
	StatusCode  int
	ContentType string
	Content     string
}

// hookServer starts a server responding resp, and tells whether it was invoked.
func hookServer(t *testing.T, name string, phase hook.Phase, want Value, resp Resp) (*url.URL, *bool) {
	t.Helper()
	invoked := new(bool)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*invoked = true
		if r.Method != http.MethodPost {
			t.Errorf("%s: unexpected method: %s", name, r.Method)
		}
		if got := r.Header.Get(hook.PhaseHeader); got != string(phase) {
			t.Errorf("%s: unexpected phase: %s", name, got)
		}
		var got Value
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
		if got != want {
			t.Errorf("%s: Expected: %v, Got: %v", name, want, got)
		}

		if resp.ContentType != "" {
			w.Header().Set("Content-Type", resp.ContentType)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Content != "" {
			w.Write([]byte(resp.Content))
		}
	}))
	t.Cleanup(server.Close)
	return try.To(url.Parse(server.URL)).OrFatal(t), invoked
}

func merge(a, b map[string]string) map[string]string {
	ret := map[string]string{}
	for k, v := range a {
		ret[k] = v
	}
	for k, v := range b {
		ret[k] = v
	}
	return ret
}

func TestWebHook_Before(t *testing.T) {
	type When struct {
		resp1 Resp
		resp2 Resp
	}
	type Then struct {
		invoked1 bool
		invoked2 bool
		ret      map[string]string
		err      error
	}

	value := Value{Content: "hello"}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			url1, invoked1 := hookServer(t, "server1", hook.PhaseBefore, value, when.resp1)
			url2, invoked2 := hookServer(t, "server2", hook.PhaseBefore, value, when.resp2)

			testee := hook.Web[Value, map[string]string]{
				BeforeURL: []*url.URL{url1, url2},
				Merge:     merge,
			}

			ret, err := testee.Before(context.Background(), value)
			if !errors.Is(err, then.err) {
				t.Errorf("Want: %v, Got: %v", then.err, err)
			}
			if *invoked1 != then.invoked1 {
				t.Errorf("invoked1: Want: %v, Got: %v", then.invoked1, *invoked1)
			}
			if *invoked2 != then.invoked2 {
				t.Errorf("invoked2: Want: %v, Got: %v", then.invoked2, *invoked2)
			}
			if diff := cmp.Diff(then.ret, ret, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ret (-want +got):\n%s", diff)
			}
		}
	}

	t.Run("Success All", theory(
		When{
			resp1: Resp{StatusCode: http.StatusOK, ContentType: "application/json", Content: `{"a": "1"}`},
			resp2: Resp{StatusCode: http.StatusOK, ContentType: "application/json", Content: `{"b": "2"}`},
		},
		Then{
			invoked1: true,
			invoked2: true,
			ret:      map[string]string{"a": "1", "b": "2"},
		},
	))

	t.Run("Success All (with not json response)", theory(
		When{
			resp1: Resp{StatusCode: http.StatusOK, ContentType: "application/json", Content: `{"a": "1"}`},
			resp2: Resp{StatusCode: http.StatusOK, ContentType: "text/plain", Content: `{"b": "2"}`},
		},
		Then{
			invoked1: true,
			invoked2: true,
			ret:      map[string]string{"a": "1"},
		},
	))

	t.Run("Success All (with empty body)", theory(
		When{
			resp1: Resp{StatusCode: http.StatusNoContent, ContentType: "application/json"},
			resp2: Resp{StatusCode: http.StatusOK, ContentType: "application/json", Content: `{"b": "2"}`},
		},
		Then{
			invoked1: true,
			invoked2: true,
			ret:      map[string]string{"b": "2"},
		},
	))

	t.Run("Fail First", theory(
		When{
			resp1: Resp{StatusCode: http.StatusNotFound},
			resp2: Resp{StatusCode: http.StatusOK, ContentType: "application/json", Content: `{"b": "2"}`},
		},
		Then{
			invoked1: true,
			invoked2: false,
			err:      hook.ErrHookFailed,
		},
	))

	t.Run("Fail Second", theory(
		When{
			resp1: Resp{StatusCode: http.StatusOK, ContentType: "application/json", Content: `{"a": "1"}`},
			resp2: Resp{StatusCode: http.StatusInternalServerError, ContentType: "text/plain", Content: "oops"},
		},
		Then{
			invoked1: true,
			invoked2: true,
			err:      hook.ErrHookFailed,
		},
	))
}

func TestWebHook_After(t *testing.T) {
	type When struct {
		resp1 Resp
		resp2 Resp
	}
	type Then struct {
		invoked1 bool
		invoked2 bool
		err      error
	}

	value := Value{Content: "hello"}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			url1, invoked1 := hookServer(t, "server1", hook.PhaseAfter, value, when.resp1)
			url2, invoked2 := hookServer(t, "server2", hook.PhaseAfter, value, when.resp2)

			testee := hook.Web[Value, struct{}]{
				AfterURL: []*url.URL{url1, url2},
				Merge:    func(a, _ struct{}) struct{} { return a },
			}

			err := testee.After(context.Background(), value)
			if !errors.Is(err, then.err) {
				t.Errorf("Want: %v, Got: %v", then.err, err)
			}
			if *invoked1 != then.invoked1 {
				t.Errorf("invoked1: Want: %v, Got: %v", then.invoked1, *invoked1)
			}
			if *invoked2 != then.invoked2 {
				t.Errorf("invoked2: Want: %v, Got: %v", then.invoked2, *invoked2)
			}
		}
	}

	t.Run("Success All", theory(
		When{
			resp1: Resp{StatusCode: http.StatusOK},
			resp2: Resp{StatusCode: http.StatusAccepted},
		},
		Then{invoked1: true, invoked2: true},
	))

	t.Run("Fail First", theory(
		When{
			resp1: Resp{StatusCode: http.StatusBadGateway},
			resp2: Resp{StatusCode: http.StatusOK},
		},
		Then{invoked1: true, invoked2: false, err: hook.ErrHookFailed},
	))
}

func TestWebHook_Sends_InvalidUrl(t *testing.T) {
	testee := hook.Web[string, struct{}]{
		BeforeURL: []*url.URL{
			try.To(url.Parse("http://somewhere.invalid")).OrFatal(t),
		},
	}

	if _, err := testee.Before(context.Background(), "hello"); !errors.Is(err, hook.ErrHookFailed) {
		t.Errorf("Want: %v, Got: %v", hook.ErrHookFailed, err)
	}
}

func TestBuild(t *testing.T) {
	t.Run("without urls, it does nothing", func(t *testing.T) {
		h := hook.Build(cfg_hook.WebHook{})
		if _, ok := h.(hook.None[apijobs.Detail]); !ok {
			t.Errorf("unexpected hook: %T", h)
		}
	})

	t.Run("with urls, it calls them", func(t *testing.T) {
		before := try.To(url.Parse("https://hooks.example.com/before")).OrFatal(t)
		h := hook.Build(cfg_hook.WebHook{Before: []*url.URL{before}})
		web, ok := h.(hook.Web[apijobs.Detail, struct{}])
		if !ok {
			t.Fatalf("unexpected hook: %T", h)
		}
		if len(web.BeforeURL) != 1 || web.BeforeURL[0] != before {
			t.Errorf("BeforeURL: %v", web.BeforeURL)
		}
		if web.Client == nil || web.Client.Timeout != hook.Timeout {
			t.Errorf("Client: %+v", web.Client)
		}
	})
}

func TestWebHook_Cancelled(t *testing.T) {
	u, invoked := hookServer(t, "server", hook.PhaseBefore, Value{}, Resp{StatusCode: http.StatusOK})
	testee := hook.Web[Value, struct{}]{BeforeURL: []*url.URL{u}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := testee.Before(ctx, Value{}); !errors.Is(err, context.Canceled) || !errors.Is(err, hook.ErrHookFailed) {
		t.Errorf("unexpected error: %v", err)
	}
	if *invoked {
		t.Error("hook is invoked after cancel")
	}
}

func TestFunc(t *testing.T) {
	ctx := context.Background()
	fakeErr := errors.New("fake error")

	testee := hook.Func[string, int]{
		BeforeFn: func(_ context.Context, s string) (int, error) { return len(s), nil },
		AfterFn:  func(context.Context, string) error { return fakeErr },
	}

	if n, err := testee.Before(ctx, "hello"); n != 5 || err != nil {
		t.Errorf("Before: (%d, %v)", n, err)
	}
	if err := testee.After(ctx, "hello"); !errors.Is(err, fakeErr) || !errors.Is(err, hook.ErrHookFailed) {
		t.Errorf("After: %v", err)
	}

	empty := hook.Func[string, int]{}
	if n, err := empty.Before(ctx, "hello"); n != 0 || err != nil {
		t.Errorf("Before of empty Func: (%d, %v)", n, err)
	}
	if err := empty.After(ctx, "hello"); err != nil {
		t.Errorf("After of empty Func: %v", err)
	}
}

package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Web is a hook POSTing the value as JSON to URLs.
//
// URLs are called in order. The hook fails at the first URL
// responding other than 2xx, and the rest are not called.
type Web[T any, R any] struct {
	BeforeURL []*url.URL
	AfterURL  []*url.URL

	// Merge combines JSON responses from BeforeURL.
	// It is required when BeforeURL has 2 or more URLs.
	Merge func(a, b R) R

	// When nil, http.DefaultClient is used.
	Client *http.Client
}

// max bytes of error response body quoted in errors.
const quoteLimit = 4096

func (w Web[T, R]) do(ctx context.Context, phase Phase, u *url.URL, payload []byte) (R, error) {
	var r R

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return r, failed(phase, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(PhaseHeader, string(phase))

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return r, failed(phase, err)
	}
	defer resp.Body.Close()

	mediatype, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	isJSON := mediatype == "application/json" || strings.HasSuffix(mediatype, "+json")

	if resp.StatusCode/100 != 2 {
		cause := fmt.Errorf("%s responded %d", u.Redacted(), resp.StatusCode)
		if isJSON || strings.HasPrefix(mediatype, "text/") {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, quoteLimit))
			cause = fmt.Errorf("%w: %s", cause, body)
		}
		return r, failed(phase, cause)
	}

	if !isJSON {
		return r, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return r, failed(phase, err)
	}
	return r, nil
}

func (w Web[T, R]) call(ctx context.Context, phase Phase, value T, urls []*url.URL) (R, error) {
	var ret R
	if len(urls) == 0 {
		return ret, nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return ret, err
	}

	for i, u := range urls {
		r, err := w.do(ctx, phase, u, payload)
		if err != nil {
			var zero R
			return zero, err
		}
		if i == 0 {
			ret = r
		} else {
			ret = w.Merge(ret, r)
		}
	}
	return ret, nil
}

func (w Web[T, R]) Before(ctx context.Context, value T) (R, error) {
	return w.call(ctx, PhaseBefore, value, w.BeforeURL)
}

func (w Web[T, R]) After(ctx context.Context, value T) error {
	_, err := w.call(ctx, PhaseAfter, value, w.AfterURL)
	return err
}

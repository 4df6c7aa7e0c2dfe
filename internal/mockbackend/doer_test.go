package mockbackend

import (
	"net/http"

	fhttp "github.com/bogdanfinn/fhttp"
)

// stdDoer adapts net/http to the client's HTTPDoer so tests talk to
// httptest servers without the TLS fingerprinting transport
type stdDoer struct{}

func (stdDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	out, err := http.NewRequestWithContext(req.Context(), req.Method, req.URL.String(), req.Body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Header {
		out.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(out)
	if err != nil {
		return nil, err
	}
	return &fhttp.Response{
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Header:     fhttp.Header(resp.Header),
		Body:       resp.Body,
	}, nil
}

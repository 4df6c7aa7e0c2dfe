package api

import (
	"io"

	fhttp "github.com/bogdanfinn/fhttp"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data   []byte
	pos    int
	closed bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// MockHTTPDoer records requests and returns a canned response
type MockHTTPDoer struct {
	Response *fhttp.Response
	Err      error

	Requests []*fhttp.Request
	Bodies   [][]byte
}

// Do implements HTTPDoer
func (m *MockHTTPDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.Requests = append(m.Requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.Bodies = append(m.Bodies, data)
	} else {
		m.Bodies = append(m.Bodies, nil)
	}
	return m.Response, m.Err
}

// NewMockHTTPDoer creates a MockHTTPDoer with a response of the given status
func NewMockHTTPDoer(body []byte, statusCode int) *MockHTTPDoer {
	return &MockHTTPDoer{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       NewMockResponseBody(body),
			Header:     make(fhttp.Header),
		},
	}
}

// NewMockHTTPDoerWithError creates a MockHTTPDoer that fails at the transport
func NewMockHTTPDoerWithError(err error) *MockHTTPDoer {
	return &MockHTTPDoer{Err: err}
}

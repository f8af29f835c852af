// Package transcribe streams audio to a live speech-recognition service and
// hands decoded results back to the owning connection.
package transcribe

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultBaseURL = "wss://api.deepgram.com/v1/listen"

	// The capture pipeline ships 16 kHz linear PCM; the query parameters are
	// fixed at build time, not negotiated per session.
	audioEncoding = "linear16"
	sampleRate    = 16000
)

type Config struct {
	// BaseURL overrides the service address; tests point it at a mock.
	BaseURL string
	APIKey  string
}

func (c Config) endpoint() string {
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("encoding", audioEncoding)
	q.Set("sample_rate", strconv.Itoa(sampleRate))
	q.Set("punctuate", "true")
	u.RawQuery = q.Encode()
	return u.String()
}

func (c Config) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Token "+c.APIKey)
	return h
}

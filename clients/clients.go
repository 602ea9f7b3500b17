// Package clients holds the HTTP collaborators the pipeline calls before and
// after the core analysis: the diarization oracle, the transcription service,
// and the LLM judge. None of these run concurrently with the core.
package clients

import (
	"net/http"
	"time"
)

type HTTP struct{ c *http.Client }

// Uploads of long recordings dominate request time, so the shared client gets
// a generous timeout; job polling uses short individual requests.
func NewHTTP() *HTTP { return &HTTP{c: &http.Client{Timeout: 120 * time.Second}} }

package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ImageRequest is the payload published to the PlantUML and DrawIO
// converter services.
type ImageRequest struct {
	Data         string `json:"data"`
	ReplySubject string `json:"reply_subject"`
	OutputFormat string `json:"output_format"`
}

// NotebookRequest is the payload published to the notebook processor.
// OtherFiles carries the topic's sibling source files (keyed by path
// relative to the topic) that the processor may need to execute the
// notebook.
type NotebookRequest struct {
	NotebookText   string            `json:"notebook_text"`
	NotebookPath   string            `json:"notebook_path"`
	ReplySubject   string            `json:"reply_subject"`
	ProgLang       string            `json:"prog_lang"`
	Language       string            `json:"language"`
	NotebookFormat string            `json:"notebook_format"`
	OutputType     string            `json:"output_type"`
	OtherFiles     map[string]string `json:"other_files"`
}

// Reply is the envelope every worker sends back: exactly one of Result
// (base64 for binary artifacts, raw text otherwise) or Error is set.
type Reply struct {
	Result *string `json:"result,omitempty"`
	Error  *string `json:"error,omitempty"`
}

// ErrMalformedReply indicates a reply that satisfies neither side of the
// result-xor-error contract.
var ErrMalformedReply = errors.New("reply has neither result nor error")

// DecodeReply parses a worker reply envelope. A worker-reported failure is
// returned as an error wrapping the worker's own description.
func DecodeReply(data []byte) (string, error) {
	var reply Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return "", fmt.Errorf("reply is not a JSON object: %w", err)
	}
	switch {
	case reply.Error != nil:
		return "", fmt.Errorf("worker error: %s", *reply.Error)
	case reply.Result != nil:
		return *reply.Result, nil
	default:
		return "", ErrMalformedReply
	}
}

package ai

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"strings"
)

const (
	dataPrefix     = "data: "
	doneSentinel   = "[DONE]"
	maxLineBytes   = 1 << 20
	initialBufSize = 4096
)

// ChatStream consumes the provider's SSE response incrementally.
// bufio carries trailing partial lines across reads, so Recv never
// parses an incomplete line.
type ChatStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

func newChatStream(body io.ReadCloser) *ChatStream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, initialBufSize), maxLineBytes)
	return &ChatStream{body: body, scanner: scanner}
}

// Recv returns the next incremental content fragment. io.EOF marks the
// end of the stream (the [DONE] sentinel or body exhaustion). Malformed
// chunks are logged and skipped, never aborting the stream; fragments
// may be empty when a chunk carries no delta content.
func (s *ChatStream) Recv() (string, error) {
	for s.scanner.Scan() {
		line := strings.TrimRight(s.scanner.Text(), "\r")
		if !strings.HasPrefix(line, dataPrefix) {
			// Comments, event names and blank keep-alive lines.
			continue
		}

		payload := strings.TrimSpace(line[len(dataPrefix):])
		if payload == doneSentinel {
			return "", io.EOF
		}

		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			log.Printf("[ai] skipping malformed chunk: %v", err)
			continue
		}

		if len(chunk.Choices) == 0 {
			continue
		}
		return chunk.Choices[0].Delta.Content, nil
	}

	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Close releases the underlying response body.
func (s *ChatStream) Close() error {
	return s.body.Close()
}

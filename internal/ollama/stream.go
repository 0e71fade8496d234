package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// streamReader parses the NDJSON body of a streaming chat response.
type streamReader struct {
	reader *bufio.Reader
	model  string
}

func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{reader: bufio.NewReader(r)}
}

// process reads the stream and calls the callback for each chunk. Blocks
// until the stream is complete or the context is cancelled.
func (s *streamReader) process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			chunk, err := s.readChunk()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}

			if chunk != nil {
				callback(*chunk)
				if chunk.Done {
					return nil
				}
			}
		}
	}
}

// readChunk reads and parses a single NDJSON line.
func (s *streamReader) readChunk() (*StreamChunk, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(line) == 0 {
			return nil, io.EOF
		}
		// Process the trailing line even on EOF
		if len(line) == 0 {
			return nil, err
		}
	}

	trimmed := strings.TrimSpace(string(line))
	if trimmed == "" {
		return nil, nil
	}

	var response ChatResponse
	if err := json.Unmarshal([]byte(trimmed), &response); err != nil {
		// Skip malformed lines
		return nil, nil
	}

	if response.Model != "" {
		s.model = response.Model
	}

	return &StreamChunk{
		Content: response.Message.Content,
		Done:    response.Done,
		Model:   s.model,
	}, nil
}

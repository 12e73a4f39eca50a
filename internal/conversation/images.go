package conversation

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// saveInlineImages writes each payload to the output directory, in response
// order, and returns the file paths. Names combine the conversation id, a
// timestamp, the payload's position, and a random fragment, so concurrent
// writes in the same second cannot collide.
func (s *Store) saveInlineImages(convID string, payloads []InlinePayload) ([]string, error) {
	paths := make([]string, 0, len(payloads))
	if len(payloads) == 0 {
		return paths, nil
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102150405")
	for i, payload := range payloads {
		if _, _, err := image.DecodeConfig(bytes.NewReader(payload.Data)); err != nil {
			return nil, fmt.Errorf("decode inline payload %d: %w", i, err)
		}

		name := fmt.Sprintf("%s_%s_%d_%s%s", convID, stamp, i, uuid.NewString()[:8], extensionFor(payload))
		path := filepath.Join(s.outputDir, name)

		if err := os.WriteFile(path, payload.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write image %s: %w", name, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func extensionFor(payload InlinePayload) string {
	switch strings.ToLower(strings.TrimSpace(payload.MIMEType)) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	}

	if ext := mimetype.Detect(payload.Data).Extension(); ext != "" {
		return ext
	}
	return ".png"
}

package api

import "context"

// Transcriber converts an audio file into text.
type Transcriber interface {
	Transcript(ctx context.Context, inputFilePath string) (string, error)
}

package metadata

import "context"

// Transcriber converts a video or audio file into text suitable for
// synthesis input. No implementation ships with this service; the
// transcription endpoint reports 501 until a real speech-to-text
// integration is wired in.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Package services defines shared utilities consumed by the pipeline stages
// and their external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp stage names and correlation identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper, so failures from yt-dlp,
//     the transcription helper, and webhook delivery keep a stable kind that
//     Code can report to HTTP clients.
//
// Subpackages wrap the external tools themselves (ytdlp, fasterwhisper).
package services

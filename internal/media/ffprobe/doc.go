// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//
// Primary entry point:
//   - Inspect: runs ffprobe through ffmpeg-go and returns parsed Result
//
// The transcriber uses DurationSeconds as a fallback when the speech model
// does not report the audio length.
package ffprobe

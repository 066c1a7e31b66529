// Package fasterwhisper runs faster-whisper speech recognition through an
// embedded Python helper.
//
// The helper script is piped to the configured interpreter on stdin and
// prints a single JSON object with the detected language, its probability,
// the audio duration, and the recognized segments. Inference always uses VAD
// filtering and conditions on previous text.
//
// Configuration options (model, precision, threads, beam width, device) are
// passed via Config; WithCommandRunner replaces process execution in tests.
package fasterwhisper

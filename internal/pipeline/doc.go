// Package pipeline sequences one transcription request: validate the input,
// create a private work directory, materialize cookies, fetch the audio,
// transcribe it, assemble the payload, and optionally hand it to the webhook.
//
// Every stage logs its start and outcome with the request's correlation id.
// The work directory and cookie file are removed on every exit path.
package pipeline

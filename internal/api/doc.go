// Package api exposes the transcription pipeline over HTTP using gin.
//
// Routes:
//
//	GET  /health      liveness check, never authenticated
//	POST /transcribe  run the pipeline synchronously and return the payload
//
// The /transcribe body is read leniently: malformed or absent JSON is treated
// as an empty object, and video_url falls back to the query string. Failures
// are reported as {"ok": false, "error": ..., "code": ...} where code is the
// services.Code classification of the error.
//
// Every request receives an X-Request-ID (honoured from the client when
// present) that is attached to the request context so pipeline logs carry it
// as correlation_id. When server.api_token is configured, /transcribe
// requires a matching bearer token.
package api

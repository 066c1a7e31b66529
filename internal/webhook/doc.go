// Package webhook delivers JSON documents to an HTTP receiver.
//
// A Dispatcher marshals the document once and POSTs exactly those bytes, so
// the optional X-Signature header (HMAC-SHA256 of the body) always matches
// what the receiver reads. Non-2xx replies are returned to the caller rather
// than treated as failures; only transport problems are errors.
package webhook

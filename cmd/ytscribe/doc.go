// Package main hosts the ytscribe CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the HTTP transcription service, performs
// one-off transcriptions in-process, resolves direct audio URLs, reports
// dependency health, and scaffolds configuration. Configuration is resolved
// once per invocation by commandContext and handed to each subcommand.
//
// Keep this package lean: new behaviour belongs in the internal packages
// first and is only surfaced here through commands or flags.
package main

// Package ytdlp wraps the yt-dlp CLI.
//
// Fetch downloads and extracts the best audio track of a video into a
// directory and reports the produced file. ResolveAudioURL asks yt-dlp for
// the direct (temporary) media URL of that track without downloading it.
// WriteCookies materializes a base64 Netscape cookie jar for restricted
// videos.
//
// Command execution is injectable through WithCommandRunner so tests never
// need the real binary.
package ytdlp

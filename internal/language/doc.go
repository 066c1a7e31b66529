// Package language provides language code normalization and display names.
//
// Caller hints arrive as ISO 639-1 or 639-2 codes, English words, or BCP 47
// tags such as "pt-BR"; Normalize reduces them to the 2-letter code the
// transcriber accepts and treats an empty hint as auto-detection.
package language

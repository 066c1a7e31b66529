// Package staging manages the per-invocation work directories that hold
// downloaded audio and cookie files, plus removal of directories left behind
// by crashed processes.
package staging

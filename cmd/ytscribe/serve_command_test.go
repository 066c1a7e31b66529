package main

import (
	"strings"
	"testing"

	"ytscribe/internal/staging"
	"ytscribe/internal/testsupport"
)

func TestServeRefusesSharedStagingDir(t *testing.T) {
	isolateCLI(t)
	cfg := testsupport.NewConfig(t)
	path := writeTestConfig(t, cfg)

	lock, ok, err := staging.AcquireLock(cfg.Paths.StagingDir)
	if err != nil || !ok {
		t.Fatalf("acquire lock: ok=%v err=%v", ok, err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"serve"}, path)
	if err == nil || !strings.Contains(err.Error(), "another ytscribe server") {
		t.Fatalf("expected lock conflict, got %v", err)
	}
}

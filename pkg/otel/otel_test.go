package otel

import (
	"context"
	"testing"
)

func TestSetup_MetricsWithoutTracing(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{
		ServiceName: "api-test",
		Environment: "test",
	})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected a shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

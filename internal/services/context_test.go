package services_test

import (
	"context"
	"testing"

	"clipper/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithLine(ctx, 7)
	ctx = services.WithOutput(ctx, "A/Clip.mkv")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if line, ok := services.LineFromContext(ctx); !ok || line != 7 {
		t.Fatalf("unexpected line: %v %v", line, ok)
	}
	if out, ok := services.OutputFromContext(ctx); !ok || out != "A/Clip.mkv" {
		t.Fatalf("unexpected output: %v %v", out, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithLine(ctx, 0)
	ctx = services.WithOutput(ctx, "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id")
	}
	if _, ok := services.LineFromContext(ctx); ok {
		t.Fatal("expected no line")
	}
	if _, ok := services.OutputFromContext(ctx); ok {
		t.Fatal("expected no output")
	}
}

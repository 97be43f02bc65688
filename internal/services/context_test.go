package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"auxl/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAction(ctx, "save")
	ctx = services.WithSessionPath(ctx, "/tmp/review.auxl")
	ctx = services.WithRequestID(ctx, "req-123")

	if action, ok := services.ActionFromContext(ctx); !ok || action != "save" {
		t.Fatalf("unexpected action: %v %v", action, ok)
	}
	if path, ok := services.SessionPathFromContext(ctx); !ok || path != "/tmp/review.auxl" {
		t.Fatalf("unexpected session path: %v %v", path, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAction(ctx, "")
	ctx = services.WithSessionPath(ctx, "")
	if _, ok := services.ActionFromContext(ctx); ok {
		t.Fatal("expected no action value")
	}
	if _, ok := services.SessionPathFromContext(ctx); ok {
		t.Fatal("expected no session path value")
	}
}

func TestWithNewRequestIDIsUUID(t *testing.T) {
	ctx := services.WithNewRequestID(context.Background())
	rid, ok := services.RequestIDFromContext(ctx)
	if !ok {
		t.Fatal("expected request id")
	}
	if _, err := uuid.Parse(rid); err != nil {
		t.Fatalf("request id %q is not a uuid: %v", rid, err)
	}
}

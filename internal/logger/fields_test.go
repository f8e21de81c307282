package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCommonFieldsTagsEmbeddingProvider(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	WithCommonFields(zap.New(core), " gemini ", "gemini-embedding-001").Debug("gemini embed content request")
	WithCommonFields(zap.New(core), "gemini", "").Debug("model unknown")

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["embedding_provider"] != "gemini" || ctx["embedding_model"] != "gemini-embedding-001" {
		t.Fatalf("unexpected embedding fields: %v", ctx)
	}

	if _, ok := entries[1].ContextMap()[FieldModel]; ok {
		t.Fatal("expected empty model to be omitted")
	}
}

func TestWithFilter(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithFilter(zap.New(core), "vector_similarity").Info("filter step")
	WithFilter(zap.New(core), "  ").Info("untagged")
	WithFilter(nil, "vector_similarity").Info("dropped")

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if got := entries[0].ContextMap()[FieldFilter]; got != "vector_similarity" {
		t.Fatalf("expected filter field, got %v", got)
	}

	if _, ok := entries[1].ContextMap()[FieldFilter]; ok {
		t.Fatal("expected blank filter name to be omitted")
	}
}

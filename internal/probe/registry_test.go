package probe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/waabox/ingestwatch/internal/domain"
	"github.com/waabox/ingestwatch/internal/probe"
)

func TestRegistry_LookupReturnsRegisteredCheck(t *testing.T) {
	r := probe.NewRegistry()
	r.Register(domain.StageCreateIndex, func(_ context.Context, _ string) (domain.ProbeResult, error) {
		return domain.ProbeResult{Complete: true}, nil
	})

	check, err := r.Lookup(domain.StageCreateIndex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, _ := check(context.Background(), "")
	if !result.Complete {
		t.Error("expected registered check to report complete")
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := probe.NewRegistry()
	r.Register(domain.StageUpload, func(_ context.Context, _ string) (domain.ProbeResult, error) {
		return domain.ProbeResult{Complete: false}, nil
	})
	r.Register(domain.StageUpload, func(_ context.Context, _ string) (domain.ProbeResult, error) {
		return domain.ProbeResult{Complete: true}, nil
	})

	check, _ := r.Lookup(domain.StageUpload)
	result, _ := check(context.Background(), "")
	if !result.Complete {
		t.Error("expected the second registration to win")
	}
}

func TestRegistry_ReturnsErrorForUnknownStage(t *testing.T) {
	r := probe.NewRegistry()
	_, err := r.Lookup(domain.StageCreateSkillset)
	if !errors.Is(err, domain.ErrUnknownStage) {
		t.Errorf("expected ErrUnknownStage, got %v", err)
	}
}

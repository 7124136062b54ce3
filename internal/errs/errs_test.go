package errs

import (
	"context"
	"errors"
	"testing"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := New(KindValidation, "chapter number out of range")
	wrapped := Wrapf(Wrap(base, "build prompt"), "generate chapter %d", 9)

	if got := KindOf(wrapped); got != KindValidation {
		t.Fatalf("KindOf() = %q, want %q", got, KindValidation)
	}
	if !errors.Is(wrapped, base) {
		t.Fatalf("errors.Is() lost the sentinel")
	}
}

func TestWithKindKeepsInnermostKind(t *testing.T) {
	inner := New(KindNotFound, "manuscript not found")
	outer := WithKind(Wrap(inner, "load"), KindPersistence)

	if got := KindOf(outer); got != KindNotFound {
		t.Fatalf("KindOf() = %q, want %q", got, KindNotFound)
	}

	timeout := WithKind(context.DeadlineExceeded, KindTimeout)
	if !Is(timeout, KindTimeout) || !errors.Is(timeout, context.DeadlineExceeded) {
		t.Fatalf("timeout tagging broken: %v", timeout)
	}
}

func TestErrorChainStrings(t *testing.T) {
	err := Wrap(Wrap(errors.New("disk full"), "insert row"), "save customer")
	chain := ErrorChainStrings(err)
	if len(chain) != 3 {
		t.Fatalf("chain len = %d, want 3: %#v", len(chain), chain)
	}
	if chain[2] != "disk full" {
		t.Fatalf("innermost = %q", chain[2])
	}
	if WithKind(nil, KindTimeout) != nil || Wrap(nil, "x") != nil {
		t.Fatalf("nil errors must stay nil")
	}
}

func TestErrorChainStringsSkipsKindTags(t *testing.T) {
	err := Wrap(WithKind(Wrap(errors.New("status 500"), "call text generation"), KindGeneration), "generate chapter")
	chain := ErrorChainStrings(err)
	want := []string{
		"generate chapter: call text generation: status 500",
		"call text generation: status 500",
		"status 500",
	}
	if len(chain) != len(want) {
		t.Fatalf("chain = %#v, want %#v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Fatalf("chain[%d] = %q, want %q", i, chain[i], want[i])
		}
	}
}

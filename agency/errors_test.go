package agency

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mtransitapps/gtfs"
)

func TestFatalError(t *testing.T) {
	route := &gtfs.Route{Id: "1", ShortName: "R9"}
	err := Fatalf(KindConfigMismatch, route, "unexpected route short name %q", route.ShortName)

	wrapped := fmt.Errorf("processing feed: %w", err)
	if !IsFatal(wrapped) {
		t.Errorf("IsFatal() = false, want true")
	}
	if got := KindOf(wrapped); got != KindConfigMismatch {
		t.Errorf("KindOf() = %s, want %s", got, KindConfigMismatch)
	}
	for _, want := range []string{"config mismatch", `"R9"`, `Id:"1"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error() = %q, want it to contain %q", err.Error(), want)
		}
	}

	plain := errors.New("boom")
	if IsFatal(plain) || KindOf(plain) != 0 {
		t.Errorf("plain error reported as fatal")
	}
	cause := &FatalError{Kind: KindMalformedNumber, Err: plain}
	if !errors.Is(cause, plain) {
		t.Errorf("errors.Is() = false, want the cause to be unwrapped")
	}
	if got, want := cause.Error(), "malformed number: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

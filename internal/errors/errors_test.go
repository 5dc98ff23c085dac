package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"domain error", New(CodeBlueprintNoZones, "no zones"), CodeBlueprintNoZones},
		{"wrapped domain error", fmt.Errorf("outer: %w", New(CodeSessionClosed, "closed")), CodeSessionClosed},
		{"plain error", stderrors.New("boom"), CodeUnknown},
		{"nil", nil, CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(CodeNotFound, "session missing", stderrors.New("sql: no rows"))

	if !stderrors.Is(err, New(CodeNotFound, "different message")) {
		t.Error("errors with the same code did not match")
	}
	if stderrors.Is(err, New(CodeSessionClosed, "session missing")) {
		t.Error("errors with different codes matched")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeSessionSnapshotDecode, "decode snapshot", cause)

	if !stderrors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	if err.Error() != "decode snapshot" {
		t.Errorf("Error() = %q, want message only", err.Error())
	}
}

func TestGetMetadata(t *testing.T) {
	err := WithMetadata(CodeSessionSnapshotVersion, "unsupported version", map[string]string{
		"version": "9",
	})

	meta := GetMetadata(fmt.Errorf("restore: %w", err))
	if meta["version"] != "9" {
		t.Errorf("metadata = %v, want version 9", meta)
	}
	if GetMetadata(stderrors.New("plain")) != nil {
		t.Error("plain error returned metadata")
	}
}

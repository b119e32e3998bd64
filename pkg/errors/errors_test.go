package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code        Code
		publicMsg   string
		detailsOK   bool
		recordLevel bool
	}{
		{code: CodeValidation, publicMsg: "validation failed", detailsOK: true},
		{code: CodeMalformedRecord, publicMsg: "record field could not be parsed", detailsOK: true, recordLevel: true},
		{code: CodeUnknownEnumValue, publicMsg: "record field holds an unrecognized code", detailsOK: true, recordLevel: true},
		{code: CodeInvalidRange, publicMsg: "record field is out of range", detailsOK: true, recordLevel: true},
		{code: CodeDuplicateRecord, publicMsg: "record duplicates an earlier record", detailsOK: true, recordLevel: true},
		{code: CodeInternal, publicMsg: "internal error"},
		{code: CodeDependency, publicMsg: "dependency unavailable", detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
		if meta.RecordLevel != tt.recordLevel {
			t.Fatalf("code %s expected record level %v got %v", tt.code, tt.recordLevel, meta.RecordLevel)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.PublicMessage != "internal error" {
		t.Fatalf("expected internal metadata, got %q", meta.PublicMessage)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeMalformedRecord, "revenue is not a number")
	if base.Code() != CodeMalformedRecord {
		t.Fatalf("expected malformed code, got %s", base.Code())
	}
	if base.Message() != "revenue is not a number" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "revenue"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "fetch sales")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
	if wrapped.Error() != "DEPENDENCY_ERROR: fetch sales: boom" {
		t.Fatalf("unexpected error text %q", wrapped.Error())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeInvalidRange, "negative stock"))
	if got := As(err); got == nil || got.Code() != CodeInvalidRange {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestHasCodeWalksTypedChain(t *testing.T) {
	inner := New(CodeUnknownEnumValue, "bad type")
	outer := Wrap(CodeValidation, inner, "batch rejected")
	if !HasCode(outer, CodeUnknownEnumValue) {
		t.Fatal("expected nested code to be found")
	}
	if !HasCode(outer, CodeValidation) {
		t.Fatal("expected outer code to be found")
	}
	if HasCode(outer, CodeDependency) {
		t.Fatal("unexpected dependency code")
	}
	if HasCode(stdErrors.New("plain"), CodeValidation) {
		t.Fatal("plain errors carry no code")
	}
}

func TestDumpIncludesAllowedDetails(t *testing.T) {
	err := New(CodeMalformedRecord, "bad revenue").WithDetails(map[string]any{"field": "revenue"})
	dump := Dump(err)
	if dump.Code != CodeMalformedRecord {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if dump.Details == nil {
		t.Fatal("expected details in dump")
	}
	if len(dump.Chain) != 1 {
		t.Fatalf("expected chain of 1, got %d", len(dump.Chain))
	}
	if got := Dump(nil); got.TopMessage != "" {
		t.Fatalf("expected empty dump for nil")
	}
}

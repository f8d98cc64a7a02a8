package netmsg

import (
	"errors"
	"testing"
)

func TestStructuredError(t *testing.T) {
	err := NewError("SendMessage", ErrCodePayloadTooLarge, "payload exceeds ceiling")

	if err.Op != "SendMessage" {
		t.Errorf("Op = %s, want SendMessage", err.Op)
	}
	if err.Code != ErrCodePayloadTooLarge {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodePayloadTooLarge)
	}

	expected := "netmsg: payload exceeds ceiling (op=SendMessage)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewPeerError(t *testing.T) {
	err := NewPeerError("HandleIncomingData", 7, ErrCodeMalformedBatch, "short buffer")

	if err.PeerID != 7 {
		t.Errorf("PeerID = %d, want 7", err.PeerID)
	}
	expected := "netmsg: short buffer (op=HandleIncomingData)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestWrapError(t *testing.T) {
	inner := errors.New("boom")
	err := WrapError("ProcessSendQueues", ErrCodeTransportSend, inner)

	if err.Code != ErrCodeTransportSend {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeTransportSend)
	}
	if !errors.Is(err, err) {
		t.Error("a structured error should satisfy errors.Is against itself")
	}
	if errors.Unwrap(err) != inner {
		t.Error("Unwrap should return the original inner error")
	}
}

func TestWrapError_PreservesStructuredInnerCode(t *testing.T) {
	inner := NewError("Registry.Build", ErrCodeInvalidMessageStructure, "missing Receive")
	wrapped := WrapError("NewCore", ErrCodeMalformedBatch, inner)

	if wrapped.Code != ErrCodeInvalidMessageStructure {
		t.Errorf("Code = %s, want the inner error's code to be preserved", wrapped.Code)
	}
}

func TestIsCode(t *testing.T) {
	err := NewError("TEST", ErrCodeUnknownTag, "tag out of range")

	if !IsCode(err, ErrCodeUnknownTag) {
		t.Error("IsCode should return true for a matching code")
	}
	if IsCode(err, ErrCodeHandlerPanic) {
		t.Error("IsCode should return false for a non-matching code")
	}
	if IsCode(nil, ErrCodeUnknownTag) {
		t.Error("IsCode should return false for a nil error")
	}
}

func TestError_IsComparesByCode(t *testing.T) {
	a := &Error{Code: ErrCodeTransportSend}
	b := &Error{Code: ErrCodeTransportSend, Msg: "different message, same code"}
	c := &Error{Code: ErrCodeUnknownTag}

	if !errors.Is(a, b) {
		t.Error("two structured errors with the same Code should match errors.Is")
	}
	if errors.Is(a, c) {
		t.Error("structured errors with different Codes should not match errors.Is")
	}
}

package models

import "testing"

func TestGatewayResponseFieldAccessors(t *testing.T) {
	resp := GatewayResponse{
		"status":        "approved",
		"response_code": "0000",
		"order_number":  "000000123",
	}

	if status, ok := resp.Status(); !ok || status != "approved" {
		t.Fatalf("unexpected status: %q, %v", status, ok)
	}
	if code, ok := resp.ResponseCode(); !ok || code != "0000" {
		t.Fatalf("unexpected response code: %q, %v", code, ok)
	}
	if _, ok := resp.TransactionType(); ok {
		t.Fatal("absent transaction type reported as present")
	}

	// Non-string values count as absent.
	resp["status"] = 42
	if _, ok := resp.Status(); ok {
		t.Fatal("numeric status reported as present")
	}

	// An empty string is a delivered value and must report present.
	resp["status"] = ""
	if status, ok := resp.Status(); !ok || status != "" {
		t.Fatalf("empty status must count as present, got %q, %v", status, ok)
	}
	resp["response_code"] = ""
	if code, ok := resp.ResponseCode(); !ok || code != "" {
		t.Fatalf("empty response code must count as present, got %q, %v", code, ok)
	}
}

func TestWithTransactionTypeLeavesOriginalUntouched(t *testing.T) {
	original := GatewayResponse{
		"status":       "approved",
		"order_number": "000000123",
	}

	derived := original.WithTransactionType(TransactionTypeAuthorize)

	if txnType, ok := derived.TransactionType(); !ok || txnType != TransactionTypeAuthorize {
		t.Fatalf("unexpected transaction type on copy: %q, %v", txnType, ok)
	}
	if _, ok := original.TransactionType(); ok {
		t.Fatal("original response was mutated")
	}
	if number, ok := derived.OrderNumber(); !ok || number != "000000123" {
		t.Fatalf("copy lost fields: %q, %v", number, ok)
	}
}

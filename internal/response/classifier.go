// Package response classifies gateway responses and dispatches them to
// transaction-type-specific handlers.
package response

import "github.com/example/payments-gateway/internal/models"

// Successful reports whether a gateway response represents an approved
// transaction. Both conditions are required: the status must be approved,
// and when a response code is present it must be the gateway's success code.
func Successful(resp models.GatewayResponse) bool {
	status, ok := resp.Status()
	if !ok || status != "approved" {
		return false
	}
	if code, ok := resp.ResponseCode(); ok {
		return code == "0000"
	}
	return true
}

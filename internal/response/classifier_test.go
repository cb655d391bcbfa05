package response

import (
	"testing"

	"github.com/example/payments-gateway/internal/models"
)

func TestSuccessful(t *testing.T) {
	cases := []struct {
		name string
		resp models.GatewayResponse
		want bool
	}{
		{
			name: "approved without response code",
			resp: models.GatewayResponse{"status": "approved"},
			want: true,
		},
		{
			name: "approved with success code",
			resp: models.GatewayResponse{"status": "approved", "response_code": "0000"},
			want: true,
		},
		{
			name: "approved with failure code",
			resp: models.GatewayResponse{"status": "approved", "response_code": "0001"},
			want: false,
		},
		{
			name: "approved with empty response code",
			resp: models.GatewayResponse{"status": "approved", "response_code": ""},
			want: false,
		},
		{
			name: "empty status",
			resp: models.GatewayResponse{"status": ""},
			want: false,
		},
		{
			name: "declined",
			resp: models.GatewayResponse{"status": "declined"},
			want: false,
		},
		{
			name: "declined with success code",
			resp: models.GatewayResponse{"status": "declined", "response_code": "0000"},
			want: false,
		},
		{
			name: "missing status",
			resp: models.GatewayResponse{"response_code": "0000"},
			want: false,
		},
		{
			name: "empty response",
			resp: models.GatewayResponse{},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Successful(tc.resp); got != tc.want {
				t.Fatalf("Successful(%v) = %v, want %v", tc.resp, got, tc.want)
			}
		})
	}
}

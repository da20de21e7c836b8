package core

import "testing"

// Requirement: auth routes emit the fixed trusted origin unconditionally;
// block routes echo only whitelisted origins; public routes get a bare
// wildcard; everything else gets no headers at all.
func TestOriginPolicy_Decide(t *testing.T) {
	policy := OriginPolicy{
		AuthOrigin:   "https://auth.engramhq.xyz",
		BlockOrigins: []string{"http://localhost:8080", "https://app.engramhq.xyz"},
	}

	tests := []struct {
		name          string
		group         RouteGroup
		requestOrigin string
		wantOrigin    string
		wantCreds     bool
		wantNone      bool
	}{
		{
			name:          "auth group ignores the request origin",
			group:         GroupAuth,
			requestOrigin: "https://evil.example",
			wantOrigin:    "https://auth.engramhq.xyz",
			wantCreds:     true,
		},
		{
			name:          "auth group with no origin header still anchors",
			group:         GroupAuth,
			requestOrigin: "",
			wantOrigin:    "https://auth.engramhq.xyz",
			wantCreds:     true,
		},
		{
			name:          "block group echoes whitelisted origin",
			group:         GroupBlocks,
			requestOrigin: "https://app.engramhq.xyz",
			wantOrigin:    "https://app.engramhq.xyz",
			wantCreds:     true,
		},
		{
			name:          "block group matches second whitelist entry",
			group:         GroupBlocks,
			requestOrigin: "http://localhost:8080",
			wantOrigin:    "http://localhost:8080",
			wantCreds:     true,
		},
		{
			name:          "block group emits nothing for unknown origin",
			group:         GroupBlocks,
			requestOrigin: "https://evil.example",
			wantNone:      true,
		},
		{
			name:          "block group emits nothing without an origin header",
			group:         GroupBlocks,
			requestOrigin: "",
			wantNone:      true,
		},
		{
			name:          "public group is wildcard without credentials",
			group:         GroupPublic,
			requestOrigin: "https://anywhere.example",
			wantOrigin:    "*",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := policy.Decide(test.group, test.requestOrigin)

			if test.wantNone {
				if got != nil {
					t.Fatalf("Decide() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Decide() = nil, want headers")
			}
			if got.AllowOrigin != test.wantOrigin {
				t.Errorf("AllowOrigin = %q, want %q", got.AllowOrigin, test.wantOrigin)
			}
			if got.AllowCredentials != test.wantCreds {
				t.Errorf("AllowCredentials = %v, want %v", got.AllowCredentials, test.wantCreds)
			}
			if test.wantCreds && got.AllowHeaders == "" {
				t.Error("credentialed groups must advertise allowed headers")
			}
		})
	}
}

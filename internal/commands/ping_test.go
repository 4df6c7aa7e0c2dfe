package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/diogo/floatchat/internal/api"
	apierrors "github.com/diogo/floatchat/internal/errors"
)

func TestPingCommand(t *testing.T) {
	tests := []struct {
		name      string
		client    *api.MockClient
		wantErr   bool
		wantOut   string
		wantStder string
	}{
		{
			name:    "healthy",
			client:  &api.MockClient{HealthVal: &api.HealthStatus{Status: "ok", Message: "Floatchat backend is running"}},
			wantOut: "http://127.0.0.1:8000: Floatchat backend is running",
		},
		{
			name:    "not ok",
			client:  &api.MockClient{HealthVal: &api.HealthStatus{Status: "degraded"}},
			wantErr: true,
		},
		{
			name:      "unreachable",
			client:    &api.MockClient{HealthErr: apierrors.NewNetworkErrorWithEndpoint("health check", "http://127.0.0.1:8000/", errors.New("connection refused"))},
			wantErr:   true,
			wantStder: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.client)

			err := env.run("ping")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantOut != "" && !strings.Contains(env.stdout.String(), tt.wantOut) {
				t.Errorf("stdout = %q, want %q", env.stdout.String(), tt.wantOut)
			}
			if tt.wantStder != "" && !strings.Contains(env.stderr.String(), tt.wantStder) {
				t.Errorf("stderr = %q, want %q", env.stderr.String(), tt.wantStder)
			}
			if env.client.CallCount() != 0 {
				t.Error("ping must not call /chat")
			}
		})
	}
}

func TestPingCommand_RejectsArgs(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})
	if err := env.run("ping", "extra"); err == nil {
		t.Error("ping takes no arguments")
	}
}

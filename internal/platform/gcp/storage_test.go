package gcp

import "testing"

func TestClientOptionsFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	if opts := ClientOptionsFromEnv(); opts != nil {
		t.Fatalf("expected no options, got %d", len(opts))
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/creds.json")
	if opts := ClientOptionsFromEnv(); len(opts) != 1 {
		t.Fatalf("expected file credentials option, got %d", len(opts))
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", `{"type":"service_account"}`)
	if opts := ClientOptionsFromEnv(); len(opts) != 1 {
		t.Fatalf("expected json credentials option, got %d", len(opts))
	}
}

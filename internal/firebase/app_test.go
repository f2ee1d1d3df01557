package firebase

import (
	"context"
	"strings"
	"testing"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

func TestSetDocument_InvalidPath(t *testing.T) {
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "demo-project", option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("firestore client: %v", err)
	}
	docs := NewDocumentStore(client)
	defer func() { _ = docs.Close() }()

	err = docs.SetDocument(ctx, "artifacts", map[string]any{"a": 1})
	if err == nil || !strings.Contains(err.Error(), "invalid document path") {
		t.Fatalf("expected invalid path error, got %v", err)
	}
}

func TestInitialize_RequiresProjectID(t *testing.T) {
	t.Cleanup(func() { _ = Shutdown() })
	if _, err := Initialize(context.Background(), Config{APIKey: "k"}); err == nil {
		t.Fatalf("expected error without project id")
	}
}

func TestInitialize_SingleInstance(t *testing.T) {
	f := newFakeToolkit(t)
	t.Cleanup(func() { _ = Shutdown() })

	cfg := Config{
		APIKey:    "test-key",
		ProjectID: "demo-project",
		AuthConfig: AuthConfig{
			Endpoint:       f.srv.URL + "/",
			SecureTokenURL: f.srv.URL + "/token",
		},
	}
	a1, err := Initialize(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	a2, err := Initialize(context.Background(), Config{})
	if err != nil || a2 != a1 {
		t.Fatalf("second Initialize must return the existing app, got %p %v", a2, err)
	}

	provider, docs, err := Opener(cfg)(context.Background())
	if err != nil {
		t.Fatalf("Opener: %v", err)
	}
	if provider != a1.Auth() || docs != a1.Documents() {
		t.Fatalf("Opener must hand out the process-wide clients")
	}

	if _, err := a1.VerifyCurrentUser(context.Background()); err == nil {
		t.Fatalf("verification without a user must fail")
	}

	if err := Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	a3, err := Initialize(context.Background(), cfg)
	if err != nil || a3 == a1 {
		t.Fatalf("Initialize after Shutdown must create a new app")
	}
}

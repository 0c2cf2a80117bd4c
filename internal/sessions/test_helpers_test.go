package sessions

import (
	"context"
	"strings"
	"testing"
	"time"

	"resume-roaster/internal/credentials"
	"resume-roaster/internal/session"
)

const testClient = "client-1"

type fakeLLM struct {
	fn func(ctx context.Context, prompt, credential string) (string, error)
}

func (f fakeLLM) Analyze(ctx context.Context, prompt, credential string) (string, error) {
	return f.fn(ctx, prompt, credential)
}

func replyWith(text string) fakeLLM {
	return fakeLLM{fn: func(ctx context.Context, prompt, credential string) (string, error) {
		return text, nil
	}}
}

func failWith(err error) fakeLLM {
	return fakeLLM{fn: func(ctx context.Context, prompt, credential string) (string, error) {
		return "", err
	}}
}

const fullReply = "# 🔥 THE ROAST\nroast body\n\n# ✅ WINS\nwins body\n\n# 📊 ATS COMPATIBILITY SCORE\nScore: 70/100\n\n" +
	"# 💡 TOP 3 REWRITES\nrewrites body\n\n# 🎯 QUICK WINS\nquick body\n\n# 🚩 RED FLAGS\nNone detected"

func sampleResume() string {
	return strings.Repeat("Built data pipelines. ", 12)
}

func newTestService(t *testing.T, client fakeLLM) (*Service, *credentials.MemoryStore) {
	t.Helper()
	store := credentials.NewMemoryStore()
	svc := NewService(client, store)
	t.Cleanup(func() { svc.Shutdown(context.Background()) })
	return svc, store
}

// sessionInSetup creates a session with a credential and an accepted resume.
func sessionInSetup(t *testing.T, svc *Service) string {
	t.Helper()
	ctx := context.Background()
	snap, err := svc.Create(ctx, testClient)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Dispatch(ctx, testClient, snap.ID, session.CredentialChanged{Credential: "sk-test"}); err != nil {
		t.Fatalf("CredentialChanged: %v", err)
	}
	snap, err = svc.Dispatch(ctx, testClient, snap.ID, session.ResumePasted{Text: sampleResume()})
	if err != nil {
		t.Fatalf("ResumePasted: %v", err)
	}
	if snap.State.Stage != session.StageSetup {
		t.Fatalf("expected setup, got %s", snap.State.Stage)
	}
	return snap.ID
}

func awaitSettled(t *testing.T, svc *Service, id string) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := svc.Await(ctx, testClient, id)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	return snap
}

package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"artesanal/internal/domain"
)

func openTestOutbox(t *testing.T) *Outbox {
	t.Helper()
	o, err := Open(filepath.Join(t.TempDir(), "outbox.db"))
	if err != nil {
		t.Fatalf("open outbox: %v", err)
	}
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestEnqueuePendingDelete(t *testing.T) {
	o := openTestOutbox(t)
	ctx := context.Background()

	id1, err := o.Enqueue(ctx, domain.FormContact, json.RawMessage(`{"n":1}`))
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	id2, err := o.Enqueue(ctx, domain.FormContact, json.RawMessage(`{"n":2}`))
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := o.Enqueue(ctx, domain.FormNewsletter, json.RawMessage(`{"email":"a@b.co"}`)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	pending, err := o.Pending(ctx, domain.FormContact)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 contact records, got %d", len(pending))
	}
	if pending[0].ID != id1 || pending[1].ID != id2 {
		t.Fatalf("expected enqueue order [%d %d], got [%d %d]", id1, id2, pending[0].ID, pending[1].ID)
	}
	if string(pending[0].Data) != `{"n":1}` {
		t.Fatalf("unexpected data: %s", pending[0].Data)
	}
	if pending[0].Kind != domain.FormContact {
		t.Fatalf("unexpected kind: %s", pending[0].Kind)
	}
	if pending[0].QueuedAt.IsZero() {
		t.Fatal("expected queued timestamp")
	}

	if err := o.Delete(ctx, id1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	pending, err = o.Pending(ctx, domain.FormContact)
	if err != nil || len(pending) != 1 || pending[0].ID != id2 {
		t.Fatalf("expected one remaining record, got %+v, %v", pending, err)
	}
}

func TestQueueSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outbox.db")
	ctx := context.Background()

	o, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := o.Enqueue(ctx, domain.FormContact, json.RawMessage(`{"n":1}`)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	pending, err := reopened.Pending(ctx, domain.FormContact)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected queued record to survive reopen, got %+v, %v", pending, err)
	}
}

package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing document"},
		{StatusTranslating, "translating sentences"},
		{StatusWriting, "writing output"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJobStatus_Done(t *testing.T) {
	for _, s := range []JobStatus{StatusCompleted, StatusFailed, StatusPartial} {
		if !s.Done() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []JobStatus{StatusQueued, StatusParsing, StatusTranslating, StatusWriting} {
		if s.Done() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestJob_SetStatusFailed(t *testing.T) {
	job := &Job{
		ID:        "test-fail",
		Status:    StatusTranslating,
		UpdatedAt: time.Now(),
	}
	job.SetStatus(StatusFailed, "translation error")
	if job.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, job.Status)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("page 3 fell back")
	job.AddError("save failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "page 3 fell back" {
		t.Errorf("expected first error %q, got %q", "page 3 fell back", snap.Progress.Errors[0])
	}

	// Snapshots are copies.
	snap.Progress.Errors[0] = "changed"
	if job.Snapshot().Progress.Errors[0] != "page 3 fell back" {
		t.Error("snapshot shares its errors slice with the job")
	}
}

func TestJob_SetPages(t *testing.T) {
	job := &Job{ID: "pages-test", UpdatedAt: time.Now()}
	job.SetPages(1, 3)
	job.SetPages(2, 3)

	snap := job.Snapshot()
	if snap.Progress.PagesProcessed != 2 || snap.Progress.TotalPages != 3 {
		t.Errorf("expected 2/3 pages, got %d/%d", snap.Progress.PagesProcessed, snap.Progress.TotalPages)
	}
}

func TestJob_SetSummary(t *testing.T) {
	job := &Job{ID: "sum-test", UpdatedAt: time.Now()}
	job.SetSummary(Summary{Pages: 4, FallbackPages: 1, Translated: 10, Failed: 2, Images: 3, ImagesSkipped: 1})

	p := job.Snapshot().Progress
	if p.PagesProcessed != 4 || p.FallbackPages != 1 || p.SentencesTranslated != 10 || p.SentencesFailed != 2 || p.Images != 3 || p.ImagesSkipped != 1 {
		t.Errorf("unexpected progress %+v", p)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_FindCompleted(t *testing.T) {
	store := NewJobStore(time.Hour)
	done := &Job{ID: "a", ContentHash: "h", Source: "en", Target: "ja", Status: StatusCompleted}
	running := &Job{ID: "b", ContentHash: "h", Source: "en", Target: "ja", Status: StatusTranslating}
	store.Put(done)
	store.Put(running)

	if got := store.FindCompleted("h", "en", "ja", "b"); got != done {
		t.Fatalf("expected completed job, got %v", got)
	}
	if store.FindCompleted("h", "en", "de", "b") != nil {
		t.Error("other target language must not match")
	}
	if store.FindCompleted("h", "en", "ja", "a") != nil {
		t.Error("excluded job must not match")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 jobs, got %d", store.Len())
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}

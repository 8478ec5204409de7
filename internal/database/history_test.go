package database

import (
	"testing"
	"time"

	"pdfpress/internal/compression"
	"pdfpress/internal/jobs"
)

func finishedSnapshot(id string, status jobs.Status, saved int64, finished time.Time) jobs.Snapshot {
	req := compression.JobRequest{
		InputPath:  "/docs/" + id + ".pdf",
		OutputPath: "/docs/" + id + "_compressed.pdf",
		DPI:        150,
		Preset:     compression.PresetScreen,
	}
	snap := jobs.Snapshot{
		Status:     status,
		JobID:      id,
		Request:    &req,
		StartedAt:  finished.Add(-time.Second),
		FinishedAt: finished,
	}
	switch status {
	case jobs.StatusSucceeded:
		snap.Result = &compression.Result{
			OriginalSize:   saved * 2,
			CompressedSize: saved,
			SavedBytes:     saved,
		}
	case jobs.StatusFailed:
		snap.Error = "ghostscript exited with code 1"
		snap.ExitCode = 1
	}
	return snap
}

func TestRecordJob_AndRecentJobs(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	snaps := []jobs.Snapshot{
		finishedSnapshot("a", jobs.StatusSucceeded, 100, base),
		finishedSnapshot("b", jobs.StatusFailed, 0, base.Add(time.Minute)),
		finishedSnapshot("c", jobs.StatusSucceeded, 250, base.Add(2*time.Minute)),
	}
	for _, s := range snaps {
		if err := db.RecordJob(s); err != nil {
			t.Fatalf("RecordJob(%s) failed: %v", s.JobID, err)
		}
	}

	recent, err := db.RecentJobs(2)
	if err != nil {
		t.Fatalf("RecentJobs failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recent))
	}
	if recent[0].ID != "c" || recent[1].ID != "b" {
		t.Errorf("Expected newest first [c b], got [%s %s]", recent[0].ID, recent[1].ID)
	}
	if recent[1].ExitCode != 1 || recent[1].Status != "failed" {
		t.Errorf("Failed record lost details: %+v", recent[1])
	}
	if recent[0].Preset != "screen" || recent[0].DPI != 150 {
		t.Errorf("Unexpected settings on record: %+v", recent[0])
	}

	totals, err := db.Totals()
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	want := Totals{FilesCompressed: 2, FailedJobs: 1, BytesSaved: 350}
	if totals != want {
		t.Errorf("Expected %+v, got %+v", want, totals)
	}
}

func TestRecordJob_Rejects(t *testing.T) {
	db := setupTestDB(t)

	if err := db.RecordJob(jobs.Snapshot{Status: jobs.StatusSucceeded, JobID: "x"}); err == nil {
		t.Error("Expected error for snapshot without request")
	}

	running := finishedSnapshot("r", jobs.StatusRunning, 0, time.Now())
	if err := db.RecordJob(running); err == nil {
		t.Error("Expected error for running snapshot")
	}
}

func TestTotals_Empty(t *testing.T) {
	db := setupTestDB(t)

	totals, err := db.Totals()
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals != (Totals{}) {
		t.Errorf("Expected zero totals, got %+v", totals)
	}
}

package database

import (
	"errors"
	"fmt"

	"pdfpress/internal/jobs"
)

const defaultHistoryLimit = 20

// RecordJob stores a finished job snapshot
func (d *Database) RecordJob(snap jobs.Snapshot) error {
	if snap.Request == nil {
		return errors.New("job snapshot has no request")
	}
	if !snap.Status.Terminal() {
		return fmt.Errorf("job %s is still %s", snap.JobID, snap.Status)
	}

	record := JobRecord{
		ID:         snap.JobID,
		InputPath:  snap.Request.InputPath,
		OutputPath: snap.Request.OutputPath,
		Preset:     snap.Request.Preset.String(),
		DPI:        snap.Request.DPI,
		Status:     string(snap.Status),
		ExitCode:   snap.ExitCode,
		Error:      snap.Error,
		StartedAt:  snap.StartedAt,
		FinishedAt: snap.FinishedAt,
	}
	if snap.Result != nil {
		record.OriginalSize = snap.Result.OriginalSize
		record.CompressedSize = snap.Result.CompressedSize
		record.SavedBytes = snap.Result.SavedBytes
		record.CompressionRatio = snap.Result.CompressionRatio
	}

	return d.db.Create(&record).Error
}

// RecentJobs returns the newest finished jobs first
func (d *Database) RecentJobs(limit int) ([]JobRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	var records []JobRecord
	err := d.db.Order("finished_at desc").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Totals sums up the job history
func (d *Database) Totals() (Totals, error) {
	var totals Totals

	succeeded := d.db.Model(&JobRecord{}).Where("status = ?", string(jobs.StatusSucceeded))
	if err := succeeded.Count(&totals.FilesCompressed).Error; err != nil {
		return Totals{}, err
	}

	row := d.db.Model(&JobRecord{}).
		Where("status = ?", string(jobs.StatusSucceeded)).
		Select("COALESCE(SUM(saved_bytes), 0)").
		Row()
	if err := row.Scan(&totals.BytesSaved); err != nil {
		return Totals{}, err
	}

	err := d.db.Model(&JobRecord{}).Where("status = ?", string(jobs.StatusFailed)).Count(&totals.FailedJobs).Error
	if err != nil {
		return Totals{}, err
	}

	return totals, nil
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package calibration persists classifier predictions alongside ground
// truth labels and reports accuracy over the accumulated records, so
// confidence thresholds can be tuned against real outcomes.
package calibration

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/papergate/services/feasibility/paper"
)

var (
	// ErrEmptyPaperID indicates a record with no paper identifier.
	ErrEmptyPaperID = errors.New("calibration: paper id is empty")

	// ErrInvalidType indicates a record whose predicted or ground truth
	// type is not a known innovation type.
	ErrInvalidType = errors.New("calibration: unknown innovation type")

	// ErrConfidenceRange indicates a confidence outside [0.0, 1.0].
	ErrConfidenceRange = errors.New("calibration: confidence out of range")

	// ErrTrackerClosed indicates use after Close.
	ErrTrackerClosed = errors.New("calibration: tracker is closed")
)

// recordPrefix namespaces accuracy records in the key space.
const recordPrefix = "record/"

// AccuracyRecord pairs one prediction with its ground truth label.
type AccuracyRecord struct {
	PaperID         string               `json:"paper_id"`
	PredictedType   paper.InnovationType `json:"predicted_type"`
	GroundTruthType paper.InnovationType `json:"ground_truth_type"`
	Confidence      float64              `json:"confidence"`
	Rationale       string               `json:"rationale,omitempty"`
	Timestamp       time.Time            `json:"timestamp"`
}

// IsCorrect reports whether the prediction matched ground truth.
func (r *AccuracyRecord) IsCorrect() bool {
	return r.PredictedType == r.GroundTruthType
}

// validate rejects structurally bad records before they reach storage.
func (r *AccuracyRecord) validate() error {
	if strings.TrimSpace(r.PaperID) == "" {
		return ErrEmptyPaperID
	}
	if !r.PredictedType.Valid() {
		return fmt.Errorf("%w: predicted %q", ErrInvalidType, r.PredictedType)
	}
	if !r.GroundTruthType.Valid() {
		return fmt.Errorf("%w: ground truth %q", ErrInvalidType, r.GroundTruthType)
	}
	if r.Confidence < 0.0 || r.Confidence > 1.0 {
		return fmt.Errorf("%w: %f", ErrConfidenceRange, r.Confidence)
	}
	return nil
}

// Tracker stores accuracy records in a Badger database. Recording the
// same paper ID twice overwrites the earlier record.
//
// Thread Safety: safe for concurrent use; Badger transactions provide
// the isolation.
type Tracker struct {
	db     *badger.DB
	logger *slog.Logger
	closed bool
}

// TrackerOptions configures a Tracker.
type TrackerOptions struct {
	// Path is the on-disk database directory. Ignored when InMemory.
	Path string

	// InMemory keeps all records in memory; useful for tests.
	InMemory bool

	// Logger for tracker events. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewTracker opens (creating if needed) the calibration store.
func NewTracker(opts TrackerOptions) (*Tracker, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	badgerOpts := badger.DefaultOptions(opts.Path).
		WithInMemory(opts.InMemory).
		WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("calibration: open store: %w", err)
	}

	opts.Logger.Debug("calibration store opened",
		slog.String("path", opts.Path),
		slog.Bool("in_memory", opts.InMemory),
	)
	return &Tracker{db: db, logger: opts.Logger}, nil
}

// Close releases the underlying database. Safe to call twice.
func (t *Tracker) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.db.Close()
}

// Record validates and persists one accuracy record.
//
// A zero Timestamp is stamped with the current UTC time.
func (t *Tracker) Record(rec *AccuracyRecord) error {
	if t.closed {
		return ErrTrackerClosed
	}
	if err := rec.validate(); err != nil {
		return err
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("calibration: encode record: %w", err)
	}
	key := []byte(recordPrefix + rec.PaperID)

	err = t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, payload)
	})
	if err != nil {
		return fmt.Errorf("calibration: store record: %w", err)
	}

	t.logger.Debug("accuracy record stored",
		slog.String("paper_id", rec.PaperID),
		slog.String("predicted", string(rec.PredictedType)),
		slog.String("ground_truth", string(rec.GroundTruthType)),
		slog.Bool("correct", rec.IsCorrect()),
	)
	return nil
}

// Records returns all stored records, sorted by paper ID.
func (t *Tracker) Records() ([]AccuracyRecord, error) {
	if t.closed {
		return nil, ErrTrackerClosed
	}

	var records []AccuracyRecord
	err := t.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec AccuracyRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("calibration: decode record: %w", err)
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].PaperID < records[j].PaperID
	})
	return records, nil
}

// Report computes the accuracy report over all stored records.
func (t *Tracker) Report() (*AccuracyReport, error) {
	records, err := t.Records()
	if err != nil {
		return nil, err
	}
	return BuildReport(records), nil
}

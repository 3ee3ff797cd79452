package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/prose"
)

// ReportStore reads segmented scenes and writes analysis reports through a
// Storage.
type ReportStore struct {
	storage Storage
	naming  NamingStrategy
	now     func() time.Time
}

func NewReportStore(s Storage, naming NamingStrategy) *ReportStore {
	return &ReportStore{storage: s, naming: naming, now: time.Now}
}

// sceneFile accepts either a bare scene array or an object with a scenes key.
type sceneFile struct {
	Title  string             `json:"title,omitempty"`
	Scenes []manuscript.Scene `json:"scenes"`
}

// LoadScenes decodes the scene list at path. The title is empty when the file
// is a bare array. Missing word counts are computed from the text.
func (r *ReportStore) LoadScenes(ctx context.Context, path string) (string, []manuscript.Scene, error) {
	data, err := r.storage.Load(ctx, path)
	if err != nil {
		return "", nil, fmt.Errorf("loading scenes: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var scenes []manuscript.Scene
		if err := json.Unmarshal(trimmed, &scenes); err != nil {
			return "", nil, fmt.Errorf("%w: decoding scenes: %v", manuscript.ErrMalformedInput, err)
		}
		return "", fillWordCounts(scenes), nil
	}

	var f sceneFile
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return "", nil, fmt.Errorf("%w: decoding scenes: %v", manuscript.ErrMalformedInput, err)
	}
	return f.Title, fillWordCounts(f.Scenes), nil
}

// fillWordCounts counts words for scenes that arrive without a word count.
func fillWordCounts(scenes []manuscript.Scene) []manuscript.Scene {
	for i := range scenes {
		if scenes[i].WordCount == 0 && scenes[i].Text != "" {
			scenes[i].WordCount = prose.CountWords(scenes[i].Text)
		}
	}
	return scenes
}

// SaveReport writes v as indented JSON and returns the relative path used.
func (r *ReportStore) SaveReport(ctx context.Context, runID, title string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	p := ReportPath(runID, title, r.naming, r.now())
	if err := r.storage.Save(ctx, p, append(data, '\n')); err != nil {
		return "", fmt.Errorf("saving report: %w", err)
	}
	return p, nil
}

// Reports lists saved report paths.
func (r *ReportStore) Reports(ctx context.Context) ([]string, error) {
	return r.storage.List(ctx, "reports/*.json")
}

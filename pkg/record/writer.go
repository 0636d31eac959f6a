// Package record persists march sessions to disk so sweeps can be replayed
// or inspected offline. Events are a human-greppable JSONL summary stream;
// frames carry the full sample chains.
package record

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/btbonval/raymarch/pkg/scene"
)

var sessionNameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

const manifestVersion = 1

// Manifest describes the session bundle layout so tooling can locate
// artefacts.
type Manifest struct {
	Version    int    `json:"version"`
	CreatedAt  string `json:"created_at"`
	Scene      string `json:"scene"`
	SceneID    string `json:"scene_id"`
	EventsPath string `json:"events_path"`
	FramesPath string `json:"frames_path"`
}

// Event is the per-frame summary line written to the events stream.
type Event struct {
	Tick      uint64  `json:"tick"`
	Angle     float64 `json:"angle"`
	Samples   int     `json:"samples"`
	Truncated bool    `json:"truncated"`
}

// Writer streams march frames to disk: snappy-compressed JSONL events plus
// a zstd stream of length-prefixed frame blobs, with a manifest tying them
// together.
type Writer struct {
	mu          sync.Mutex
	dir         string
	eventFile   *os.File
	eventStream *snappy.Writer
	frameFile   *os.File
	frameStream *zstd.Encoder
	closed      bool
}

// NewWriter prepares the session directory under root and opens the
// compressed sinks. The directory is named after the scene and creation
// time.
func NewWriter(root string, sc *scene.Scene, clock func() time.Time) (*Writer, Manifest, error) {
	if root == "" {
		return nil, Manifest{}, fmt.Errorf("record root must be provided")
	}
	if clock == nil {
		clock = time.Now
	}

	cleaned := sessionNameCleaner.ReplaceAllString(sc.Name, "")
	if cleaned == "" {
		cleaned = "session"
	}
	created := clock().UTC()
	dir := filepath.Join(root, fmt.Sprintf("%s-%s", cleaned, created.Format("20060102T150405Z")))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Manifest{}, err
	}

	eventsPath := filepath.Join(dir, "events.jsonl.sz")
	framesPath := filepath.Join(dir, "frames.bin.zst")

	eventFile, err := os.Create(eventsPath)
	if err != nil {
		return nil, Manifest{}, err
	}
	eventStream := snappy.NewBufferedWriter(eventFile)

	frameFile, err := os.Create(framesPath)
	if err != nil {
		eventFile.Close()
		return nil, Manifest{}, err
	}
	frameStream, err := zstd.NewWriter(frameFile)
	if err != nil {
		eventFile.Close()
		frameFile.Close()
		return nil, Manifest{}, err
	}

	manifest := Manifest{
		Version:    manifestVersion,
		CreatedAt:  created.Format(time.RFC3339),
		Scene:      sc.Name,
		SceneID:    sc.ID,
		EventsPath: "events.jsonl.sz",
		FramesPath: "frames.bin.zst",
	}

	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		eventFile.Close()
		frameFile.Close()
		return nil, Manifest{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), manifestData, 0o644); err != nil {
		eventFile.Close()
		frameFile.Close()
		return nil, Manifest{}, err
	}

	writer := &Writer{
		dir:         dir,
		eventFile:   eventFile,
		eventStream: eventStream,
		frameFile:   frameFile,
		frameStream: frameStream,
	}
	return writer, manifest, nil
}

// Dir returns the session directory
func (w *Writer) Dir() string {
	return w.dir
}

// AppendFrame persists one sweep frame to both streams
func (w *Writer) AppendFrame(frame scene.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	event := Event{
		Tick:      frame.Tick,
		Angle:     frame.Angle,
		Samples:   len(frame.Result.Samples),
		Truncated: frame.Result.Truncated,
	}
	eventLine, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := w.eventStream.Write(append(eventLine, '\n')); err != nil {
		return err
	}

	blob, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(blob)))
	if _, err := w.frameStream.Write(length[:]); err != nil {
		return err
	}
	if _, err := w.frameStream.Write(blob); err != nil {
		return err
	}

	return nil
}

// Close flushes and closes both streams. Safe to call once.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var firstErr error
	if err := w.eventStream.Close(); err != nil {
		firstErr = err
	}
	if err := w.eventFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := w.frameStream.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := w.frameFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

package record

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/btbonval/raymarch/pkg/scene"
)

// maxFrameBlob bounds a single frame's encoded size when reading, so a
// corrupt length prefix cannot trigger a huge allocation.
const maxFrameBlob = 64 << 20

// OpenManifest reads the manifest of a recorded session directory.
func OpenManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return Manifest{}, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("corrupt manifest: %w", err)
	}
	if manifest.Version != manifestVersion {
		return Manifest{}, fmt.Errorf("unsupported manifest version %d", manifest.Version)
	}
	return manifest, nil
}

// ReadEvents decodes the session's event summary stream.
func ReadEvents(dir string) ([]Event, error) {
	manifest, err := OpenManifest(dir)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(dir, manifest.EventsPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(snappy.NewReader(file))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("corrupt event line: %w", err)
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}

// ReadFrames decodes the session's full frame stream.
func ReadFrames(dir string) ([]scene.Frame, error) {
	manifest, err := OpenManifest(dir)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(dir, manifest.FramesPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder, err := zstd.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	var frames []scene.Frame
	reader := bufio.NewReader(decoder)
	for {
		var length [4]byte
		if _, err := io.ReadFull(reader, length[:]); err != nil {
			if err == io.EOF {
				return frames, nil
			}
			return nil, fmt.Errorf("corrupt frame stream: %w", err)
		}

		size := binary.LittleEndian.Uint32(length[:])
		if size > maxFrameBlob {
			return nil, fmt.Errorf("frame blob of %d bytes exceeds limit", size)
		}

		blob := make([]byte, size)
		if _, err := io.ReadFull(reader, blob); err != nil {
			return nil, fmt.Errorf("truncated frame blob: %w", err)
		}

		var frame scene.Frame
		if err := json.Unmarshal(blob, &frame); err != nil {
			return nil, fmt.Errorf("corrupt frame blob: %w", err)
		}
		frames = append(frames, frame)
	}
}

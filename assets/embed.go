// Package assets holds the embedded sound effects and music and decodes them
// into PCM samples.
package assets

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/milk9111/gameaudio/voice"
)

//go:embed sfx/*.wav music/*.wav
var assetsFS embed.FS

// bytesPerFrame is the size of one decoded frame: 16-bit little endian stereo.
const bytesPerFrame = 4

var ErrBadSampleRate = errors.New("assets: sample rate must be positive")

// LoadFile reads an asset from the assets directory on disk, falling back to
// the embedded copy.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	if data, err := os.ReadFile(diskAssetPath(clean)); err == nil {
		return data, nil
	}
	return assetsFS.ReadFile(clean)
}

// LoadSample decodes an audio asset into PCM at sampleRate. The decoder is
// picked by extension; files with an unknown extension are taken as PCM
// already in the output format.
func LoadSample(sampleRate int, path string) (*voice.Sample, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSampleRate, sampleRate)
	}
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	clean := cleanAssetPath(path)
	pcm, err := decode(sampleRate, strings.ToLower(filepath.Ext(clean)), b)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return &voice.Sample{
		Name:     clean,
		PCM:      pcm,
		Duration: pcmDuration(sampleRate, len(pcm)),
	}, nil
}

func decode(sampleRate int, ext string, b []byte) ([]byte, error) {
	reader := bytes.NewReader(b)
	var stream io.Reader
	switch ext {
	case ".wav":
		s, err := wav.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, err
		}
		stream = s
	case ".ogg":
		s, err := vorbis.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, err
		}
		stream = s
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, err
		}
		stream = s
	default:
		return b, nil
	}
	return io.ReadAll(stream)
}

func pcmDuration(sampleRate, n int) time.Duration {
	frames := n / bytesPerFrame
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}

func diskAssetPath(clean string) string {
	return filepath.Join("assets", filepath.FromSlash(clean))
}

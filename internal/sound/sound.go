//go:build !ci

// Package sound plays short audio cues in the terminal client.
package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const sampleRate = beep.SampleRate(44100)

// Player holds decoded cues keyed by file base name.
type Player struct {
	dir     string
	mu      sync.RWMutex
	buffers map[Cue]*beep.Buffer
	enabled bool
}

// NewPlayer returns a silent player that loads cues from dir on Init.
func NewPlayer(dir string) *Player {
	return &Player{dir: dir, buffers: make(map[Cue]*beep.Buffer)}
}

// Init opens the speaker and decodes every mp3 and wav in the cue directory.
// A missing directory leaves the player silent.
func (p *Player) Init() error {
	files, err := os.ReadDir(p.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", p.dir, err)
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if ext != ".mp3" && ext != ".wav" {
			continue
		}
		buf, err := decode(filepath.Join(p.dir, f.Name()), ext)
		if err != nil {
			continue
		}
		p.mu.Lock()
		p.buffers[Cue(strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())))] = buf
		p.mu.Unlock()
	}

	p.mu.Lock()
	p.enabled = true
	p.mu.Unlock()
	return nil
}

func decode(path, ext string) (*beep.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	if ext == ".mp3" {
		stream, format, err = mp3.Decode(f)
	} else {
		stream, format, err = wav.Decode(f)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = stream.Close() }()

	var s beep.Streamer = stream
	if format.SampleRate != sampleRate {
		s = beep.Resample(4, format.SampleRate, sampleRate, stream)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 4})
	buf.Append(s)
	return buf, nil
}

// Play starts cue without waiting. Unknown cues are ignored.
func (p *Player) Play(cue Cue) {
	p.mu.RLock()
	buf, ok := p.buffers[cue]
	enabled := p.enabled
	p.mu.RUnlock()
	if !enabled || !ok {
		return
	}
	speaker.Play(buf.Streamer(0, buf.Len()))
}

// Close silences the player.
func (p *Player) Close() {
	p.mu.Lock()
	p.enabled = false
	p.mu.Unlock()
}

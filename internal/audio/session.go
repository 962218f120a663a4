package audio

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is the capture session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

const (
	// chunkPeriod is the nominal duration of one delivered chunk. The
	// duration estimate is derived from it, not from wall-clock time.
	chunkPeriod = 100 * time.Millisecond

	// joinTimeout bounds how long Stop waits for the capture loop. On
	// timeout the loop is detached and the session is forced idle; the
	// leaked stream is logged rather than blocked on.
	joinTimeout = 2 * time.Second
)

// Session records audio from a single input source. The capture loop
// runs on its own goroutine and appends chunks in arrival order; Stop
// drains them into one Recording and hands it to the Writer. At most
// one capture runs per session at a time.
type Session struct {
	newSource func() Source
	writer    Writer
	dir       string
	log       zerolog.Logger

	mu      sync.Mutex
	cfg     Config
	state   State
	chunks  [][]int16
	stop    chan struct{}
	done    chan struct{}
	started time.Time
	runID   string
	failErr error
}

// NewSession creates an idle session that writes completed recordings
// beneath dir. Every Start obtains a fresh Source from newSource, so a
// capture loop owns its stream outright and a loop that outlives its
// run (detached on join timeout) can never touch a later run's stream.
func NewSession(cfg Config, newSource func() Source, writer Writer, dir string, log zerolog.Logger) *Session {
	return &Session{
		newSource: newSource,
		writer:    writer,
		dir:       dir,
		cfg:       cfg,
		log:       log,
	}
}

// Start opens the input stream and begins capturing. It fails with
// ErrAlreadyRecording if a capture is in progress; the running capture
// is not disturbed.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return ErrAlreadyRecording
	}

	// Residual chunks from a previous run are dropped.
	s.chunks = nil
	s.failErr = nil

	src := s.newSource()
	if err := src.Open(s.cfg); err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.started = time.Now()
	s.runID = uuid.NewString()
	s.state = StateRecording

	go s.captureLoop(src, s.stop, s.done, s.runID)

	s.log.Info().
		Str("session", s.runID).
		Int("sample_rate", s.cfg.SampleRate).
		Int("channels", s.cfg.Channels).
		Int("device", s.cfg.DeviceID).
		Msg("Recording started")

	return nil
}

// captureLoop polls src until stopped. A read error marks the session
// failed and halts capture; the error is held for Err. Every mutation
// is guarded on runID: a loop detached by a Stop timeout may wake up
// during a later run and must not corrupt it.
func (s *Session) captureLoop(src Source, stop, done chan struct{}, runID string) {
	defer close(done)
	defer src.Close()

	for {
		select {
		case <-stop:
			return
		default:
		}

		chunk, err := src.ReadChunk()
		if err != nil {
			s.mu.Lock()
			if s.runID == runID && s.state == StateRecording {
				s.state = StateFailed
				s.failErr = err
				s.mu.Unlock()
				s.log.Error().Err(err).Str("session", runID).Msg("Input stream failed")
				return
			}
			s.mu.Unlock()
			s.log.Debug().Err(err).Str("session", runID).Msg("Detached capture loop exited")
			return
		}
		if len(chunk) == 0 {
			continue
		}

		s.mu.Lock()
		if s.runID == runID && s.state == StateRecording {
			s.chunks = append(s.chunks, chunk)
		}
		s.mu.Unlock()
	}
}

// Stop ends the capture, concatenates the buffered chunks and writes
// them as <name>.wav (or meeting_<timestamp>.wav when name is empty)
// beneath the session directory. It returns the written path. The
// session always resolves to idle, even when the capture loop does not
// exit within the join bound or when nothing was captured.
func (s *Session) Stop(name string) (string, error) {
	s.mu.Lock()
	if s.state == StateIdle || s.stop == nil {
		s.mu.Unlock()
		return "", ErrNotRecording
	}
	stop, done := s.stop, s.done
	s.stop = nil
	runID := s.runID
	s.mu.Unlock()

	close(stop)

	select {
	case <-done:
	case <-time.After(joinTimeout):
		// Detach-and-log: the stream handle stays with the stuck
		// goroutine, the session must not wedge behind it.
		s.log.Warn().Str("session", runID).Msg("Capture loop did not exit in time, detaching")
	}

	s.mu.Lock()
	s.state = StateIdle
	chunks := s.chunks
	s.chunks = nil
	cfg := s.cfg
	started := s.started
	s.mu.Unlock()

	if len(chunks) == 0 {
		s.log.Warn().Str("session", runID).Msg("No audio captured")
		return "", ErrEmptyCapture
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	samples := make([]int16, 0, total)
	for _, c := range chunks {
		samples = append(samples, c...)
	}

	rec := Recording{
		Samples:    samples,
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
	}

	if name == "" {
		name = "meeting_" + started.Format("20060102_150405")
	}
	path := filepath.Join(s.dir, name+".wav")

	if err := s.writer.Write(path, rec); err != nil {
		return "", fmt.Errorf("write recording: %w", err)
	}

	s.log.Info().
		Str("session", runID).
		Str("path", path).
		Dur("duration", rec.Duration()).
		Msg("Recording saved")

	return path, nil
}

// SetDevice selects the input device for subsequent captures. Changing
// the device mid-recording is rejected.
func (s *Session) SetDevice(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return ErrAlreadyRecording
	}
	s.cfg.DeviceID = id
	return nil
}

// EstimatedDuration approximates the elapsed capture time from the
// number of queued chunks. It is a UI-grade estimate only.
func (s *Session) EstimatedDuration() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return 0, ErrNotRecording
	}
	return time.Duration(len(s.chunks)) * chunkPeriod, nil
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsRecording reports whether a capture loop is running.
func (s *Session) IsRecording() bool {
	return s.State() == StateRecording
}

// Err returns the stream error that moved the session to the failed
// state, if any. It is cleared by the next Start.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failErr
}

// Config returns the configuration for the current or next capture.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

package narrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// Engines the CommandSpeaker knows how to drive, in detection order.
var knownEngines = []string{"espeak-ng", "espeak", "say"}

const (
	baseWordsPerMinute = 175
	baseEspeakPitch    = 50
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// DetectEngine returns the first installed speech command.
func DetectEngine() (string, bool) {
	for _, name := range knownEngines {
		if _, err := lookPath(name); err == nil {
			return name, true
		}
	}
	return "", false
}

// CommandSpeaker speaks through a text-to-speech command line tool. Each
// utterance is one process; completion is the process exiting.
type CommandSpeaker struct {
	engine string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewCommandSpeaker creates a speaker for engine, one of "espeak-ng",
// "espeak" or "say".
func NewCommandSpeaker(engine string) *CommandSpeaker {
	return &CommandSpeaker{engine: engine}
}

// Prepare checks that the engine binary is installed.
func (s *CommandSpeaker) Prepare(context.Context) error {
	if _, err := lookPath(s.engine); err != nil {
		return fmt.Errorf("%s: %w", s.engine, err)
	}
	return nil
}

func (s *CommandSpeaker) Speak(ctx context.Context, u Utterance) (<-chan error, error) {
	path, err := lookPath(s.engine)
	if err != nil {
		return nil, err
	}

	cmd := engineCommand(ctx, path, s.engine, u)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", s.engine, err)
	}

	s.mu.Lock()
	s.cmd = cmd
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		s.mu.Lock()
		if s.cmd == cmd {
			s.cmd = nil
		}
		s.mu.Unlock()
		done <- err
		close(done)
	}()
	return done, nil
}

// Stop kills the utterance in progress, if any.
func (s *CommandSpeaker) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	err := s.cmd.Process.Kill()
	s.cmd = nil
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// engineCommand builds the process for one utterance. The text goes on
// stdin so that text starting with "-" is never read as a flag.
func engineCommand(ctx context.Context, path, engine string, u Utterance) *exec.Cmd {
	cmd := exec.CommandContext(ctx, path, engineArgs(engine, u.Voice)...)
	cmd.Stdin = strings.NewReader(u.Text)
	return cmd
}

func engineArgs(engine string, v Voice) []string {
	rate := v.Rate
	if rate <= 0 {
		rate = 1
	}
	pitch := v.Pitch
	if pitch <= 0 {
		pitch = 1
	}
	wpm := strconv.Itoa(int(math.Round(rate * baseWordsPerMinute)))

	switch engine {
	case "say":
		// say has no pitch control.
		return []string{"-r", wpm, "-f", "-"}
	default:
		p := int(math.Round(pitch * baseEspeakPitch))
		p = min(max(p, 0), 99)
		return []string{"-s", wpm, "-p", strconv.Itoa(p), "--stdin"}
	}
}

package text_to_speech

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const defaultCommand = "espeak-ng"

// synthesizeFunc writes text as a WAV file at path.
type synthesizeFunc func(path, text string) error

type ttsImpl struct {
	fileSys    afero.Fs
	player     Player
	synthesize synthesizeFunc
}

type Config struct {
	// Command is an espeak compatible binary. It must accept -w <file>.
	Command string
	Voice   string
	Rate    int

	// FileSys holds the temporary WAV files. The synthesizer writes to real
	// paths, so this is an OS backed filesystem outside of tests.
	FileSys afero.Fs
	Player  Player
}

// New looks up the speech command on PATH. A missing command is an error so
// that the caller can run without speech output.
func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Player == nil {
		return nil, fmt.Errorf("player is nil")
	}

	command := cfg.Command
	if command == "" {
		command = defaultCommand
	}

	resolved, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("speech command %q: %w", command, err)
	}

	fileSys := cfg.FileSys
	if fileSys == nil {
		fileSys = afero.NewOsFs()
	}

	return &ttsImpl{
		fileSys:    fileSys,
		player:     cfg.Player,
		synthesize: espeak(resolved, cfg.Voice, cfg.Rate),
	}, nil
}

func espeak(command, voice string, rate int) synthesizeFunc {
	return func(path, text string) error {
		args := []string{"-w", path}

		if voice != "" {
			args = append(args, "-v", voice)
		}

		if rate > 0 {
			args = append(args, "-s", strconv.Itoa(rate))
		}

		// "--" so that text starting with a dash is not read as a flag
		args = append(args, "--", text)

		var stderr bytes.Buffer

		cmd := exec.Command(command, args...)
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}

		return nil
	}
}

func (t *ttsImpl) Speak(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	file, err := afero.TempFile(t.fileSys, "", "jarvis-tts-*.wav")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	name := file.Name()
	file.Close()

	defer t.fileSys.Remove(name)

	err = t.synthesize(name, text)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	buf, err := t.decode(name)
	if err != nil {
		return err
	}

	err = t.player.Play(buf)
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	return nil
}

func (t *ttsImpl) decode(name string) (*audio.IntBuffer, error) {
	file, err := t.fileSys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open synthesized audio: %w", err)
	}

	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("synthesized audio is not a valid wav file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode synthesized audio: %w", err)
	}

	return buf, nil
}

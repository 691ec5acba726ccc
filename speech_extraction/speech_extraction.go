package speech_extraction

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/spf13/afero"
	"github.com/zenwerk/go-wave"

	"jarvis-assistant/logging"
)

type archiveImpl struct {
	fileSys afero.Fs
	dir     string
	now     func() time.Time
}

type Config struct {
	FileSys afero.Fs
	Dir     string
	Now     func() time.Time
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if cfg.Dir == "" {
		return nil, fmt.Errorf("dir is empty")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	err := cfg.FileSys.MkdirAll(cfg.Dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	return &archiveImpl{
		fileSys: cfg.FileSys,
		dir:     cfg.Dir,
		now:     now,
	}, nil
}

func (a *archiveImpl) Save(buf *audio.IntBuffer) (string, error) {
	if buf == nil || buf.Format == nil {
		return "", fmt.Errorf("buffer has no format")
	}

	waveFilename := filepath.Join(a.dir, "utterance-"+a.now().Format("20060102-150405.000")+".wav")

	waveFile, err := a.fileSys.Create(waveFilename)
	if err != nil {
		return "", err
	}

	param := wave.WriterParam{
		Out:           waveFile,
		Channel:       buf.Format.NumChannels,
		SampleRate:    buf.Format.SampleRate,
		BitsPerSample: 16,
	}

	waveWriter, err := wave.NewWriter(param)
	if err != nil {
		waveFile.Close()
		a.discard(waveFilename)

		return "", err
	}

	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = int16(s)
	}

	_, err = waveWriter.WriteSample16(samples)
	if err != nil {
		waveWriter.Close()
		a.discard(waveFilename)

		return "", err
	}

	err = waveWriter.Close()
	if err != nil {
		a.discard(waveFilename)

		return "", err
	}

	return waveFilename, nil
}

// discard removes a partially written file so the archive only holds
// complete recordings.
func (a *archiveImpl) discard(name string) {
	err := a.fileSys.Remove(name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.L().Warn("error removing partial utterance", "file", name, "err", err)
	}
}

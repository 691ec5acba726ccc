// Package launcher starts desktop programs without waiting for them.
package launcher

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

type Interface interface {
	// OpenApplication starts the configured application.
	OpenApplication() error

	// OpenURL opens url in the default browser.
	OpenURL(url string) error
}

type startFunc func(name string, args ...string) error

type launcherImpl struct {
	application []string
	goos        string
	start       startFunc
}

type Config struct {
	// Application is the command line of the program opened by
	// OpenApplication. Empty means the platform text editor.
	Application []string

	// GOOS overrides runtime.GOOS.
	GOOS string
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	goos := cfg.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	application := cfg.Application
	if len(application) == 0 {
		application = DefaultApplication(goos)
	}

	return &launcherImpl{
		application: application,
		goos:        goos,
		start:       startDetached,
	}, nil
}

// DefaultApplication is the text editor opened for "open notepad".
func DefaultApplication(goos string) []string {
	switch goos {
	case "windows":
		return []string{"notepad.exe"}
	case "darwin":
		return []string{"open", "-a", "TextEdit"}
	default:
		return []string{"gedit"}
	}
}

func (l *launcherImpl) OpenApplication() error {
	return l.start(l.application[0], l.application[1:]...)
}

func (l *launcherImpl) OpenURL(url string) error {
	if url == "" {
		return errors.New("launcher: empty url")
	}

	switch l.goos {
	case "windows":
		return l.start("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return l.start("open", url)
	default:
		return l.start("xdg-open", url)
	}
}

// startDetached starts the process and reaps it in the background.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launcher: start %s: %w", name, err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

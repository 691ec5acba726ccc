package launcher

import (
	"reflect"
	"testing"
)

type recorder struct {
	calls [][]string
}

func (r *recorder) start(name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))

	return nil
}

func newTestLauncher(t *testing.T, cfg *Config) (*launcherImpl, *recorder) {
	t.Helper()

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("error with New: %v", err)
	}

	rec := &recorder{}
	impl := l.(*launcherImpl)
	impl.start = rec.start

	return impl, rec
}

func TestNew(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Errorf("expected an error for nil config")
	}
}

func TestOpenApplication(t *testing.T) {
	tests := []struct {
		goos     string
		app      []string
		expected []string
	}{
		{"windows", nil, []string{"notepad.exe"}},
		{"darwin", nil, []string{"open", "-a", "TextEdit"}},
		{"linux", nil, []string{"gedit"}},
		{"linux", []string{"code", "--new-window"}, []string{"code", "--new-window"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			l, rec := newTestLauncher(t, &Config{GOOS: tt.goos, Application: tt.app})

			if err := l.OpenApplication(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(rec.calls) != 1 || !reflect.DeepEqual(rec.calls[0], tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, rec.calls)
			}
		})
	}
}

func TestOpenURL(t *testing.T) {
	const url = "https://www.google.com/search?q=go"

	tests := []struct {
		goos     string
		expected []string
	}{
		{"windows", []string{"rundll32", "url.dll,FileProtocolHandler", url}},
		{"darwin", []string{"open", url}},
		{"linux", []string{"xdg-open", url}},
		{"freebsd", []string{"xdg-open", url}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			l, rec := newTestLauncher(t, &Config{GOOS: tt.goos})

			if err := l.OpenURL(url); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(rec.calls) != 1 || !reflect.DeepEqual(rec.calls[0], tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, rec.calls)
			}
		})
	}

	t.Run("empty url is rejected", func(t *testing.T) {
		l, rec := newTestLauncher(t, &Config{GOOS: "linux"})

		if err := l.OpenURL(""); err == nil {
			t.Errorf("expected an error for an empty url")
		}

		if len(rec.calls) != 0 {
			t.Errorf("expected nothing to be started")
		}
	})
}

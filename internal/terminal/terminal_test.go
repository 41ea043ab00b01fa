package terminal

import (
	"testing"
)

func TestDetect_NoColorFlag(t *testing.T) {
	info := Detect(true)
	if info.ColorEnabled {
		t.Error("expected ColorEnabled=false when noColor=true")
	}
}

func TestDetect_NonTTY(t *testing.T) {
	info := Detect(false)
	if info.IsTerminal {
		t.Skip("test stdout appears to be a TTY, skipping non-TTY test")
	}
	if info.ColorEnabled {
		t.Error("expected ColorEnabled=false when not a TTY")
	}
}

func TestDetect_NOCOLOREnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	info := Detect(false)
	if info.ColorEnabled {
		t.Error("expected ColorEnabled=false when NO_COLOR env is set")
	}
}

func TestDetect_NoProgressInCI(t *testing.T) {
	t.Setenv("CI", "true")

	info := Detect(false)
	if info.ProgressEnabled {
		t.Error("expected ProgressEnabled=false in CI")
	}
}

func TestIsDumb(t *testing.T) {
	t.Setenv("TERM", "dumb")
	if !IsDumb() {
		t.Error("expected IsDumb()=true when TERM=dumb")
	}

	t.Setenv("TERM", "xterm-256color")
	if IsDumb() {
		t.Error("expected IsDumb()=false when TERM=xterm-256color")
	}
}

func TestIsCI(t *testing.T) {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "JENKINS_URL", "GITLAB_CI", "CIRCLECI", "TRAVIS"} {
		t.Setenv(v, "")
	}
	if IsCI() {
		t.Error("expected IsCI()=false when no CI env vars are set")
	}

	t.Setenv("GITLAB_CI", "true")
	if !IsCI() {
		t.Error("expected IsCI()=true when GITLAB_CI=true")
	}
}

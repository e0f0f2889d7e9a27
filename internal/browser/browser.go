// Package browser opens pages of the running service on the operator's desktop.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Starter launches a process without waiting for it
type Starter func(name string, args ...string) error

// Launcher opens URLs with the platform's default handler
type Launcher struct {
	GOOS  string
	Start Starter
}

// Default launches real processes on the current platform
var Default = Launcher{GOOS: runtime.GOOS, Start: startProcess}

func startProcess(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens url with the default launcher
func Open(url string) error {
	return Default.Open(url)
}

// Open opens url in the desktop browser
func (l Launcher) Open(url string) error {
	name, args, err := command(l.GOOS, url)
	if err != nil {
		return err
	}
	if err := l.Start(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

func command(goos, url string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	}
	return "", nil, fmt.Errorf("unsupported platform: %s", goos)
}

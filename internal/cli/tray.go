package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ollamatray-io/ollamatray/internal/config"
)

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Launch the system tray controller",
	Long:  `Launch ollamatrayd in the background if it isn't already running.`,
	RunE:  runTray,
}

func runTray(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check tray status: %w", err)
	}
	if running {
		fmt.Println(styleHint.Render(fmt.Sprintf("Tray already running (PID %d)", info.PID)))
		return nil
	}

	// Clean up stale daemon info if it exists
	if info != nil {
		_ = config.RemoveDaemonInfo()
	}

	if err := startTrayDaemon(); err != nil {
		return err
	}

	fmt.Println(styleBrand.Render("Tray started"))
	return nil
}

// startTrayDaemon starts ollamatrayd in the background and waits for it to
// come up.
func startTrayDaemon() error {
	daemonPath, err := findTrayBinary()
	if err != nil {
		return err
	}

	daemon := exec.Command(daemonPath)
	daemon.Stdout = nil
	daemon.Stderr = nil
	daemon.Stdin = nil

	if err := daemon.Start(); err != nil {
		return fmt.Errorf("failed to start ollamatrayd: %w", err)
	}

	// Wait for the daemon to be ready (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, _, err := config.IsDaemonRunning()
		if err == nil && running {
			return nil
		}
	}

	return fmt.Errorf("ollamatrayd failed to start within timeout")
}

// findTrayBinary locates the ollamatrayd binary.
func findTrayBinary() (string, error) {
	// Try PATH first
	path, err := exec.LookPath("ollamatrayd")
	if err == nil {
		return path, nil
	}

	// Try the directory of the current executable
	execPath, err := os.Executable()
	if err == nil {
		daemonPath := filepath.Join(filepath.Dir(execPath), "ollamatrayd")
		if _, err := os.Stat(daemonPath); err == nil {
			return daemonPath, nil
		}
	}

	// Try build directory
	if _, err := os.Stat("./build/ollamatrayd"); err == nil {
		return "./build/ollamatrayd", nil
	}

	return "", fmt.Errorf("ollamatrayd not found. Install or build it first")
}

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ollamatray-io/ollamatray/internal/service"
)

var (
	startYes bool
	stopYes  bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Ollama service",
	Long:  `Start the Ollama service through polkit. This prompts for elevated privileges.`,
	RunE:  runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the Ollama service",
	Long:  `Stop the Ollama service through polkit. This prompts for elevated privileges.`,
	RunE:  runStop,
}

func init() {
	startCmd.Flags().BoolVarP(&startYes, "yes", "y", false, "Skip the confirmation prompt")
	stopCmd.Flags().BoolVarP(&stopYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runStart(cmd *cobra.Command, args []string) error {
	return runToggle(cmd, "start", startYes)
}

func runStop(cmd *cobra.Command, args []string) error {
	return runToggle(cmd, "stop", stopYes)
}

// runToggle polls the current state, confirms, and applies the action.
func runToggle(cmd *cobra.Command, action string, skipConfirm bool) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	st := e.poller.Poll(cmd.Context())
	if st.State == service.StateUnknown {
		return fmt.Errorf("cannot determine service state: %s", st.Err)
	}

	if action == "start" && st.Running() {
		fmt.Println(styleHint.Render("Ollama is already running"))
		return nil
	}
	if action == "stop" && !st.Running() {
		fmt.Println(styleHint.Render("Ollama is already stopped"))
		return nil
	}

	if !skipConfirm && !confirmInTerminal(action) {
		fmt.Println(styleHint.Render("Aborted"))
		return nil
	}

	// forceStop pins the action to "stop" regardless of observed state;
	// a plain toggle from the polled state yields "start".
	outcome := e.toggler.Toggle(cmd.Context(), st.State, action == "stop")
	if !outcome.Applied() {
		return fmt.Errorf("failed to %s Ollama: %s", outcome.Action, outcome.Diagnostic)
	}

	// Give the service manager a moment to settle before re-checking
	time.Sleep(time.Second)
	st = e.poller.Poll(cmd.Context())
	fmt.Printf("%s %s\n", styleLabel.Render("Status:"), renderState(st))
	return nil
}

// confirmInTerminal asks a yes/no question on stdin. Default is No.
func confirmInTerminal(action string) bool {
	fmt.Printf("Do you want to %s Ollama? This requires sudo privileges. [y/N] ", action)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ollamatray-io/ollamatray/internal/ollama"
	"github.com/ollamatray-io/ollamatray/internal/service"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the Ollama service status",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	st := e.poller.Poll(cmd.Context())
	fmt.Printf("%s %s\n", styleLabel.Render("Service:"), styleValue.Render(e.settings.Unit))
	fmt.Printf("%s %s\n", styleLabel.Render("Status: "), renderState(st))

	if !st.Running() {
		return nil
	}

	mdls, err := e.lister.List(cmd.Context())
	switch {
	case errors.Is(err, ollama.ErrNoModels):
		fmt.Println(styleHint.Render("No models found"))
	case err != nil:
		fmt.Println(styleWarning.Render("Error getting models: " + err.Error()))
	default:
		fmt.Printf("%s %d\n", styleLabel.Render("Models: "), len(mdls))
	}

	return nil
}

// renderState formats a poll result for terminal output.
func renderState(st service.Status) string {
	switch st.State {
	case service.StateRunning:
		return styleRunning.Render("● Running")
	case service.StateStopped:
		return styleStopped.Render("● Stopped")
	default:
		return styleWarning.Render("● Error - " + st.Err)
	}
}

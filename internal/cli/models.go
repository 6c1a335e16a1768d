package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ollamatray-io/ollamatray/internal/ollama"
	"github.com/ollamatray-io/ollamatray/internal/tui"
)

var modelsInteractive bool

var modelsCmd = &cobra.Command{
	Use:     "models",
	Aliases: []string{"ls"},
	Short:   "List installed Ollama models",
	RunE:    runModels,
}

func init() {
	modelsCmd.Flags().BoolVarP(&modelsInteractive, "interactive", "i", false, "Browse models in an interactive list")
}

func runModels(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	mdls, err := e.lister.List(cmd.Context())
	if errors.Is(err, ollama.ErrNoModels) {
		fmt.Println(styleHint.Render("No models found"))
		return nil
	}
	if err != nil {
		return err
	}

	if modelsInteractive {
		return tui.Run(mdls)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, styleLabel.Render("NAME")+"\t"+styleLabel.Render("SIZE"))
	for _, m := range mdls {
		fmt.Fprintf(w, "%s\t%s\n", m.Name, m.Size)
	}
	return w.Flush()
}

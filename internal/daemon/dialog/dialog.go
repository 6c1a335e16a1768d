// Package dialog shows native modal dialogs and desktop notifications for
// the tray daemon.
package dialog

import (
	"fmt"
	"log"

	"github.com/gen2brain/beeep"
	"github.com/ncruces/zenity"
)

// appTitle is used for dialog window titles and notifications.
const appTitle = "Ollama Tray Controller"

// ConfirmToggle asks the user to confirm a start/stop action. The default
// answer is No; any dialog error counts as a decline so a broken dialog
// helper can never trigger a privileged command.
func ConfirmToggle(action string) bool {
	err := zenity.Question(
		fmt.Sprintf("Do you want to %s Ollama? This requires sudo privileges.", action),
		zenity.Title("Confirmation"),
		zenity.QuestionIcon,
		zenity.DefaultCancel(),
	)
	if err != nil && err != zenity.ErrCanceled {
		log.Printf("[dialog] confirmation dialog failed: %v", err)
	}
	return err == nil
}

// ToggleError shows a blocking modal alert with the toggle diagnostic.
func ToggleError(diagnostic string) {
	err := zenity.Error(
		fmt.Sprintf("Error executing command: %s", diagnostic),
		zenity.Title("Error"),
		zenity.ErrorIcon,
	)
	if err != nil {
		log.Printf("[dialog] error dialog failed: %v", err)
	}
}

// Notify shows a transient desktop notification. Failures are logged and
// swallowed; notifications are best-effort.
func Notify(message string) {
	if err := beeep.Notify(appTitle, message, ""); err != nil {
		log.Printf("[dialog] notification failed: %v", err)
	}
}

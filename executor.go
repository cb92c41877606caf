package toolup

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true)
	styleOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	styleSkip  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	styleFail  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

// RunSteps executes steps sequentially, printing one status line per step
// and mirroring progress into log. Returns the first error encountered, or
// nil if all steps succeeded. A nil log disables logging.
//
// Example:
//
//	steps := []toolup.Step{
//	    toolup.StepEnsureDir(targetDir),
//	}
//	if err := toolup.RunSteps("Installing...", steps, log); err != nil {
//	    return err
//	}
func RunSteps(title string, steps []Step, log *Logger) error {
	fmt.Println(styleTitle.Render(title))
	log.Step("%s", title)

	for _, step := range steps {
		log.Step("Starting: %s", step.Name)

		result := step.Action()

		switch {
		case result.Err != nil:
			fmt.Printf("  %s %s: %v\n", styleFail.Render("[!!]"), step.Name, result.Err)
			log.Error("Step '%s' failed: %v", step.Name, result.Err)
			return result.Err

		case result.Skip:
			fmt.Printf("  %s %s (%s)\n", styleSkip.Render("[--]"), step.Name, result.Info)
			log.Info("Step '%s' skipped: %s", step.Name, result.Info)

		default:
			if result.Info != "" {
				fmt.Printf("  %s %s: %s\n", styleOK.Render("[ok]"), step.Name, result.Info)
				log.Info("Step '%s' completed: %s", step.Name, result.Info)
			} else {
				fmt.Printf("  %s %s\n", styleOK.Render("[ok]"), step.Name)
				log.Info("Step '%s' completed", step.Name)
			}
		}
	}

	return nil
}

package diagnosis

import (
	"fmt"
	"strings"
	"time"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/analysis"
)

// Request is everything the prompt needs about one user's recent sleep.
type Request struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	Daily     []analysis.DailySleepData
}

const promptDateLayout = "2006-01-02"

// BuildPrompt renders the per-night breakdown into the instruction text sent
// to the model.
func BuildPrompt(req Request) string {
	var days strings.Builder
	for i, d := range req.Daily {
		if i > 0 {
			days.WriteString("\n")
		}
		fmt.Fprintf(&days, "Date: %s\n", d.Timestamp)
		fmt.Fprintf(&days, "- Total sleep time: %d min\n", d.TotalSleepTime)
		fmt.Fprintf(&days, "- Deep sleep time: %d min\n", d.DeepSleepTime)
		fmt.Fprintf(&days, "- Light sleep time: %d min\n", d.LightSleepTime)
		fmt.Fprintf(&days, "- REM sleep time: %d min\n", d.REMSleepTime)
		fmt.Fprintf(&days, "- Sleep efficiency: %d%%\n", d.SleepEfficiency)
		fmt.Fprintf(&days, "- Sleep score: %d/100\n", d.SleepScore)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Below is the user's sleep data from %s to %s.\n",
		req.StartDate.UTC().Format(promptDateLayout), req.EndDate.UTC().Format(promptDateLayout))
	b.WriteString("Analyze the data, diagnose the user's sleep and give advice for improving it.\n\n")
	b.WriteString("Sleep data:\n")
	b.WriteString(days.String())
	b.WriteString("\nAnswer in the following format:\n")
	b.WriteString("1. Sleep diagnosis (overall pattern and characteristics)\n")
	b.WriteString("2. Main problems (consistency, sleep duration, sleep quality)\n")
	b.WriteString("3. Concrete advice for improvement\n")
	b.WriteString("4. Recommended sleep duration and schedule\n")
	return b.String()
}

// Package notify delivers the break-reminder popup.
package notify

import (
	"fmt"
	"math/rand"
	"os/exec"
	"runtime"
	"strings"

	"github.com/Emil-Stampfly-He/rest-reminder/internal/ui"
)

const popupTitle = "REST REMINDEEEEEEEEEEEEEEEEER"

// Notifier is the reminder capability injected into the monitor.
// Notify is fire-and-forget: it returns immediately and the popup runs
// out-of-band, so callers must not assume it has been dismissed.
type Notifier interface {
	Notify(message string)
}

// Slogan picks one of the rotating reminder messages for the given
// number of continuously worked seconds.
func Slogan(seconds uint64) string {
	slogans := []string{
		fmt.Sprintf("%d seconds NON-STOOOOOOOOOOOOP! YOU MUST BE TIRED! STAND UP AND TAKE A BREAK!!!!!!!", seconds),
		fmt.Sprintf("%d seconds OF UNSTOPPABLE GRIND! YOUR LEGS ARE CRYING FOR A BREAK! STAND UP AND SHAKE IT OFF!!!", seconds),
		fmt.Sprintf("%d seconds STRAIGHT LIKE A NINJA! YOUR BACK IS REBELLING! POWER UP WITH A QUICK STAND-UP BREAK!!!", seconds),
		fmt.Sprintf("%d seconds WITHOUT PAUSE! ALERT: MUSCLES ON STRIKE! RISE AND RELEASE WITH A STRETCH!!!", seconds),
		fmt.Sprintf("%d seconds NONSTOP MODE ENGAGED! WARNING: BRAIN FOG IMMINENT! HIT THE PAUSE AND STAND TALL!!!", seconds),
		fmt.Sprintf("%d seconds AND COUNTING! MISSION: TAKE A BREAK! DEPLOY YOUR LEGS FOR A STAND-UP MISSION!!!", seconds),
	}
	return slogans[rand.Intn(len(slogans))]
}

// Popup shows a desktop dialog where the platform has one and falls back
// to a loud console banner everywhere else.
type Popup struct{}

// NewPopup returns the platform popup notifier.
func NewPopup() *Popup {
	return &Popup{}
}

// Notify shows the reminder without blocking the caller.
func (p *Popup) Notify(message string) {
	go p.show(message)
}

func (p *Popup) show(message string) {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display dialog %q with title %q buttons {"OK"} default button "OK"`,
			message, popupTitle)
		if exec.Command("osascript", "-e", script).Run() == nil {
			return
		}
	case "linux":
		if exec.Command("zenity", "--warning", "--title", popupTitle, "--text", message).Run() == nil {
			return
		}
		if exec.Command("notify-send", "-u", "critical", popupTitle, message).Run() == nil {
			return
		}
	}
	ui.Alertf("ALERT: %s", message)
	ui.Warnf("%s", strings.TrimSpace(popupTitle))
}

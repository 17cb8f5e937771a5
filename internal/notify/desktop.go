package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Sender delivers a reminder.
type Sender interface {
	Send(m Message) error
}

// Desktop shows reminders with the platform's notification tool.
type Desktop struct{}

// Send attempts to show m as a desktop notification.
func (Desktop) Send(m Message) error {
	switch runtime.GOOS {
	case "linux":
		return sendLinux(m)
	case "darwin":
		return sendMacOS(m)
	case "windows":
		return sendWindows(m)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func sendLinux(m Message) error {
	// Try different notification tools in order of preference
	tools := [][]string{
		{"notify-send", "--app-name=attendly", m.Title, m.Body},
		{"kdialog", "--passivepopup", m.Title + "\n" + m.Body, "10"},
		{"zenity", "--notification", "--text=" + m.Title + "\n" + m.Body},
	}

	for _, tool := range tools {
		if isCommandAvailable(tool[0]) {
			if err := exec.Command(tool[0], tool[1:]...).Run(); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("no suitable notification tool found (tried: notify-send, kdialog, zenity)")
}

func sendMacOS(m Message) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`, appleScriptString(m.Body), appleScriptString(m.Title))
	return exec.Command("osascript", "-e", script).Run()
}

// appleScriptString escapes s for use inside an AppleScript string literal.
func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// hereString makes s safe inside a PowerShell @" "@ block: no early terminator at the
// start of a line and no variable or subexpression expansion.
func hereString(s string) string {
	s = strings.ReplaceAll(s, "`", "``")
	s = strings.ReplaceAll(s, "$", "`$")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, `"@`) {
			lines[i] = " " + line
		}
	}
	return strings.Join(lines, "\n")
}

func sendWindows(m Message) error {
	script := fmt.Sprintf(`Add-Type -AssemblyName System.Windows.Forms; $n = New-Object System.Windows.Forms.NotifyIcon; $n.Icon = [System.Drawing.SystemIcons]::Information; $n.Visible = $true; $n.ShowBalloonTip(10000, @"
%s
"@, @"
%s
"@, [System.Windows.Forms.ToolTipIcon]::Info)`, hereString(m.Title), hereString(m.Body))

	return exec.Command("powershell", "-Command", script).Run()
}

func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// SendAll delivers every message and returns the ids of events that went out.
func SendAll(s Sender, msgs []Message) ([]string, error) {
	var sent []string
	var firstErr error
	for _, m := range msgs {
		if err := s.Send(m); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to notify %s: %w", m.EventID, err)
			}
			continue
		}
		sent = append(sent, m.EventID)
	}
	return sent, firstErr
}

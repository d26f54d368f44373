package cli

import "fmt"

// terminalView renders controller output as plain lines on stdout.
type terminalView struct{}

func (terminalView) SetStatus(status string) {
	fmt.Println("status:", status)
}

func (terminalView) SetElapsed(label string) {
	fmt.Printf("\relapsed %s ", label)
}

func (terminalView) AppendTranscript(timestamp, text string) {
	fmt.Printf("\n[%s] %s\n", timestamp, text)
}

func (terminalView) ResetTranscript(placeholder string) {
	fmt.Println(placeholder)
}

func (terminalView) ShowAnalysisPrompt(message string) {
	fmt.Println(message)
}

func (terminalView) ResetAnalysis(placeholder string) {
	fmt.Println(placeholder)
}

func (terminalView) ShowError(message string) {
	fmt.Println("error:", message)
}

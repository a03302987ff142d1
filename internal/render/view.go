package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tnglemongrass/askai/internal/transcript"
)

var (
	senderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	aiSenderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	greetingStyle = lipgloss.NewStyle().Italic(true)
)

// View prints transcript changes as they happen. Text from the AI sender is
// rendered as markdown; everything else is printed verbatim.
type View struct {
	r        *Renderer
	w        io.Writer
	aiSender string
}

// NewView returns a View printing through r.
func NewView(r *Renderer, aiSender string) *View {
	return &View{r: r, w: r.Writer(), aiSender: aiSender}
}

// Show is a transcript.Listener. A replaced entry is printed again in full,
// since a terminal cannot rewrite lines that have already scrolled.
func (v *View) Show(ev transcript.Event) {
	switch ev.Kind {
	case transcript.Appended, transcript.Replaced:
		v.printEntry(ev.Entry)
	case transcript.Cleared:
		fmt.Fprintln(v.w)
	}
}

func (v *View) printEntry(e transcript.Entry) {
	if e.Sender != v.aiSender {
		fmt.Fprintf(v.w, "%s %s\n\n", senderStyle.Render(e.Sender+":"), e.Text)
		return
	}
	fmt.Fprintln(v.w, aiSenderStyle.Render(e.Sender+":"))
	if err := v.r.Render(e.Text); err != nil {
		fmt.Fprintln(v.w, e.Text)
	}
	fmt.Fprintln(v.w)
}

// Notice prints a transient message that is not part of the transcript.
func (v *View) Notice(msg string) {
	fmt.Fprintln(v.w, noticeStyle.Render("! "+msg))
}

// Greeting prints the banner shown above an empty transcript.
func (v *View) Greeting(text string) {
	fmt.Fprintf(v.w, "%s\n\n", greetingStyle.Render(text))
}

// Print writes plain command output.
func (v *View) Print(text string) {
	fmt.Fprintln(v.w, strings.TrimRight(text, "\n"))
}

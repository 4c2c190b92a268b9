package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/Sergey2677/nginx/internal/adapters/in/cli/ui/styles"
	"github.com/Sergey2677/nginx/internal/domain"
)

var cliWriteLine = func(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, msg)
	return err
}

func cliRenderTitle(msg string) string {
	return styles.Theme.Title.Render(msg)
}

func cliRenderMuted(msg string) string {
	return styles.Theme.Muted.Render(msg)
}

func cliRenderMeta(label, value string) string {
	return styles.Theme.Bold.Render(label) + " " + styles.Theme.Muted.Render(value)
}

// renderResult draws the summary box shown after a successful run.
func renderResult(r *domain.Result) string {
	lines := []string{
		styles.RenderSuccess("Installation has finished! Congratulations!"),
		"",
		cliRenderMeta("Domain:      ", r.PrimaryDomain),
		cliRenderMeta("Proxy config:", r.ProxyConfigPath),
		cliRenderMeta("App config:  ", r.AppConfigPath),
	}
	if c := r.Certificate; c != nil {
		lines = append(lines,
			cliRenderMeta("Certificate: ", strings.Join(c.DNSNames, ", ")),
			cliRenderMeta("Expires:     ", c.NotAfter.Format(time.DateOnly)),
		)
	}
	return styles.Theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func printResult(w io.Writer, r *domain.Result) error {
	if err := cliWriteLine(w, renderResult(r)); err != nil {
		return err
	}
	_, err := color.New(color.FgGreen, color.Bold).Fprintf(w, "You have successfully enabled https://%s\n", r.PrimaryDomain)
	return err
}

func printRendered(w io.Writer, root string, files []string) error {
	if err := cliWriteLine(w, cliRenderTitle("Rendered into "+root)); err != nil {
		return err
	}
	for _, f := range files {
		if err := cliWriteLine(w, "  "+styles.RenderInfo(f)); err != nil {
			return err
		}
	}
	return nil
}

// PrintError writes the final error line.
func PrintError(w io.Writer, err error) {
	_, _ = color.New(color.FgRed, color.Bold).Fprintf(w, "%s %v\n", styles.IconError, err)
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"course-catalog/internal/devutil"
	"course-catalog/internal/domain"
	catalogsync "course-catalog/internal/sync"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

// maxListedFailures caps the failed keys printed inside the box.
const maxListedFailures = 10

// FormatSummary renders the end-of-run box.
func FormatSummary(w io.Writer, s catalogsync.Summary) {
	lines := []string{
		titleStyle.Render("Catalog extraction"),
		fmt.Sprintf("%s %d  %s %d  %s %d  %s %d",
			dimStyle.Render("Documents:"), s.Documents,
			dimStyle.Render("Courses:"), s.Courses,
			dimStyle.Render("Modules:"), s.Modules,
			dimStyle.Render("Labs:"), s.Labs,
		),
	}
	if s.Dropped > 0 {
		lines = append(lines, fmt.Sprintf("%s %d", dimStyle.Render("Dropped paragraphs:"), s.Dropped))
	}
	if s.IgnoredTables > 0 {
		lines = append(lines, fmt.Sprintf("%s %d", dimStyle.Render("Ignored tables:"), s.IgnoredTables))
	}
	if s.Fallbacks > 0 {
		lines = append(lines, fmt.Sprintf("%s %d", dimStyle.Render("Sequential ordinals:"), s.Fallbacks))
	}

	if s.Persisted {
		status := okStyle.Render("OK")
		if s.FailedCount() > 0 {
			status = failStyle.Render("PARTIAL")
		}
		lines = append(lines,
			fmt.Sprintf("%s %s  %s %d", dimStyle.Render("Mode:"), string(s.Mode), dimStyle.Render("Replaced:"), s.Replaced),
			fmt.Sprintf("%s %d  %s %s  %s %s  %s",
				dimStyle.Render("Items:"), s.Attempted,
				dimStyle.Render("written"), okStyle.Render(fmt.Sprint(s.Succeeded)),
				dimStyle.Render("failed"), failStyle.Render(fmt.Sprint(s.FailedCount())),
				status,
			),
		)
		for i, k := range s.Failed {
			if i == maxListedFailures {
				lines = append(lines, dimStyle.Render(fmt.Sprintf("  … %d more", len(s.Failed)-maxListedFailures)))
				break
			}
			lines = append(lines, "  "+failStyle.Render(k))
		}
	} else {
		lines = append(lines, dimStyle.Render("Not persisted"))
	}

	if s.Elapsed > 0 {
		lines = append(lines, fmt.Sprintf("%s %.1fs", dimStyle.Render("Elapsed:"), s.Elapsed.Seconds()))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

var digestKeys = []string{"title", "level", "deliveryMethod", "duration"}

// FormatCourses prints one compact line per course.
func FormatCourses(w io.Writer, courses []domain.Course) {
	for _, c := range courses {
		fmt.Fprintf(w, "%s %s %s\n", strings.Join(devutil.Fields(c, digestKeys...), " "),
			dimStyle.Render(fmt.Sprintf("modules=%d", len(c.Modules))),
			dimStyle.Render(fmt.Sprintf("labs=%d topics=%d", len(c.Labs), c.TopicCount())),
		)
	}
}

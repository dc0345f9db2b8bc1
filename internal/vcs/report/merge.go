// Package report merges generated pipeline reports into pull request bodies.
//
// A PR body is split in two parts: a prefix written by people, kept verbatim,
// and a generated section that is replaced on every publish. The generated
// section starts one line above the first line containing Sentinel.
package report

import (
	"fmt"
	"strings"

	"github.com/macmacal/jaypore-ci/internal/models"
)

// Sentinel marks the generated section. Render always emits it.
const Sentinel = "<summary>JayporeCi"

// MergeBody keeps the human-written prefix of body and appends report after a
// single blank line.
func MergeBody(body, report string) string {
	prefix := Prefix(body)
	prefix = append(prefix, "")
	return strings.Join(prefix, "\n") + "\n" + report
}

// Prefix returns the human-written lines of body with trailing blank lines
// removed. Scanning stops at the first sentinel line; the line right above it
// opens the generated section and is dropped too.
func Prefix(body string) []string {
	var prefix []string
	for _, line := range strings.Split(body, "\n") {
		if strings.Contains(line, Sentinel) {
			if len(prefix) > 0 {
				prefix = prefix[:len(prefix)-1]
			}
			break
		}
		prefix = append(prefix, line)
	}

	for len(prefix) > 0 && strings.TrimSpace(prefix[len(prefix)-1]) == "" {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}

// Render wraps a plain report in a collapsible section headed by Sentinel so
// the next MergeBody can find and replace it.
func Render(status models.PublishStatus, text string) string {
	var sb strings.Builder
	sb.WriteString("<details>\n")
	sb.WriteString(fmt.Sprintf("%s: %s</summary>\n\n", Sentinel, status))
	sb.WriteString("```\n")
	sb.WriteString(strings.TrimRight(text, "\n"))
	sb.WriteString("\n```\n\n")
	sb.WriteString("</details>")
	return sb.String()
}

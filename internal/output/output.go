// Package output formats front-end responses as the YAML document described
// in spec §6, and ports the output-cleaning heuristics from
// clrun/utils/output.py and clrun/utils/validate.py: ANSI stripping,
// shell-prompt-line filtering, and quality warnings. These are explicitly
// out-of-core per spec §1 ("structured output formatting" is named as an
// external collaborator), but the front-end cannot produce a response
// without them, so they live in the tree.
package output

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ansiCSI     = regexp.MustCompile("\x1b\\[[\x20-\x3f]*[\x40-\x7e]")
	ansiOSC     = regexp.MustCompile("\x1b\\][^\x07\x1b]*(?:\x07|\x1b\\\\)")
	ansiSingle  = regexp.MustCompile("\x1b[^\\[\\]]")
	backspace   = regexp.MustCompile("[^\x08]\x08")
	bareBS      = regexp.MustCompile("\x08")
	controlRun  = regexp.MustCompile("[\x00-\x09\x0b-\x0c\x0e-\x1f]")
	promptTrail = regexp.MustCompile(`\s[%$#>]\s*$`)
	promptMid   = regexp.MustCompile(`\s[%$#>]\s+\S`)
	zshEmpty    = regexp.MustCompile(`^%\s*$`)
	zshPadded   = regexp.MustCompile(`^%\s{10,}`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
	bracketPaste = regexp.MustCompile(`\[\?2004[hl]`)
)

// StripANSI removes ANSI escape codes and common TTY control sequences,
// mirroring clrun/utils/output.py's strip_ansi byte-for-byte.
func StripANSI(text string) string {
	text = ansiCSI.ReplaceAllString(text, "")
	text = ansiOSC.ReplaceAllString(text, "")
	text = ansiSingle.ReplaceAllString(text, "")
	text = backspace.ReplaceAllString(text, "")
	text = bareBS.ReplaceAllString(text, "")
	text = dropLoneCR(text)
	text = controlRun.ReplaceAllString(text, "")
	return text
}

// dropLoneCR removes every "\r" not immediately followed by "\n" — Go's RE2
// engine can't express the Python source's negative-lookahead version of
// this rule directly, so it's done with a byte scan instead.
func dropLoneCR(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' && (i+1 >= len(s) || s[i+1] != '\n') {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isPromptLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	if zshEmpty.MatchString(trimmed) {
		return true
	}
	if zshPadded.MatchString(trimmed) {
		return true
	}
	if promptTrail.MatchString(trimmed) {
		return true
	}
	if promptMid.MatchString(trimmed) {
		return true
	}
	return false
}

// CleanOutput strips ANSI and removes prompt/echo noise from raw buffer
// lines, mirroring clrun/utils/output.py's clean_output. command, if
// non-empty, is also filtered out if a line matches it verbatim (the
// command's own echo in the PTY).
func CleanOutput(lines []string, command string) string {
	if len(lines) == 0 {
		return ""
	}
	var meaningful []string
	for _, raw := range lines {
		line := StripANSI(strings.TrimRight(raw, "\r"))
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isPromptLine(line) {
			continue
		}
		if command != "" && trimmed == strings.TrimSpace(command) {
			continue
		}
		meaningful = append(meaningful, line)
	}
	if len(meaningful) == 0 {
		return ""
	}
	result := strings.Join(meaningful, "\n")
	result = blankRuns.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// CheckOutputQuality strips any ANSI that slipped through and bracket-paste
// markers, returning cleaned output and a list of human-readable warnings
// (mirroring clrun/utils/validate.py's check_output_quality).
func CheckOutputQuality(out string) (string, []string) {
	if out == "" {
		return "", nil
	}
	var warnings []string
	if strings.Contains(out, "\x1b") {
		out = StripANSI(out)
		warnings = append(warnings, "Output contained ANSI escape codes that were stripped at runtime.")
	}
	if bracketPaste.MatchString(out) {
		out = bracketPaste.ReplaceAllString(out, "")
		warnings = append(warnings, "Output contained bracket paste mode sequences that were stripped.")
	}
	out = strings.TrimSpace(out)
	return out, warnings
}

// ToYAML renders data as the "---\n"-prefixed YAML document spec §6
// requires, omitting nil-valued keys.
func ToYAML(data map[string]interface{}) string {
	clean := make(map[string]interface{}, len(data))
	for k, v := range data {
		if v == nil {
			continue
		}
		clean[k] = v
	}
	out, err := yaml.Marshal(clean)
	if err != nil {
		return fmt.Sprintf("---\nerror: %q\n", err.Error())
	}
	return "---\n" + string(out)
}

// Success writes data as YAML to stdout and exits 0.
func Success(data map[string]interface{}) {
	fmt.Fprint(os.Stdout, ToYAML(data))
	os.Exit(0)
}

// Fail writes an error document to stdout and exits 1.
func Fail(data map[string]interface{}) {
	fmt.Fprint(os.Stdout, ToYAML(data))
	os.Exit(1)
}

// FailMessage is a convenience for a bare string error.
func FailMessage(msg string) {
	Fail(map[string]interface{}{"error": msg})
}

// SessionHints builds the standard set of next-step command hints for a
// terminal id, matching clrun/utils/output.py's session_hints.
func SessionHints(terminalID string) map[string]string {
	return map[string]string{
		"view_output":       fmt.Sprintf("clrun tail %s --lines 50", terminalID),
		"send_input":        fmt.Sprintf(`clrun input %s "<response>"`, terminalID),
		"send_with_priority": fmt.Sprintf(`clrun input %s "<response>" --priority 5`, terminalID),
		"override_queue":    fmt.Sprintf(`clrun input %s "<text>" --override`, terminalID),
		"kill_session":      fmt.Sprintf("clrun kill %s", terminalID),
		"check_status":      "clrun status",
	}
}

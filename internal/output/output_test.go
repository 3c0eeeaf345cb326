package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSIRemovesCSI(t *testing.T) {
	assert.Equal(t, "hello", StripANSI("\x1b[31mhello\x1b[0m"))
}

func TestStripANSIDropsLoneCR(t *testing.T) {
	assert.Equal(t, "ab", StripANSI("a\rb"))
	assert.Equal(t, "a\r\nb", StripANSI("a\r\nb"))
}

func TestCleanOutputFiltersPromptsAndEcho(t *testing.T) {
	lines := []string{
		"user@host ~ % ls",
		"ls",
		"file1.txt",
		"file2.txt",
		"user@host ~ % ",
	}
	got := CleanOutput(lines, "ls")
	assert.Equal(t, "file1.txt\nfile2.txt", got)
}

func TestCleanOutputEmptyInput(t *testing.T) {
	assert.Equal(t, "", CleanOutput(nil, ""))
}

func TestCleanOutputCollapsesBlankRuns(t *testing.T) {
	lines := []string{"a", "", "", "", "b"}
	got := CleanOutput(lines, "")
	assert.NotContains(t, got, "\n\n\n")
}

func TestCheckOutputQualityStripsResidualANSI(t *testing.T) {
	cleaned, warnings := CheckOutputQuality("hi\x1b[0mthere")
	assert.Equal(t, "hithere", cleaned)
	assert.Len(t, warnings, 1)
}

func TestCheckOutputQualityNoWarningsOnCleanText(t *testing.T) {
	cleaned, warnings := CheckOutputQuality("all good")
	assert.Equal(t, "all good", cleaned)
	assert.Empty(t, warnings)
}

func TestCheckOutputQualityEmptyInput(t *testing.T) {
	cleaned, warnings := CheckOutputQuality("")
	assert.Equal(t, "", cleaned)
	assert.Nil(t, warnings)
}

func TestToYAMLOmitsNilValues(t *testing.T) {
	doc := ToYAML(map[string]interface{}{"a": "b", "c": nil})
	assert.Contains(t, doc, "---\n")
	assert.Contains(t, doc, "a: b")
	assert.NotContains(t, doc, "c:")
}

func TestSessionHintsIncludesTerminalID(t *testing.T) {
	hints := SessionHints("abc-123")
	assert.Contains(t, hints["view_output"], "abc-123")
	assert.Contains(t, hints["kill_session"], "abc-123")
}

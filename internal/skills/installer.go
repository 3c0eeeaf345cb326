package skills

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/clrun/clrun/internal/ledger"
	"github.com/clrun/clrun/internal/paths"
)

type flatSkill struct {
	filename string
	content  string
}

type agentSkill struct {
	relPath string
	content string
}

var flatSkills = []flatSkill{
	{"clrun-skill.md", clrunSkill},
	{"claude-code-skill.md", claudeCodeSkill},
	{"openclaw-skill.md", openclawSkill},
}

var agentSkills = []agentSkill{
	{filepath.Join("clrun", "SKILL.md"), agentSkillMD},
	{filepath.Join("clrun", "references", "tui-patterns.md"), agentSkillTUIPatterns},
}

type globalTarget struct {
	name      string
	detect    string
	filePath  string
	mkdirPath string
	content   string
}

func globalTargets(home string) []globalTarget {
	return []globalTarget{
		{
			name:      "Claude Code",
			detect:    filepath.Join(home, ".claude"),
			filePath:  filepath.Join(home, ".claude", "skills", "clrun", "SKILL.md"),
			mkdirPath: filepath.Join(home, ".claude", "skills", "clrun"),
			content:   agentSkillMD,
		},
		{
			name:      "Cursor",
			detect:    filepath.Join(home, ".cursor"),
			filePath:  filepath.Join(home, ".cursor", "rules", "use-clrun.mdc"),
			mkdirPath: filepath.Join(home, ".cursor", "rules"),
			content:   cursorRule,
		},
		{
			name:      "Cline",
			detect:    filepath.Join(home, "Documents", "Cline"),
			filePath:  filepath.Join(home, "Documents", "Cline", "Rules", "clrun.md"),
			mkdirPath: filepath.Join(home, "Documents", "Cline", "Rules"),
			content:   clineRule,
		},
	}
}

func writeIfAbsent(path, content string) bool {
	if _, err := os.Stat(path); err == nil {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false
	}
	body := strings.TrimSpace(content) + "\n"
	return os.WriteFile(path, []byte(body), 0o644) == nil
}

// Install writes every flat and agent skill file under .clrun/skills/ that
// doesn't already exist, then best-effort installs into whichever global
// agent config directories are present on the machine. Returns the list of
// paths actually written (empty if everything was already installed).
func Install(projectRoot string) []string {
	paths.EnsureDirs(projectRoot)
	skillsDir := paths.Get(projectRoot).SkillsDir

	var installed []string
	for _, s := range flatSkills {
		fp := filepath.Join(skillsDir, s.filename)
		if writeIfAbsent(fp, s.content) {
			installed = append(installed, s.filename)
		}
	}
	for _, s := range agentSkills {
		fp := filepath.Join(skillsDir, s.relPath)
		if writeIfAbsent(fp, s.content) {
			installed = append(installed, s.relPath)
		}
	}

	installed = append(installed, installGlobal(projectRoot)...)

	if len(installed) > 0 {
		ledger.Log(projectRoot, ledger.EventSkillsInstalled, "", map[string]interface{}{
			"files": installed,
		})
	}
	return installed
}

func installGlobal(projectRoot string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	var installed []string
	for _, t := range globalTargets(home) {
		if _, err := os.Stat(t.detect); err != nil {
			continue
		}
		if writeIfAbsent(t.filePath, t.content) {
			installed = append(installed, t.name+": "+t.filePath)
		}
	}
	if len(installed) > 0 {
		ledger.Log(projectRoot, ledger.EventSkillsGlobalInstalled, "", map[string]interface{}{
			"agents": installed,
		})
	}
	return installed
}

// Installed reports whether every flat and agent skill file already exists
// under the project's skills directory.
func Installed(projectRoot string) bool {
	skillsDir := paths.Get(projectRoot).SkillsDir
	for _, s := range flatSkills {
		if _, err := os.Stat(filepath.Join(skillsDir, s.filename)); err != nil {
			return false
		}
	}
	for _, s := range agentSkills {
		if _, err := os.Stat(filepath.Join(skillsDir, s.relPath)); err != nil {
			return false
		}
	}
	return true
}

// Reinstall unconditionally overwrites every flat and agent skill file,
// for recovering from a manually edited or corrupted install.
func Reinstall(projectRoot string) []string {
	paths.EnsureDirs(projectRoot)
	skillsDir := paths.Get(projectRoot).SkillsDir

	var installed []string
	for _, s := range flatSkills {
		fp := filepath.Join(skillsDir, s.filename)
		if err := os.MkdirAll(filepath.Dir(fp), 0o755); err == nil {
			os.WriteFile(fp, []byte(strings.TrimSpace(s.content)+"\n"), 0o644)
			installed = append(installed, s.filename)
		}
	}
	for _, s := range agentSkills {
		fp := filepath.Join(skillsDir, s.relPath)
		if err := os.MkdirAll(filepath.Dir(fp), 0o755); err == nil {
			os.WriteFile(fp, []byte(strings.TrimSpace(s.content)+"\n"), 0o644)
			installed = append(installed, s.relPath)
		}
	}

	ledger.Log(projectRoot, ledger.EventSkillsInstalled, "", map[string]interface{}{
		"files": installed,
		"force": true,
	})
	return installed
}

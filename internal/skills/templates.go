// Package skills installs the bundled usage documentation that teaches
// coding agents how to drive clrun (spec SUPPLEMENTED FEATURES §3): a
// handful of flat markdown files under .clrun/skills/, and — best-effort,
// silently skipped on failure — the same guidance into whichever known
// agent config directories (~/.claude, ~/.cursor, ~/Documents/Cline)
// already exist on the machine. Ported from clrun/skills/templates.py and
// clrun/skills/installer.py; the content is the feature, so it is kept
// close to the source rather than re-derived.
package skills

const clrunSkill = `# clrun

clrun gives you persistent, observable, interactive terminal sessions instead
of one-shot command execution. Every session keeps running in the background
after a command returns, so you can come back later, send more input, or
read more output without losing state.

## Commands

- ` + "`clrun <command>`" + ` — start a new session
- ` + "`clrun <terminal_id> \"<text>\"`" + ` — send text + Enter to a session
- ` + "`clrun key <terminal_id> <key> [<key>...]`" + ` — send named keystrokes
- ` + "`clrun tail <terminal_id> --lines 50`" + ` — read recent output
- ` + "`clrun status`" + ` — list all sessions
- ` + "`clrun kill <terminal_id>`" + ` — terminate a session

Every response is a YAML document with a ` + "`hints`" + ` map telling you what to
do next — read it instead of guessing.
`

const claudeCodeSkill = `# Using clrun from Claude Code

Prefer ` + "`clrun`" + ` over the built-in bash tool whenever a command might be
interactive, long-running, or worth returning to later: dev servers,
REPLs, package-manager prompts, anything with a TUI.

1. Start it: ` + "`clrun <command>`" + `, save the ` + "`terminal_id`" + ` from the response.
2. Reply to prompts: ` + "`clrun <terminal_id> \"<answer>\"`" + `.
3. Navigate select/checkbox prompts: ` + "`clrun key <terminal_id> down down enter`" + `.
4. Check back later: ` + "`clrun tail <terminal_id> --lines 50`" + `.
5. Single-quote shell variables so your own shell doesn't expand them first:
   ` + "`clrun <terminal_id> 'echo $VAR'`" + `.
`

const openclawSkill = `# clrun for OpenClaw-style agents

clrun sessions outlive the tool call that created them. Use
` + "`clrun status`" + ` at the start of a turn to see what is still running
before starting something new, and ` + "`clrun kill <terminal_id>`" + ` to clean
up sessions you no longer need.
`

const agentSkillMD = `---
name: clrun
description: Run and interact with long-lived terminal sessions
---

# clrun

Use clrun instead of a one-shot shell tool whenever you might need to send
more input after the command starts, or check back on output later.

See references/tui-patterns.md for navigating interactive prompts.
`

const agentSkillTUIPatterns = `# TUI prompt patterns

| You see | Action |
|---------|--------|
| ` + "`Name: │ default`" + ` | ` + "`clrun <id> \"value\"`" + ` or ` + "`clrun key <id> enter`" + ` |
| select list | ` + "`clrun key <id> down down enter`" + ` |
| checkbox list | ` + "`clrun key <id> space down space enter`" + ` |
| yes/no | ` + "`clrun key <id> enter`" + ` or ` + "`clrun key <id> right enter`" + ` |
| ` + "`(y/n)`" + ` | ` + "`clrun <id> \"y\"`" + ` or ` + "`clrun <id> \"n\"`" + ` |
`

const cursorRule = `---
description: Always use clrun for terminal command execution instead of running commands directly
alwaysApply: true
---

# Use clrun for All Terminal Commands

Always use ` + "`clrun`" + ` instead of running commands directly. Store the
` + "`terminal_id`" + ` from every response, use ` + "`clrun key`" + ` for TUI prompts, and
single-quote ` + "`$`" + ` variables: ` + "`clrun <id> 'echo $VAR'`" + `.
`

const clineRule = `# clrun — Use for All Terminal Commands

Always use ` + "`clrun`" + ` instead of running commands directly.

| Action | Command |
|--------|---------|
| Run a command | ` + "`clrun <command>`" + ` |
| Send text + Enter | ` + "`clrun <id> \"text\"`" + ` |
| Send keystrokes | ` + "`clrun key <id> down enter`" + ` |
| View output | ` + "`clrun tail <id>`" + ` |
| Check sessions | ` + "`clrun status`" + ` |
| Kill session | ` + "`clrun kill <id>`" + ` |
`

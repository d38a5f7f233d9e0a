package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommands(t *testing.T) {
	parsed, err := Parse([]string{"run"})
	require.NoError(t, err)
	require.Equal(t, CommandRun, parsed.Command)
	require.False(t, parsed.ShowHelp)

	parsed, err = Parse([]string{"--config", "/tmp/c.conf", "status"})
	require.NoError(t, err)
	require.Equal(t, CommandStatus, parsed.Command)
	require.Equal(t, "/tmp/c.conf", parsed.ConfigPath)
}

func TestParseSendTakesCodes(t *testing.T) {
	parsed, err := Parse([]string{"send", "sxe"})
	require.NoError(t, err)
	require.Equal(t, CommandSend, parsed.Command)
	require.Equal(t, "sxe", parsed.SendCodes)

	_, err = Parse([]string{"send"})
	require.Error(t, err)
}

func TestParseDefaultsToHelp(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, CommandHelp, parsed.Command)
	require.True(t, parsed.ShowHelp)
}

func TestParseRejectsUnknownInput(t *testing.T) {
	_, err := Parse([]string{"dance"})
	require.Error(t, err)

	_, err = Parse([]string{"--loud"})
	require.Error(t, err)

	_, err = Parse([]string{"status", "extra"})
	require.Error(t, err)

	_, err = Parse([]string{"--config"})
	require.Error(t, err)
}

func TestHelpTextMentionsAllCommands(t *testing.T) {
	text := HelpText("clackd")
	for _, cmd := range []string{"run", "send", "status", "doctor", "version", "help"} {
		if !strings.Contains(text, cmd) {
			t.Fatalf("help text missing command %q", cmd)
		}
	}
}

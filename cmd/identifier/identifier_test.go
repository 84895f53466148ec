package identifier

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arcana-network/frostsigner/frost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierCommand(t *testing.T) {
	cmd := GetCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"1", "user"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1"))
	assert.True(t, strings.HasSuffix(lines[0], strings.Repeat("0", 63)+"1"))
	assert.True(t, strings.HasSuffix(lines[1], frost.UserIdentifier.String()))
}

func TestIdentifierCommandRejectsZero(t *testing.T) {
	cmd := GetCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"0"})
	assert.ErrorIs(t, cmd.Execute(), frost.ErrInvalidIdentifier)
}

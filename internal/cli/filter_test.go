package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterText(t *testing.T) {
	stdout, _, code := execute(t, "filter", employmentDir,
		"--type", "employment",
		"--where", "employee__age__gt=28",
		"--where", "employer__industry=Technology")
	require.Equal(t, ExitSuccess, code)

	want := `match
$v0 isa employment;
$v0 links (employee: $v1);
$v1 has age $v2;
$v2 > 28;
$v0 links (employer: $v3);
$v3 has industry $v4;
$v4 == "Technology";
`
	assert.Equal(t, want, stdout)
}

func TestFilterCoercesByAttributeKind(t *testing.T) {
	stdout, _, code := execute(t, "filter", employmentDir, "--type", "employment", "--where", "salary__gte=90000")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "$v1 >= 90000.0;")
}

func TestFilterJSON(t *testing.T) {
	stdout, _, code := execute(t, "filter", employmentDir, "--type", "person", "--where", "city=NYC", "--format", "json")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Status string       `json:"status"`
		Data   FilterResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "person", resp.Data.Type)
	assert.Equal(t, []string{"$v0 isa person;", "$v0 has city $v1;", `$v1 == "NYC";`}, resp.Data.Statements)
	assert.Empty(t, resp.Data.Bindings)
	assert.Len(t, resp.Data.Fingerprint, 64)
}

func TestFilterErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"unknown role", []string{"--type", "employment", "--where", "boss__age=3"}, ExitFailure, "Error [SCHEMA]"},
		{"unparseable value", []string{"--type", "person", "--where", "age__gt=old"}, ExitFailure, "Error [TYPE_MISMATCH]"},
		{"unknown type", []string{"--type", "robot"}, ExitFailure, "robot: type is not registered"},
		{"malformed lookup", []string{"--type", "person", "--where", "age"}, ExitCommandError, "Error [CONFIGURATION]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"filter", employmentDir}, tt.args...)
			stdout, _, code := execute(t, args...)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, stdout, tt.want)
		})
	}

	t.Run("type is required", func(t *testing.T) {
		_, stderr, code := execute(t, "filter", employmentDir)
		assert.Equal(t, ExitCommandError, code)
		assert.Contains(t, stderr, `required flag(s) "type" not set`)
	})
}

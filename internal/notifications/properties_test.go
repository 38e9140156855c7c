package notifications

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifications.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
templates:
  caseSubmitted: "tpl-submitted"
  applicationAcknowledgementTypeA: "tpl-ack-a"
  tribunalApplication: "tpl-trib"
`), 0o600))

	templates, err := LoadTemplates(path)
	require.NoError(t, err)
	assert.Equal(t, "tpl-submitted", templates.CaseSubmitted)
	assert.Equal(t, "tpl-ack-a", templates.ApplicationAcknowledgementTypeA)
	assert.Equal(t, "tpl-trib", templates.TribunalApplication)
	assert.Empty(t, templates.RespondentResponseCopy)
}

func TestLoadTemplatesMissingFile(t *testing.T) {
	_, err := LoadTemplates(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

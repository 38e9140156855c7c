// Package notifications selects templates and dispatches the emails that
// accompany case mutations: submission confirmations, application
// acknowledgements per application tier, and response notifications.
package notifications

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Templates holds the notification gateway template ids, loaded from the
// deployment's YAML config.
type Templates struct {
	CaseSubmitted string `yaml:"caseSubmitted"`

	ApplicationAcknowledgementTypeA  string `yaml:"applicationAcknowledgementTypeA"`
	ApplicationAcknowledgementTypeB  string `yaml:"applicationAcknowledgementTypeB"`
	ApplicationAcknowledgementTypeC  string `yaml:"applicationAcknowledgementTypeC"`
	ApplicationAcknowledgementNoCopy string `yaml:"applicationAcknowledgementNoCopy"`
	RespondentApplicationCopy        string `yaml:"respondentApplicationCopy"`
	TribunalApplication              string `yaml:"tribunalApplication"`

	ResponseAcknowledgement string `yaml:"responseAcknowledgement"`
	RespondentResponseCopy  string `yaml:"respondentResponseCopy"`
	TribunalResponse        string `yaml:"tribunalResponse"`

	StoredApplicationConfirmation string `yaml:"storedApplicationConfirmation"`
}

type properties struct {
	Templates Templates `yaml:"templates"`
}

// LoadTemplates reads the template ids from path.
func LoadTemplates(path string) (Templates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("reading notification config: %w", err)
	}
	var p properties
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Templates{}, fmt.Errorf("parsing notification config %s: %w", path, err)
	}
	return p.Templates, nil
}

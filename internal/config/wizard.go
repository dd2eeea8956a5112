package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the user's choices from the init wizard.
type WizardResult struct {
	Server        string
	BindUser      string
	UserName      string
	KeytabEnabled bool
	KeytabPath    string
	KeytabOwner   string
}

// RunWizard walks the user through the handful of choices a portal setup
// needs and returns the result. Resource names (privilege, role) keep their
// defaults; they can still be edited in the generated file afterwards.
func RunWizard() (*WizardResult, error) {
	result := &WizardResult{
		BindUser:      DefaultBindUser,
		UserName:      DefaultUserName,
		KeytabEnabled: true,
		KeytabPath:    DefaultKeytabPath,
		KeytabOwner:   DefaultKeytabOwner,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("FreeIPA server").
				Description("Host name of the FreeIPA server, e.g. ipa.example.org").
				Value(&result.Server).
				Validate(notEmpty("server")),
			huh.NewInput().
				Title("Bind user").
				Description("Account used for the RPC session (password via IPA_PASSWORD)").
				Value(&result.BindUser).
				Validate(notEmpty("bind user")),
			huh.NewInput().
				Title("Service user").
				Description("Name of the portal service account to create").
				Value(&result.UserName).
				Validate(notEmpty("service user")),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Retrieve a keytab?").
				Description("Fetch a Kerberos keytab for the service user with ipa-getkeytab").
				Value(&result.KeytabEnabled),
			huh.NewInput().
				Title("Keytab path").
				Value(&result.KeytabPath),
			huh.NewInput().
				Title("Keytab owner").
				Description("OS user that will own the keytab file").
				Value(&result.KeytabOwner),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard aborted: %w", err)
	}

	return result, nil
}

// BuildConfig expands a wizard result into a full configuration.
func BuildConfig(result *WizardResult) *Config {
	cfg := Default()
	cfg.Server = result.Server
	cfg.BindUser = result.BindUser
	cfg.User.Name = result.UserName
	cfg.Keytab.Enabled = result.KeytabEnabled
	if result.KeytabPath != "" {
		cfg.Keytab.Path = result.KeytabPath
	}
	if result.KeytabOwner != "" {
		cfg.Keytab.Owner = result.KeytabOwner
	}
	return cfg
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
		return nil
	}
}

package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/gitconfig"
)

// MaxIdentityAttempts bounds the "Look right?" loop.
const MaxIdentityAttempts = 5

func (wz *Wizard) collectIdentity(ctx context.Context) error {
	wz.out.Phase(2, TotalPhases, "Your identity")
	wz.out.Dim("Used for the SSH key, the GPG key, and git config")

	name := wz.git.Get(ctx, gitconfig.KeyUserName)
	email := wz.git.Get(ctx, gitconfig.KeyUserEmail)
	if name != "" {
		wz.out.Dim("Current git config: %s <%s>", name, email)
	}
	wz.out.Newline()

	for attempt := 1; attempt <= MaxIdentityAttempts; attempt++ {
		var err error
		name, err = wz.d.Prompt.Input(ctx, "Full name", "", name, ValidateName)
		if err != nil {
			return err
		}
		email, err = wz.d.Prompt.Input(ctx, "Email", "Must match your GitHub account", email, ValidateEmail)
		if err != nil {
			return err
		}
		name, email = strings.TrimSpace(name), strings.TrimSpace(email)

		wz.out.Text("  Using: %s <%s>", name, email)
		ok, err := wz.d.Prompt.Confirm(ctx, "Look right?", true)
		if err != nil {
			return err
		}
		if ok {
			wz.report.Identity = Identity{Name: name, Email: email}
			return nil
		}
	}

	return errors.Declined(fmt.Sprintf(
		"Identity not confirmed after %d tries. Run again whenever.", MaxIdentityAttempts))
}

// ValidateName rejects blank names.
func ValidateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// ValidateEmail requires something@something.
func ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" || strings.ContainsAny(s, " \t<>") {
		return fmt.Errorf("that doesn't look like an email address")
	}
	return nil
}

package tui

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/eduplay-console/internal/resource"
	"github.com/felixgeelhaar/eduplay-console/internal/ux"
)

const noneOption = "(none)"

// DraftForm builds a form whose inputs edit d in place, so a form that is
// rebuilt after a failed submit shows the operator's last input.
func DraftForm(title string, d *resource.Draft) *huh.Form {
	schema := d.Schema()
	fields := make([]huh.Field, 0, len(schema))
	for _, f := range schema {
		fields = append(fields, draftField(f, d.Ptr(f.Key)))
	}
	return huh.NewForm(huh.NewGroup(fields...).Title(title)).
		WithShowHelp(true)
}

func draftField(f resource.Field, value *string) huh.Field {
	title := f.Label
	if f.Required {
		title += " *"
	}
	validate := func(s string) error {
		if err := f.Check(s); err != nil {
			return errors.New(ux.Describe(err))
		}
		return nil
	}

	switch f.Kind {
	case resource.KindChoice:
		opts := make([]huh.Option[string], 0, len(f.Options)+1)
		if !f.Required {
			opts = append(opts, huh.NewOption(noneOption, ""))
		}
		for _, o := range f.Options {
			opts = append(opts, huh.NewOption(o, o))
		}
		return huh.NewSelect[string]().
			Key(f.Key).
			Title(title).
			Options(opts...).
			Value(value)

	case resource.KindLongText:
		return huh.NewText().
			Key(f.Key).
			Title(title).
			Value(value).
			Validate(validate)

	default:
		in := huh.NewInput().
			Key(f.Key).
			Title(title).
			Value(value).
			Validate(validate)
		if f.Kind == resource.KindPassword {
			in = in.EchoMode(huh.EchoModePassword)
		}
		return in
	}
}

// newLoginForm asks for admin credentials.
func newLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("username").
				Title("Username").
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(huh.ValidateNotEmpty()),
		).Title("Admin login").
			Description("Ctrl+S seeds sample data (admin / admin123)"),
	)
}

// newConfirmForm asks a yes/no question, defaulting to no.
func newConfirmForm(prompt string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(prompt).
				Affirmative("Delete").
				Negative("Cancel"),
		),
	)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/eduplay-console/internal/catalog"
	"github.com/felixgeelhaar/eduplay-console/internal/log"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
	"github.com/felixgeelhaar/eduplay-console/internal/tui"
	"github.com/felixgeelhaar/eduplay-console/internal/ux"
)

// logNotifier sends controller notifications to the command log. Commands
// report results on stdout themselves.
type logNotifier struct{ logger *log.Logger }

func (n logNotifier) Success(msg string) { n.logger.Info(msg) }

func (n logNotifier) Failure(msg string, err error) { n.logger.WithError(err).Warn(msg) }

// newEntityCmds returns one command group per catalog entity.
func newEntityCmds() []*cobra.Command {
	var cmds []*cobra.Command
	for _, d := range catalog.All() {
		cmds = append(cmds, newEntityCmd(d))
	}
	return cmds
}

func newEntityCmd(d catalog.Descriptor) *cobra.Command {
	ep := d.Endpoint()
	short := "Manage " + d.Name()
	if ep.ReadOnly() {
		short = "View " + d.Name() + " (read-only)"
	}

	cmd := &cobra.Command{
		Use:   d.Name(),
		Short: short,
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newListCmd(d), newShowCmd(d))
	if ep.CanCreate() {
		cmd.AddCommand(newCreateCmd(d))
	}
	if ep.CanModify() {
		cmd.AddCommand(newUpdateCmd(d), newDeleteCmd(d))
	}
	if d.SupportsEffects() {
		cmd.AddCommand(newEffectCmd(d))
	}
	return cmd
}

// bindLoaded binds d to an authenticated client and fetches the list.
func bindLoaded(cc *CommandContext, d catalog.Descriptor) (catalog.Binding, error) {
	client, err := cc.AuthedClient()
	if err != nil {
		return nil, err
	}
	b := d.Bind(client, logNotifier{cc.Logger})
	if err := b.Refresh(cc.Context()); err != nil {
		return nil, apiFailure(cc.Config.API.URL, resource.MessagesFor(d.Endpoint()).FetchFailed, err)
	}
	return b, nil
}

func entityTable(d catalog.Descriptor, b catalog.Binding) ux.Table {
	return ux.Table{
		Headers: d.Headers(),
		Rows:    b.Rows(),
		Records: b.Records(),
		Empty:   "No " + d.Name() + " found",
	}
}

func newListCmd(d catalog.Descriptor) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List " + d.Name(),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			b, err := bindLoaded(cc, d)
			if err != nil {
				return err
			}
			return cc.Print(entityTable(d, b))
		},
	}
}

// rowOf returns the row index of the record with id.
func rowOf(b catalog.Binding, id string) int {
	for i := 0; i < b.Len(); i++ {
		if b.IDAt(i) == id {
			return i
		}
	}
	return -1
}

func newShowCmd(d catalog.Descriptor) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref>",
		Short: "Show one " + strings.ToLower(d.Endpoint().Singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			b, err := bindLoaded(cc, d)
			if err != nil {
				return err
			}
			id, err := b.Resolve(args[0])
			if err != nil {
				return RecordNotFoundError(d.Name(), args[0], err)
			}

			i := rowOf(b, id)
			row := b.Rows()[i]
			fields := []ux.Field{{Label: "ID", Value: id}}
			for c, h := range d.Headers() {
				fields = append(fields, ux.Field{Label: h, Value: row[c]})
			}
			record := reflect.ValueOf(b.Records()).Index(i).Interface()
			return cc.Print(ux.Record{Fields: fields, Value: record})
		},
	}
}

// applySets writes key=value pairs into the draft.
func applySets(d *resource.Draft, sets []string) error {
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return SetFlagError(s)
		}
		if err := d.Set(strings.TrimSpace(key), value); err != nil {
			return err
		}
	}
	return nil
}

// fillDraft applies --set values, or runs the draft's form when none were
// given and a terminal is attached.
func fillDraft(title string, draft *resource.Draft, sets []string, requireInput bool) error {
	if len(sets) > 0 {
		return applySets(draft, sets)
	}
	if tui.ShouldPrompt() {
		return tui.PromptDraft(title, draft)
	}
	if requireInput {
		return NotInteractiveError("fields", "--set key=value")
	}
	return nil
}

// submitDraft submits the open dialog. Form errors are returned as they
// are; API failures get the entity's failure message.
func submitDraft(cc *CommandContext, b catalog.Binding, failMsg string) error {
	err := b.Submit(cc.Context())
	if err == nil {
		return nil
	}
	var fieldErr interface{ Category() string }
	if errors.As(err, &fieldErr) && fieldErr.Category() == "FORM" {
		return fmt.Errorf("%s: %w", failMsg, err)
	}
	return apiFailure(cc.Config.API.URL, failMsg, err)
}

func newCreateCmd(d catalog.Descriptor) *cobra.Command {
	var sets []string
	msgs := resource.MessagesFor(d.Endpoint())
	singular := d.Endpoint().Singular

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + strings.ToLower(singular),
		Long: fmt.Sprintf(`Create a %s. Fields are given with --set, or entered in a form
when stdin is a terminal.

Fields: %s`, strings.ToLower(singular), strings.Join(d.CreateSchema().Keys(), ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			b, err := bindLoaded(cc, d)
			if err != nil {
				return err
			}

			draft, err := b.OpenCreate()
			if err != nil {
				return ux.FormatError(err, msgs.CreateFailed)
			}
			if err := fillDraft("New "+singular, draft, sets, false); err != nil {
				return err
			}
			if err := submitDraft(cc, b, msgs.CreateFailed); err != nil {
				return err
			}
			return cc.Print(ux.Message(msgs.Created))
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as key=value (repeatable)")
	return cmd
}

func newUpdateCmd(d catalog.Descriptor) *cobra.Command {
	var sets []string
	msgs := resource.MessagesFor(d.Endpoint())
	singular := d.Endpoint().Singular

	cmd := &cobra.Command{
		Use:   "update <ref>",
		Short: "Update a " + strings.ToLower(singular),
		Long: fmt.Sprintf(`Update a %s. Unset fields keep their current values.

Fields: %s`, strings.ToLower(singular), strings.Join(d.EditSchema().Keys(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			b, err := bindLoaded(cc, d)
			if err != nil {
				return err
			}

			draft, err := b.OpenEdit(args[0])
			if errors.Is(err, catalog.ErrRecordNotFound) {
				return RecordNotFoundError(d.Name(), args[0], err)
			} else if err != nil {
				return ux.FormatError(err, msgs.UpdateFailed)
			}
			if err := fillDraft("Edit "+singular, draft, sets, true); err != nil {
				return err
			}
			if err := submitDraft(cc, b, msgs.UpdateFailed); err != nil {
				return err
			}
			return cc.Print(ux.Message(msgs.Updated))
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as key=value (repeatable)")
	return cmd
}

// promptConfirmer asks on the terminal.
var promptConfirmer = resource.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
	return tui.PromptForConfirmation(prompt, false)
})

func newDeleteCmd(d catalog.Descriptor) *cobra.Command {
	var yes bool
	msgs := resource.MessagesFor(d.Endpoint())

	cmd := &cobra.Command{
		Use:   "delete <ref>",
		Short: "Delete a " + strings.ToLower(d.Endpoint().Singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			b, err := bindLoaded(cc, d)
			if err != nil {
				return err
			}
			id, err := b.Resolve(args[0])
			if err != nil {
				return RecordNotFoundError(d.Name(), args[0], err)
			}

			var confirm resource.Confirmer = resource.Confirmed
			if !yes {
				if !tui.ShouldPrompt() {
					return NotInteractiveError("confirmation", "--yes")
				}
				confirm = promptConfirmer
			}

			err = b.Delete(cc.Context(), id, confirm)
			switch {
			case errors.Is(err, resource.ErrCancelled):
				return cc.Print(ux.Message("Delete cancelled"))
			case err != nil:
				return apiFailure(cc.Config.API.URL, msgs.DeleteFailed, err)
			}
			return cc.Print(ux.Message(msgs.Deleted))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func newEffectCmd(d catalog.Descriptor) *cobra.Command {
	var effectType, content, duration string

	cmd := &cobra.Command{
		Use:   "effect <ref>",
		Short: "Send a live effect to a connected player",
		Long: `Push a text, image or notification effect to a player's running game.

Examples:
  eduplayctl users effect emma_w --content "Great job!"
  eduplayctl users effect emma_w --type image --content https://example.com/star.png --duration 3000
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			b, err := bindLoaded(cc, d)
			if err != nil {
				return err
			}
			id, err := b.Resolve(args[0])
			if err != nil {
				return RecordNotFoundError(d.Name(), args[0], err)
			}
			name := b.Keys()[rowOf(b, id)]

			draft := resource.NewDraft(catalog.EffectSchema)
			var sets []string
			if effectType != "" {
				sets = append(sets, "effect_type="+effectType)
			}
			if content != "" {
				sets = append(sets, "content="+content)
			}
			if duration != "" {
				sets = append(sets, "duration="+duration)
			}
			if err := fillDraft("Send live effect to "+name, draft, sets, true); err != nil {
				return err
			}

			effect, err := catalog.EffectFromDraft(id, draft)
			if err != nil {
				return fmt.Errorf("failed to send effect: %w", err)
			}
			client, err := cc.AuthedClient()
			if err != nil {
				return err
			}
			if _, err := client.SendLiveEffect(cc.Context(), effect); err != nil {
				return apiFailure(cc.Config.API.URL, "Failed to send effect", err)
			}
			return cc.Print(ux.Message(fmt.Sprintf("Live effect sent to %s!", name)))
		},
	}

	cmd.Flags().StringVar(&effectType, "type", "", "effect type: text, image or notification (default text)")
	cmd.Flags().StringVar(&content, "content", "", "text to show, or the image URL")
	cmd.Flags().StringVar(&duration, "duration", "", "on-screen time in milliseconds (default 5000)")
	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"usermanager/internal/directory"
	"usermanager/internal/shared/config"
	"usermanager/internal/users"
)

type formFlags struct {
	firstName  string
	lastName   string
	email      string
	department string
}

func (f *formFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.department, "department", "", "department")
}

// apply overlays the flags the user actually set onto form.
func (f *formFlags) apply(cmd *cobra.Command, form users.FormState) users.FormState {
	if cmd.Flags().Changed("first-name") {
		form.FirstName = f.firstName
	}
	if cmd.Flags().Changed("last-name") {
		form.LastName = f.lastName
	}
	if cmd.Flags().Changed("email") {
		form.Email = f.email
	}
	if cmd.Flags().Changed("department") {
		form.Department = f.department
	}
	return form
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Fetch and print all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := session(cmd, opts, nil)
			return err
		},
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	flags := &formFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := session(cmd, opts, func(ctx context.Context, mgr *users.Manager) error {
				mgr.SetForm(flags.apply(cmd, users.FormState{}))
				return mgr.Create(ctx)
			})
			return err
		},
	}
	flags.bind(cmd)
	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	flags := &formFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user; unset fields keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, err = session(cmd, opts, func(ctx context.Context, mgr *users.Manager) error {
				if err := mgr.EditByID(id); err != nil {
					return fmt.Errorf("user %d not found", id)
				}
				mgr.SetForm(flags.apply(cmd, mgr.State().Form))
				return mgr.Update(ctx)
			})
			return err
		},
	}
	flags.bind(cmd)
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, err = session(cmd, opts, func(ctx context.Context, mgr *users.Manager) error {
				return mgr.Delete(ctx, id)
			})
			return err
		},
	}
}

// session runs the startup fetch, the optional action, and prints the mirror.
// Directory failures print the error channel message.
func session(cmd *cobra.Command, opts *rootOptions, action func(context.Context, *users.Manager) error) (*users.Manager, error) {
	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	mgr := users.NewManager(client)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := mgr.Fetch(ctx); err != nil {
		return mgr, reportChannel(cmd, mgr, err)
	}
	if action != nil {
		if err := action(ctx, mgr); err != nil {
			return mgr, reportChannel(cmd, mgr, err)
		}
	}
	return mgr, printUsers(cmd.OutOrStdout(), opts.format, mgr.Users())
}

func reportChannel(cmd *cobra.Command, mgr *users.Manager, err error) error {
	var aerr *users.ActionError
	if errors.As(err, &aerr) {
		fmt.Fprintln(cmd.ErrOrStderr(), mgr.Err())
		return errReported
	}
	return err
}

func newClient(opts *rootOptions) (*directory.Client, error) {
	url := opts.directoryURL
	timeout := config.DefaultDirectoryTimeout
	if url == "" {
		cfg := config.Load()
		url, timeout = cfg.DirectoryURL, cfg.DirectoryTimeout
	}
	return directory.New(url, directory.WithTimeout(timeout))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return id, nil
}

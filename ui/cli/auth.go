// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/createch/core/account"
	"github.com/toeirei/createch/core/federated"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/internal/logging"
	"golang.org/x/term"
)

// readPassword prompts on a terminal without echo and falls back to reading
// one line from the command input.
func readPassword(cmd *cobra.Command) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), i18n.T("cli.prompt_password"))
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("could not read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd() *cobra.Command {
	var email, password string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Signs in with email and password. The password is prompted for
when --password is not given.

Use "createch login google" or "createch login facebook" for federated sign-in.`,
		Args:    cobra.NoArgs,
		PreRunE: setupServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := awaitSession(cmd); err != nil {
				return err
			}
			if email == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				p, err := readPassword(cmd)
				if err != nil {
					return err
				}
				password = p
			}
			svc.feed.echoProgress(cmd.ErrOrStderr())
			return statusResult(cmd, svc.account.Login(cmd.Context(), email, password))
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")

	federatedCmd := func(use string, launcher func() *federated.Launcher) *cobra.Command {
		return &cobra.Command{
			Use:     use,
			Short:   "Sign in with " + strings.ToUpper(use[:1]) + use[1:] + " in your browser",
			Args:    cobra.NoArgs,
			PreRunE: setupServices,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := awaitSession(cmd); err != nil {
					return err
				}
				return runFederated(cmd, launcher(), timeout)
			},
		}
	}
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "How long to wait for the browser sign-in")
	cmd.AddCommand(
		federatedCmd("google", func() *federated.Launcher { return svc.google }),
		federatedCmd("facebook", func() *federated.Launcher { return svc.facebook }),
	)
	return cmd
}

func runFederated(cmd *cobra.Command, l *federated.Launcher, timeout time.Duration) error {
	svc.feed.drain()
	svc.feed.echoProgress(cmd.ErrOrStderr())

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	l.Launch(ctx)
	st, err := svc.feed.awaitTerminal(ctx)
	if err != nil {
		return errors.New(i18n.T("cli.timeout"))
	}
	return statusResult(cmd, st)
}

func newRegisterCmd() *cobra.Command {
	var fields account.RegistrationFields
	var country string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and save its profile",
		Long: `Creates an email/password account and writes the profile record
(first and last name, email, phone, date of birth) to Firestore.

The phone number is stored with the dialing code of --country, which accepts
a dialing code ("+63") or an ISO code ("PH").`,
		Args:    cobra.NoArgs,
		PreRunE: setupServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := account.LookupCountry(country)
			if !ok {
				return fmt.Errorf("unknown country %q", country)
			}
			if err := awaitSession(cmd); err != nil {
				return err
			}
			if fields.Email == "" || fields.FirstName == "" {
				return errors.New("--email and --first-name are required")
			}
			if fields.Password == "" {
				p, err := readPassword(cmd)
				if err != nil {
					return err
				}
				fields.Password = p
			}
			f := fields
			f.Phone = account.ComposePhone(c.Code, fields.Phone)

			svc.feed.echoProgress(cmd.ErrOrStderr())
			return statusResult(cmd, svc.account.Register(cmd.Context(), f))
		},
	}
	cmd.Flags().StringVar(&fields.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&fields.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVarP(&fields.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&fields.Password, "password", "p", "", "Account password (prompted when omitted)")
	cmd.Flags().StringVar(&fields.Phone, "phone", "", "Phone number without dialing code")
	cmd.Flags().StringVar(&fields.DateOfBirth, "dob", "", "Date of birth (DD/MM/YYYY)")
	cmd.Flags().StringVar(&country, "country", account.DefaultCountry.Code, "Dialing code or ISO country code")
	return cmd
}

func newStatusCmd() *cobra.Command {
	var verify bool
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show the signed-in user",
		Args:    cobra.NoArgs,
		PreRunE: setupServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := awaitSession(cmd); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			u := svc.session.User()
			switch {
			case u == nil:
				_, _ = fmt.Fprintln(out, i18n.T("cli.user_none"))
				return nil
			case u.Anonymous:
				_, _ = fmt.Fprintln(out, i18n.T("cli.user_anonymous", u.UID))
			default:
				name := u.Email
				if name == "" {
					name = u.DisplayName
				}
				_, _ = fmt.Fprintln(out, i18n.T("cli.user_signed_in", name, u.UID, u.ProviderID))
			}

			if verify {
				if svc.backend.verify == nil {
					return errors.New(i18n.T("status.auth_not_ready"))
				}
				uid, err := svc.backend.verify(cmd.Context())
				if err != nil {
					return fmt.Errorf("token verification failed: %w", err)
				}
				_, _ = fmt.Fprintln(out, i18n.T("cli.token_verified", uid))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "Verify the ID token with the Firebase Admin SDK")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Forget the local sign-in",
		Args:    cobra.NoArgs,
		PreRunE: setupServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := awaitSession(cmd); err != nil {
				return err
			}
			p := svc.session.Provider()
			if p == nil {
				return errors.New(i18n.T("status.auth_not_ready"))
			}
			// Release the listener first, it would sign in anonymously
			// again as soon as the user is gone.
			svc.session.Close()
			if err := p.SignOut(cmd.Context()); err != nil {
				return err
			}
			if err := svc.store.LogAction(cmd.Context(), "LOGOUT", ""); err != nil {
				logging.Warnf("could not record LOGOUT audit entry: %v", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("status.signed_out"))
			return nil
		},
	}
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

var errLoginRejected = goerr.New("login rejected by backend")

func cmdLogin() *cli.Command {
	var (
		clientCfg clientConfig
		email     string
		password  string
	)

	return &cli.Command{
		Name:  "login",
		Usage: "Log in to the backend and persist the session",
		Flags: joinFlags(clientCfg.Flags(), []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Usage:       "Login email (prompted when omitted)",
				Sources:     cli.EnvVars("CROWDLENS_EMAIL"),
				Destination: &email,
			},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "Login password (prompted when omitted)",
				Sources:     cli.EnvVars("CROWDLENS_PASSWORD"),
				Destination: &password,
			},
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			out := c.Root().Writer
			in := bufio.NewReader(c.Root().Reader)

			if email == "" {
				v, err := prompt(out, in, "Email: ")
				if err != nil {
					return err
				}
				email = v
			}
			if password == "" {
				v, err := promptSecret(out, in, "Password: ")
				if err != nil {
					return err
				}
				password = v
			}

			rt, err := clientCfg.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			ok, err := rt.auth.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if !ok {
				return goerr.Wrap(errLoginRejected, "failed to login", goerr.V("email", email))
			}

			ctxlog.From(ctx).Debug("Logged in", "email", email)
			renderSession(out, rt.auth.Current(), time.Now())
			return nil
		},
	}
}

func cmdLogout() *cli.Command {
	var clientCfg clientConfig

	return &cli.Command{
		Name:  "logout",
		Usage: "Clear the persisted session",
		Flags: clientCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := clientCfg.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			if err := rt.auth.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, "Logged out")
			return nil
		},
	}
}

func cmdWhoami() *cli.Command {
	var clientCfg clientConfig

	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the persisted session",
		Flags: clientCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := clientCfg.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			renderSession(c.Root().Writer, rt.auth.Current(), time.Now())
			return nil
		},
	}
}

func prompt(w io.Writer, r *bufio.Reader, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", goerr.Wrap(err, "failed to read input")
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when stdin is a terminal
func promptSecret(w io.Writer, r *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(w, r, label)
	}

	fmt.Fprint(w, label)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read password")
	}
	return string(secret), nil
}

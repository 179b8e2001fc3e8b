package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrijs2005/healthkeeper/internal/client/client"
	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

// getSimpleText, getMultiline and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getMultiline = GetMultiline
var getPassword = GetPassword

// Register prompts for name, email and password, creates the account and
// leaves the user logged in with the returned token.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Register(ctx, models.RegisterInput{Name: name, Email: email, Password: string(password)})
	if err != nil {
		return err
	}

	a.user = &res.User
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", res.User.Email)
	return nil
}

// Login prompts for credentials and keeps the session token on success.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, models.LoginInput{Email: email, Password: string(password)})
	if err != nil {
		return err
	}

	a.user = &res.User
	fmt.Fprintf(a.out, "Logged in as %s\n", res.User.Email)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ID:      %s\nName:    %s\nEmail:   %s\nSince:   %s\n",
		u.ID, u.Name, u.Email, u.CreatedAt.Format(dateLayout))
	return nil
}

// Logout forgets the token locally; tokens are not revoked server-side.
func (a *App) Logout(_ context.Context) error {
	a.api.SetToken("")
	a.user = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// describeError renders err for the terminal. Server validation details are
// listed one per line.
func describeError(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		for _, field := range slices.Sorted(maps.Keys(apiErr.Details)) {
			msg += fmt.Sprintf("\n  %s: %s", field, apiErr.Details[field])
		}
		return msg
	}
	if errors.Is(err, client.ErrUnavailable) {
		return "server unavailable"
	}
	return err.Error()
}

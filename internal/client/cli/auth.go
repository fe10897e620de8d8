package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for username, email, password and its confirmation,
// validates the form and creates the account. The new user is signed in.
//
// Validation problems are printed and reported as a nil error; store
// failures are returned.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	form := registerForm{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: string(password),
		Confirm:  string(confirm),
	}
	if msgs := validateForm(form); msgs != nil {
		printFormErrors(msgs)
		return nil
	}

	user, err := a.session.Register(ctx, form.Username, form.Email, password)
	if err != nil {
		if errors.Is(err, common.ErrEmptyCredentials) {
			printlnFn("Username and password must not be empty")
			return nil
		}
		return err
	}

	a.syncPrefs(ctx)
	printlnFn(fmt.Sprintf("Welcome, %s! You are signed in.", user.Username))
	return nil
}

// Login prompts for credentials and signs in. A rejected login prints the
// result message; only store failures are returned.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	trimmed := bytes.TrimSpace(password)
	form := loginForm{Username: strings.TrimSpace(username), Password: string(trimmed)}
	if msgs := validateForm(form); msgs != nil {
		printFormErrors(msgs)
		return nil
	}

	res, err := a.session.Login(ctx, form.Username, trimmed)
	if err != nil {
		return err
	}
	if !res.Success {
		printlnFn(res.Message)
		return nil
	}

	a.syncPrefs(ctx)
	printlnFn(fmt.Sprintf("Signed in as %s", res.User.Username))
	return nil
}

// Logout ends the session. Saved filters are cleared as well.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("You are not signed in")
		return nil
	}

	err := a.session.Logout(ctx)
	a.syncPrefs(ctx)
	if err != nil {
		return err
	}
	printlnFn("Signed out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, ok := a.session.CurrentUser()
	if !ok {
		printlnFn("You are not signed in")
		return nil
	}

	line := "Signed in as " + u.Username
	if u.Email != "" {
		line += " <" + u.Email + ">"
	}
	printlnFn(line)
	printlnFn(fmt.Sprintf("Favorites: %d", len(a.session.Favorites())))
	return nil
}

// Forget deletes the signed-in user's account and favorites after the
// username is typed again as confirmation.
func (a *App) Forget(ctx context.Context) error {
	u, ok := a.session.CurrentUser()
	if !ok {
		printSignInHint()
		return nil
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Type %q to delete this account and its favorites", u.Username), a.out)
	if err != nil {
		return err
	}
	if answer != u.Username {
		printlnFn("Cancelled")
		return nil
	}

	if err := a.session.ClearUserData(ctx, u.Username); err != nil {
		return err
	}
	a.syncPrefs(ctx)
	printlnFn("Account deleted")
	return nil
}

func printSignInHint() {
	printlnFn("Sign in to manage favorites (use 'login' or 'register')")
}

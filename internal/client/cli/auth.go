package cli

import (
	"context"
	"fmt"

	"github.com/aceinapril/aceinapril/internal/client/auth"
	"github.com/aceinapril/aceinapril/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and tries to authenticate. The password is
// wiped before returning. Failures are reported to the user by error kind;
// unknown-username and wrong-password cases print the exact same text.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	u, err := a.auth.Login(ctx, models.Credentials{Username: userName, Password: string(password)})
	if err != nil {
		switch auth.KindOf(err) {
		case auth.KindValidation, auth.KindInvalidCredentials:
			fmt.Fprintln(a.out, "Login failed:", err.Error())
		case auth.KindNetwork:
			fmt.Fprintln(a.out, "Login failed: could not reach the record store, check your connection.")
		default:
			fmt.Fprintln(a.out, "Login failed: the record store returned an unexpected error, try again later.")
		}
		return err
	}

	fmt.Fprintf(a.out, "Welcome back, %s!\n", u.Username)
	if u.IsAdmin() {
		fmt.Fprintln(a.out, "Admin commands available: users, adduser, postquestion.")
		return nil
	}
	return a.renderHome(ctx)
}

// Logout destroys the session and sends the user back to the login prompt.
// Safe to call when nobody is logged in.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, "Logout finished with a storage problem:", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out. Use 'login' to sign in again.")
	return nil
}

// WhoAmI prints the current identity. Public: it only reads local state.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.auth.CurrentUser()
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s (role: %s, category: %s)\n", u.Username, u.Role, u.Category)
	return nil
}

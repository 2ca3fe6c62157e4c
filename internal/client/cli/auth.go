package cli

import (
	"context"
	"fmt"
	"os"
)

// Login reads a bearer token, installs it on the remote client and resolves
// the current user. The token never echoes to the terminal.
func (a *App) Login(ctx context.Context) error {
	token, err := GetAccessToken(os.Stdout)
	if err != nil {
		fmt.Println("could not read token:", err)
		return err
	}

	a.remote.SetAccessToken(token)

	user, err := a.remote.CurrentUser(ctx)
	if err != nil {
		a.remote.SetAccessToken("")
		fmt.Println("login failed:", err)
		return err
	}

	a.userName = user.Id
	fmt.Println("Logged in as", a.userName)
	return nil
}

// Logout removes the token and clears the durable sync status so the next
// account starts from a clean indicator.
func (a *App) Logout(ctx context.Context) error {
	a.remote.SetAccessToken("")
	a.userName = ""

	if err := a.syncService.ClearStatus(ctx); err != nil {
		fmt.Println("could not clear sync status:", err)
		return err
	}
	fmt.Println("Logged out")
	return nil
}

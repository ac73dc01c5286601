package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/campuswall/internal/client/client"
	"github.com/dmitrijs2005/campuswall/internal/common"
)

// getSimpleText, getPassword, getMultiline and getList point to the
// interactive input helpers and are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	getList       = GetList
)

// readCredentials prompts for a phone number and a password. The caller
// wipes the password.
func (a *App) readCredentials() (string, []byte, error) {
	phone, err := getSimpleText(a.reader, "Enter phone number", a.out)
	if err != nil {
		return "", nil, err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return phone, password, nil
}

func (a *App) Register(ctx context.Context) error {
	phone, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	id, err := a.client.Register(ctx, phone, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered, user id %d. You can login now.\n", id)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	phone, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.client.Login(ctx, phone, password)
	if err != nil {
		return err
	}

	a.setProfile(p)
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the session token locally. There is no server call: tokens
// cannot be revoked and stay valid until they expire.
func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.setProfile(nil)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) requireLogin() error {
	if !a.client.LoggedIn() {
		return client.ErrUnauthorized
	}
	return nil
}

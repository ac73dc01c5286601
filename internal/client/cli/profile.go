package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/campuswall/internal/api"
)

// Me shows the caller's profile, or another user's when an id is given.
func (a *App) Me(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	var id int64
	if len(args) > 0 {
		var err error
		if id, err = ParseID(args[0]); err != nil {
			return err
		}
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.client.Profile(ctx, id)
	if err != nil {
		return err
	}
	printProfile(a.out, p)
	return nil
}

// Edit prompts for each editable profile field. Empty answers leave the
// field unchanged.
func (a *App) Edit(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	fields := map[string]any{}
	for _, f := range []struct{ name, prompt string }{
		{"nickname", "Nickname"},
		{"signature", "Signature"},
		{"gender", "Gender (male/female)"},
		{"university_id", "University id"},
	} {
		v, err := getSimpleText(a.reader, f.prompt+" (empty to keep)", a.out)
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}

		switch f.name {
		case "gender":
			g, ok := parseGender(v)
			if !ok {
				return fmt.Errorf("unknown gender %q", v)
			}
			fields[f.name] = g
		case "university_id":
			id, err := ParseID(v)
			if err != nil {
				return err
			}
			fields[f.name] = id
		default:
			fields[f.name] = v
		}
	}

	if len(fields) == 0 {
		fmt.Fprintln(a.out, "Nothing to change")
		return nil
	}

	return a.updateProfile(ctx, fields)
}

// Avatar uploads a picture file and makes it the caller's avatar.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: avatar <file>")
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	key, err := a.uploadFile(ctx, api.UploadAvatar, args[0])
	if err != nil {
		return err
	}
	return a.updateProfile(ctx, map[string]any{"avatar_url": key})
}

func (a *App) updateProfile(ctx context.Context, fields map[string]any) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.client.UpdateProfile(ctx, fields)
	if err != nil {
		return err
	}
	a.setProfile(p)
	printProfile(a.out, p)
	return nil
}

func (a *App) Users(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	users, err := a.client.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, p := range users {
		name := p.Nickname
		if name == "" {
			name = "-"
		}
		if p.PhoneNumber != "" {
			name += " (" + p.PhoneNumber + ")"
		}
		fmt.Fprintf(a.out, "#%-6d %s\n", p.UserID, name)
	}
	return nil
}

func parseGender(s string) (int, bool) {
	for g, name := range genders {
		if strings.EqualFold(s, name) {
			return g, true
		}
	}
	return 0, false
}

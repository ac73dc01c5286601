package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/campuswall/internal/api"
	"github.com/dmitrijs2005/campuswall/internal/netx"
)

// File and presigned transfer seams, swapped in tests.
var (
	readFile     = os.ReadFile
	writeFile    = os.WriteFile
	putPresigned = netx.PutPresigned
	getPresigned = netx.GetPresigned
)

// Random draws a blind box and, when logged in, records that it was seen.
func (a *App) Random(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	box, err := a.client.RandomBox(ctx)
	if err != nil {
		return err
	}
	printBox(a.out, box)

	if a.client.LoggedIn() {
		return a.client.RecordView(ctx, box.BoxID)
	}
	return nil
}

// View records a view of the box with the given id.
func (a *App) View(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: view <id>")
	}
	id, err := ParseID(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.RecordView(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Box #%d added to history\n", id)
	return nil
}

// History lists the boxes the caller has seen, most recent first.
func (a *App) History(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	boxes, err := a.client.History(ctx)
	if err != nil {
		return err
	}
	if len(boxes) == 0 {
		fmt.Fprintln(a.out, "No boxes viewed yet")
		return nil
	}
	for _, b := range boxes {
		printViewed(a.out, b)
	}
	return nil
}

// Post prompts for a new box, uploads its pictures and posts it.
func (a *App) Post(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	contact, err := getSimpleText(a.reader, "Contact", a.out)
	if err != nil {
		return err
	}
	files, err := getList(a.reader, "Picture files", a.out)
	if err != nil {
		return err
	}
	uniArgs, err := getList(a.reader, "University ids", a.out)
	if err != nil {
		return err
	}

	universities := make([]int64, 0, len(uniArgs))
	for _, s := range uniArgs {
		id, err := ParseID(s)
		if err != nil {
			return err
		}
		universities = append(universities, id)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	pictures := make([]string, 0, len(files))
	for _, f := range files {
		key, err := a.uploadFile(ctx, api.UploadBoxPicture, f)
		if err != nil {
			return err
		}
		pictures = append(pictures, key)
	}

	id, err := a.client.PostBox(ctx, &api.PostBoxRequest{
		Title:         title,
		Content:       content,
		Contact:       contact,
		Pictures:      pictures,
		UniversityIDs: universities,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Posted box #%d\n", id)
	return nil
}

// Picture downloads a stored picture into a local file.
func (a *App) Picture(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: picture <key> <file>")
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.client.PresignDownload(ctx, args[0])
	if err != nil {
		return err
	}
	b, err := getPresigned(ctx, p.URL)
	if err != nil {
		return err
	}
	if err := writeFile(args[1], b, 0o600); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", args[1], len(b))
	return nil
}

// uploadFile sends a local file to object storage and returns its key.
func (a *App) uploadFile(ctx context.Context, kind, path string) (string, error) {
	b, err := readFile(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	p, err := a.client.PresignUpload(ctx, kind)
	if err != nil {
		return "", err
	}
	if err := putPresigned(ctx, p.URL, b, ""); err != nil {
		return "", err
	}
	return p.Key, nil
}

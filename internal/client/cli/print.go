package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/api"
)

var genders = map[int]string{0: "male", 1: "female"}

func printProfile(w io.Writer, p *api.Profile) {
	if p.PhoneNumber != "" {
		fmt.Fprintf(w, "#%d %s\n", p.UserID, p.PhoneNumber)
	} else {
		fmt.Fprintf(w, "#%d\n", p.UserID)
	}
	if p.Nickname != "" {
		fmt.Fprintf(w, "  nickname:   %s\n", p.Nickname)
	}
	fmt.Fprintf(w, "  gender:     %s\n", genders[p.Gender])
	if p.University != nil {
		fmt.Fprintf(w, "  university: %s\n", *p.University)
	}
	if p.Signature != "" {
		fmt.Fprintf(w, "  signature:  %s\n", p.Signature)
	}
	if p.AvatarURL != "" {
		fmt.Fprintf(w, "  avatar:     %s\n", p.AvatarURL)
	}
	if p.BackgroundURL != "" {
		fmt.Fprintf(w, "  background: %s\n", p.BackgroundURL)
	}
}

func printBox(w io.Writer, b *api.BoxDetails) {
	fmt.Fprintf(w, "Box #%d by user %d, %s\n", b.BoxID, b.UserID, b.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "  %s\n", b.Title)
	if b.Content != "" {
		for _, line := range strings.Split(b.Content, "\n") {
			fmt.Fprintf(w, "  | %s\n", line)
		}
	}
	if b.Contact != "" {
		fmt.Fprintf(w, "  contact:      %s\n", b.Contact)
	}
	if len(b.UniversityList) > 0 {
		fmt.Fprintf(w, "  universities: %s\n", strings.Join(b.UniversityList, ", "))
	}
	for _, key := range b.PictureList {
		fmt.Fprintf(w, "  picture:      %s\n", key)
	}
}

func printViewed(w io.Writer, v *api.ViewedBox) {
	fmt.Fprintf(w, "%s  #%-6d %s\n", v.ViewedAt.Local().Format(time.DateTime), v.BoxID, v.Title)
}

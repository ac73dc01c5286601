package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/api"
	"github.com/dmitrijs2005/campuswall/internal/client/client"
	"github.com/dmitrijs2005/campuswall/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer

	mu      sync.Mutex
	mode    Mode
	profile *api.Profile
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewCampusWallClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, cl client.Client, r *bufio.Reader, w io.Writer) *App {
	return &App{config: c, client: cl, reader: r, out: w}
}

// Run reads commands from stdin until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	fmt.Fprintln(a.out, "Welcome to CampusWall CLI (type 'help' for commands)")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// withTimeout bounds one command's RPCs by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "\nSwitched to %s mode\n", mode)
	}
}

func (a *App) setProfile(p *api.Profile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profile = p
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.profile != nil && a.client.LoggedIn() {
		s = a.profile.PhoneNumber + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the server every interval and updates the
// mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.client.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

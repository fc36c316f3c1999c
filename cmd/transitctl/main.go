// transitctl exercises the transit client SDK from the command line: it
// keeps a credential record between invocations exactly the way the mobile
// client does, and can launch the development mock API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mediride/transit-client/internal/core/domain"
	"github.com/mediride/transit-client/internal/core/ports"
	"github.com/mediride/transit-client/internal/core/service"
	"github.com/mediride/transit-client/internal/devserver"
	"github.com/mediride/transit-client/internal/infrastructure/api"
	redisdb "github.com/mediride/transit-client/internal/infrastructure/db/redis"
	"github.com/mediride/transit-client/internal/infrastructure/keychain"
	"github.com/mediride/transit-client/internal/pkg/config"
	"github.com/mediride/transit-client/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:]); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: transitctl <command> [flags]

commands:
  login      -email -password      authenticate and persist the session
  register   -name -email -password [-role user|rider] [-phone]
  logout                           clear the session locally and server-side
  whoami                           print the stored session
  rides      list | request -pickup -dropoff
  history                          print the trip history
  devserver                        run the development mock API`)
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, command string, args []string) error {
	if command == "devserver" {
		return runDevServer(ctx, cfg, log)
	}

	app, err := wire(ctx, cfg, log)
	if err != nil {
		return err
	}

	switch command {
	case "login":
		return app.login(ctx, args)
	case "register":
		return app.register(ctx, args)
	case "logout":
		app.session.LoadFromStorage(ctx)
		app.session.Logout(ctx)
		fmt.Println("logged out")
		return nil
	case "whoami":
		return app.whoami(ctx)
	case "rides":
		return app.rides(ctx, args)
	case "history":
		return app.history(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// app holds the wired client-side dependency graph: key-value backend →
// keychain → pipeline → session.
type app struct {
	session *service.Session
	users   *api.Users
	rideAPI *api.Rides
	hist    *api.History
}

func wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	kv, err := buildKV(ctx, cfg)
	if err != nil {
		return nil, err
	}

	creds := keychain.New(kv, log)
	client := api.New(cfg.APIBaseURL, cfg.APITimeout, creds, log)

	users := api.NewUsers(client)
	session := service.NewSession(users, creds, log)
	client.SetUnauthorizedHandler(session.Invalidate)

	return &app{
		session: session,
		users:   users,
		rideAPI: api.NewRides(client),
		hist:    api.NewHistory(client),
	}, nil
}

func buildKV(ctx context.Context, cfg *config.Config) (ports.KeyValueStore, error) {
	switch cfg.Storage.Backend {
	case "file", "":
		return keychain.NewFileStore(cfg.Storage.Path), nil
	case "redis":
		return redisdb.Connect(ctx, redisdb.Config{
			Addr:      cfg.Redis.Addr,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	a.session.LoadFromStorage(ctx)
	if err := a.session.Login(ctx, *email, *password); err != nil {
		return err
	}
	return printJSON(a.session.User())
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (min 6 chars)")
	role := fs.String("role", "user", "account role: user or rider")
	phone := fs.String("phone", "", "phone number")
	_ = fs.Parse(args)

	a.session.LoadFromStorage(ctx)
	err := a.session.Register(ctx, domain.RegisterInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     domain.Role(*role),
		Phone:    *phone,
	})
	if err != nil {
		return err
	}
	return printJSON(a.session.User())
}

func (a *app) whoami(ctx context.Context) error {
	a.session.LoadFromStorage(ctx)
	if !a.session.IsAuthenticated() {
		fmt.Println("not logged in")
		return nil
	}
	return printJSON(a.session.User())
}

func (a *app) rides(ctx context.Context, args []string) error {
	a.session.LoadFromStorage(ctx)
	if !a.session.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}

	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	switch sub {
	case "list":
		rides, err := a.rideAPI.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(rides)
	case "request":
		fs := flag.NewFlagSet("rides request", flag.ExitOnError)
		pickup := fs.String("pickup", "", "pickup address")
		dropoff := fs.String("dropoff", "", "dropoff address")
		_ = fs.Parse(args)

		ride, err := a.rideAPI.Request(ctx, domain.RideRequest{
			Pickup:  domain.Location{Address: *pickup},
			Dropoff: domain.Location{Address: *dropoff},
		})
		if err != nil {
			return err
		}
		return printJSON(ride)
	default:
		return fmt.Errorf("unknown rides subcommand %q", sub)
	}
}

func (a *app) history(ctx context.Context) error {
	a.session.LoadFromStorage(ctx)
	if !a.session.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}

	entries, err := a.hist.List(ctx)
	if err != nil {
		return err
	}
	return printJSON(entries)
}

func runDevServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	srv := devserver.New(cfg.DevServer, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

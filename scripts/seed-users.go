package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/boardkit/boardkit/internal/auth"
	"github.com/boardkit/boardkit/internal/metrics"
	"github.com/boardkit/boardkit/internal/repository"
	"github.com/boardkit/boardkit/internal/service"
)

type seedResult struct {
	Login  string `json:"login"`
	UserID string `json:"_id,omitempty"`
	Token  string `json:"token,omitempty"`
	Status string `json:"status"`
}

type credential struct {
	login    string
	password string
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		jwtSecret   = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "Secret used to sign the printed tokens")
		usersInput  = flag.String("users", "", "Comma-separated login:password pairs")
		migrate     = flag.Bool("migrate", true, "Apply migrations before seeding")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *jwtSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}

	creds, err := parseCredentials(*usersInput)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if *migrate {
		if err := repo.Migrate(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
	}

	svc, err := service.NewAuthService(
		repo,
		auth.NewHasher(auth.DefaultArgon2Params()),
		auth.NewTokenCodec([]byte(*jwtSecret), 0),
		metrics.NewNoop(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init auth service:", err)
		os.Exit(1)
	}

	results := make([]seedResult, 0, len(creds))
	for _, c := range creds {
		results = append(results, seedOne(ctx, svc, c))
	}

	switch strings.ToLower(*format) {
	case "plain":
		for _, r := range results {
			fmt.Printf("%s\t%s\t%s\t%s\n", r.Status, r.Login, r.UserID, r.Token)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(results)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// seedOne signs a user up, or logs in when the login already exists
// so reruns print fresh tokens.
func seedOne(ctx context.Context, svc *service.AuthService, c credential) seedResult {
	res, err := svc.SignUp(ctx, service.SignUpInput{Login: c.login, Password: c.password})
	if err == nil {
		return seedResult{Login: c.login, UserID: res.User.ID, Token: res.Token, Status: "created"}
	}
	if !errors.Is(err, service.ErrLoginRegistered) {
		return seedResult{Login: c.login, Status: "error: " + err.Error()}
	}

	res, err = svc.Login(ctx, service.LoginInput{Login: c.login, Password: c.password})
	if err != nil {
		return seedResult{Login: c.login, Status: "exists"}
	}
	return seedResult{Login: c.login, UserID: res.User.ID, Token: res.Token, Status: "exists"}
}

func parseCredentials(input string) ([]credential, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.New("-users is required, e.g. -users alice:secret,bob:hunter2")
	}
	parts := strings.Split(input, ",")
	creds := make([]credential, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		login, password, ok := strings.Cut(part, ":")
		if !ok || login == "" || password == "" {
			return nil, fmt.Errorf("invalid user %q; want login:password", part)
		}
		creds = append(creds, credential{login: login, password: password})
	}
	if len(creds) == 0 {
		return nil, errors.New("no users given")
	}
	return creds, nil
}

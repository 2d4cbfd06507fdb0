//go:build integration

package integration

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// externalDBEnv points the suite at an existing database instead of a container.
const externalDBEnv = "OPTICA_TEST_DATABASE_URL"

// startPostgres returns a connection string for the test database and a
// cleanup function. Without OPTICA_TEST_DATABASE_URL it runs a throwaway
// postgres:16-alpine container on a loopback port chosen by Docker.
func startPostgres(ctx context.Context) (string, func(), error) {
	if url := os.Getenv(externalDBEnv); url != "" {
		if err := waitForPostgres(ctx, url, 10*time.Second); err != nil {
			return "", nil, fmt.Errorf("%s: %w", externalDBEnv, err)
		}
		return url, func() {}, nil
	}

	out, err := exec.CommandContext(ctx, "docker", "run", "-d", "--rm",
		"--label", "optica.integration=true",
		"--tmpfs", "/var/lib/postgresql/data",
		"-p", "127.0.0.1::5432",
		"-e", "POSTGRES_USER=optica",
		"-e", "POSTGRES_PASSWORD=optica",
		"-e", "POSTGRES_DB=opticatest",
		"postgres:16-alpine",
		"-c", "fsync=off", "-c", "synchronous_commit=off",
	).CombinedOutput()
	if err != nil {
		return "", nil, fmt.Errorf("docker run: %w: %s", err, out)
	}
	id := strings.TrimSpace(string(out))
	stop := func() { exec.Command("docker", "stop", id).Run() }

	hostPort, err := publishedPort(ctx, id)
	if err != nil {
		stop()
		return "", nil, err
	}

	url := fmt.Sprintf("postgres://optica:optica@%s/opticatest?sslmode=disable", hostPort)
	if err := waitForPostgres(ctx, url, 30*time.Second); err != nil {
		stop()
		return "", nil, err
	}
	return url, stop, nil
}

// publishedPort asks Docker which host address it bound to the container's 5432.
func publishedPort(ctx context.Context, id string) (string, error) {
	out, err := exec.CommandContext(ctx, "docker", "port", id, "5432/tcp").Output()
	if err != nil {
		return "", fmt.Errorf("docker port %s: %w", id, err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	host, port, err := net.SplitHostPort(strings.TrimSpace(line))
	if err != nil {
		return "", fmt.Errorf("parse published port %q: %w", line, err)
	}
	return net.JoinHostPort(host, port), nil
}

// waitForPostgres polls until the server accepts connections and can run
// gen_random_uuid, which the migrations use for primary keys.
func waitForPostgres(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for {
		conn, err := pgx.Connect(ctx, url)
		if err == nil {
			var id string
			err = conn.QueryRow(ctx, "SELECT gen_random_uuid()::text").Scan(&id)
			conn.Close(context.Background())
			if err == nil {
				return nil
			}
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("postgres not ready after %v: %w", timeout, lastErr)
		case <-time.After(250 * time.Millisecond):
		}
	}
}

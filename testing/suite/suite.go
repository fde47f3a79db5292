package suite

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	expireDuration  = 120
	maxWaitDuration = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"

	natsPort  = "4222/tcp"
	natsImage = "nats"
	natsTag   = "2.10-alpine"
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
	Broker  *nats.Conn
}

// New starts a throwaway redis container for the score store tests.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, pool, resource := runContainer(t, redisImage, redisTag)

	var client *redis.Client
	if err := pool.Retry(func() error {
		client = redis.NewClient(&redis.Options{
			Addr: resource.GetHostPort(redisPort),
		})
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = pool.Purge(resource)
		t.Fatalf("could not connect to redis: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
		purge(t, pool, resource)
	})

	return ctx, &Suite{
		T:       t,
		Logger:  NewLogger(),
		Storage: client,
	}
}

// NewBroker starts a throwaway nats server for the publisher tests.
func NewBroker(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, pool, resource := runContainer(t, natsImage, natsTag)

	var conn *nats.Conn
	if err := pool.Retry(func() error {
		var err error
		conn, err = nats.Connect("nats://" + resource.GetHostPort(natsPort))
		return err
	}); err != nil {
		_ = pool.Purge(resource)
		t.Fatalf("could not connect to nats: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		purge(t, pool, resource)
	})

	return ctx, &Suite{
		T:      t,
		Logger: NewLogger(),
		Broker: conn,
	}
}

// NewLogger returns a logger that drops everything, for tests that need one.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func runContainer(t *testing.T, image, tag string) (context.Context, *dockertest.Pool, *dockertest.Resource) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: image,
		Tag:        tag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start %s: %v", image, err)
	}

	// never returns error
	_ = resource.Expire(expireDuration) // hard kill the container after 120 seconds

	pool.MaxWait = maxWaitDuration

	return ctx, pool, resource
}

func purge(t *testing.T, pool *dockertest.Pool, resource *dockertest.Resource) {
	if err := pool.Purge(resource); err != nil {
		t.Errorf("could not purge resource: %v", err)
	}
}

// Command tunectl reads, writes and watches the entries of the tunables store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/docopt/docopt-go"
	"golang.org/x/term"

	"github.com/neuronlabs/tunables/config"
	"github.com/neuronlabs/tunables/log"
	"github.com/neuronlabs/tunables/store"
	"github.com/neuronlabs/tunables/store/network"
)

const version = "0.1.0"

const usage = `Tunables store control.

The default url is taken from the config 'store.url' (ws://localhost:5810/nt).

Usage:
    tunectl get [--url=<url>] [--token=<token>] <key>
    tunectl set [--url=<url>] [--token=<token>] [--type=<type>] <key> <value>
    tunectl list [--url=<url>] [--token=<token>] [<prefix>]
    tunectl watch [--url=<url>] [--token=<token>] [<prefix>]
    tunectl token [--secret=<secret>] [--ttl=<ttl>] <subject>
    tunectl -h | --help
    tunectl --version

Options:
    -h --help          Show this screen.
    --version          Show version.
    --url=<url>        Store server websocket url.
    --token=<token>    Bearer token.
    --type=<type>      Value type: boolean, integer, double, string, raw, boolean[], integer[], double[], string[].
                       By default the type of the existing entry, or string.
    --secret=<secret>  Token secret. Read from the terminal if not provided.
    --ttl=<ttl>        Token time to live i.e. '24h'. Zero means no expiration [default: 0].`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		panic(err)
	}
	log.Default()
	_ = log.SetLevel(log.LWARNING)

	if token_, _ := opts.Bool("token"); token_ {
		err = token(opts)
	} else {
		err = withClient(opts, func(ctx context.Context, c *network.Client) error {
			if get_, _ := opts.Bool("get"); get_ {
				return get(ctx, c, opts)
			} else if set_, _ := opts.Bool("set"); set_ {
				return set(ctx, c, opts)
			} else if list_, _ := opts.Bool("list"); list_ {
				return list(ctx, c, opts)
			}
			return watch(ctx, c, opts)
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func withClient(opts docopt.Opts, fn func(ctx context.Context, c *network.Client) error) error {
	url, _ := opts.String("--url")
	if url == "" {
		cfg, err := config.ReadConfig()
		if err != nil {
			cfg = config.ReadDefaultConfig()
		}
		url = cfg.Store.URL
	}
	tokenString, _ := opts.String("--token")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	c, err := network.Dial(dialCtx, url, network.WithToken(tokenString))
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func get(ctx context.Context, c *network.Client, opts docopt.Opts) error {
	key, _ := opts.String("<key>")
	e, ok := c.Mirror().Lookup(key)
	if !ok {
		entries, err := c.Mirror().Find(ctx)
		if err != nil {
			return err
		}
		keys := make([]string, len(entries))
		for i, entry := range entries {
			keys[i] = entry.Key()
		}
		if similar := suggest(key, keys, 3); len(similar) > 0 {
			return fmt.Errorf("entry: '%s' not found, did you mean: %s", key, strings.Join(similar, ", "))
		}
		return fmt.Errorf("entry: '%s' not found", key)
	}
	v, ok := e.Get()
	if !ok {
		return fmt.Errorf("entry: '%s' is not set", key)
	}
	fmt.Fprintln(os.Stdout, formatEntry(key, v))
	return nil
}

func set(ctx context.Context, c *network.Client, opts docopt.Opts) error {
	key, _ := opts.String("<key>")
	raw, _ := opts.String("<value>")

	t := store.TypeString
	if e, ok := c.Mirror().Lookup(key); ok {
		if v, ok := e.Get(); ok {
			t = v.Type()
		}
	}
	if typeName, _ := opts.String("--type"); typeName != "" {
		var ok bool
		if t, ok = store.ParseValueType(typeName); !ok {
			return fmt.Errorf("unknown value type: '%s'", typeName)
		}
	}
	v, err := store.ParseValue(t, raw)
	if err != nil {
		return err
	}
	e, err := c.GetEntry(ctx, key)
	if err != nil {
		return err
	}
	// pending messages are flushed on close
	return e.Set(v)
}

func list(ctx context.Context, c *network.Client, opts docopt.Opts) error {
	prefix, _ := opts.String("<prefix>")
	entries, err := c.Mirror().Find(ctx, store.WithFindPrefix(prefix))
	if err != nil {
		return err
	}
	for _, e := range entries {
		v, ok := e.Get()
		if !ok {
			continue
		}
		fmt.Fprintln(os.Stdout, formatEntry(e.Key(), v))
	}
	return nil
}

func watch(ctx context.Context, c *network.Client, opts docopt.Opts) error {
	prefix, _ := opts.String("<prefix>")
	sub, err := c.Mirror().Listen(prefix, store.NotifyImmediate|store.NotifyNew|store.NotifyUpdate|store.NotifyDelete, func(n store.Notification) {
		fmt.Fprintln(os.Stdout, formatNotification(n))
	})
	if err != nil {
		return err
	}
	defer sub.Cancel()

	select {
	case <-ctx.Done():
		return nil
	case <-c.Done():
		return c.Err()
	}
}

func token(opts docopt.Opts) error {
	secret, _ := opts.String("--secret")
	if secret == "" {
		fmt.Fprint(os.Stderr, "Enter token secret: ")
		secretBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}
		secret = string(secretBytes)
	}
	subject, _ := opts.String("<subject>")
	ttlString, _ := opts.String("--ttl")
	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return err
	}
	t, err := network.NewToken(secret, subject, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, t)
	return nil
}

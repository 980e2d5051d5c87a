package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/reddec/sail-ssl-proxy/internal"
	"go.uber.org/zap"
)

const (
	version       = "dev"
	defaultPrefix = "ssl-proxy"
)

//nolint:gochecknoglobals
var (
	global  context.Context // global context for main package only!
	options struct {
		Verbose bool `long:"verbose" short:"v" env:"SSL_PROXY_VERBOSE" description:"Enable debug logs"`
	}
)

func main() {
	if err := godotenv.Load(internal.DotEnv); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}

	parser := flags.NewParser(&options, flags.HelpFlag|flags.PassDoubleDash)
	parser.LongDescription = "Local SSL proxy for Laravel Sail projects\nVersion: " + version

	prefix := os.Getenv("SSL_PROXY_COMMAND_PREFIX")
	if prefix == "" {
		prefix = defaultPrefix
	}
	commands := []struct {
		name        string
		description string
		data        interface{}
	}{
		{"install", "(default) install the SSL proxy service into the project", &CommandInstall{}},
		{"serve", "serve the on-demand TLS authorization endpoint", &CommandServe{}},
		{"env", "store IP of the running proxy container in the project .env file", &CommandEnv{}},
	}
	for _, c := range commands {
		cmd, err := parser.AddCommand(c.name, c.description, "", c.data)
		if err != nil {
			fmt.Fprintln(os.Stderr, "register command:", err)
			os.Exit(1)
		}
		cmd.Aliases = append(cmd.Aliases, prefix+":"+c.name)
	}

	ctx, closer := signal.NotifyContext(context.Background(), os.Interrupt)
	global = ctx

	args := os.Args[1:]
	_, err := parser.ParseArgs(args)

	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && isMissingCommand(flagsErr.Type) {
		args = append([]string{"install"}, args...)
		_, err = parser.ParseArgs(args)
	}
	closer()

	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		fmt.Fprintln(os.Stdout, err)
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func isMissingCommand(kind flags.ErrorType) bool {
	return kind == flags.ErrCommandRequired || kind == flags.ErrUnknownCommand || kind == flags.ErrUnknownFlag
}

func newLogger() *zap.Logger {
	logger, err := internal.NewLogger(options.Verbose)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

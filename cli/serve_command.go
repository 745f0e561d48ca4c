package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"clickupai/api"
	"clickupai/common"
	"clickupai/telemetry"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web analyzer",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (default $CLICKUPAI_SERVER_PORT or 8866)"},
			&cli.StringFlag{Name: "host", Usage: "Host to bind (default $CLICKUPAI_SERVER_HOST or 127.0.0.1)"},
			&cli.BoolFlag{Name: "open", Usage: "Open the analyzer in the default browser"},
		},
		Action: handleServeCommand,
	}
}

func serveAddr(cmd *cli.Command) (addr, browseURL string) {
	host := common.GetServerHost()
	if cmd.IsSet("host") {
		host = cmd.String("host")
	}
	port := common.GetServerPort()
	if cmd.IsSet("port") {
		port = int(cmd.Int("port"))
	}
	browseHost := host
	if host == "0.0.0.0" || host == "" {
		browseHost = "localhost"
	}
	return fmt.Sprintf("%s:%d", host, port), fmt.Sprintf("http://%s:%d", browseHost, port)
}

// exportServeFlags writes --host and --port to the environment, where the
// server derives its default origin allowlist.
func exportServeFlags(cmd *cli.Command) {
	if cmd.IsSet("host") {
		os.Setenv("CLICKUPAI_SERVER_HOST", cmd.String("host"))
	}
	if cmd.IsSet("port") {
		os.Setenv("CLICKUPAI_SERVER_PORT", fmt.Sprint(cmd.Int("port")))
	}
}

func handleServeCommand(ctx context.Context, cmd *cli.Command) error {
	addr, browseURL := serveAddr(cmd)
	exportServeFlags(cmd)

	shutdownTracer, err := telemetry.InitTracer(telemetry.ServiceName)
	if err != nil {
		log.Warn().Err(err).Msg("Tracing disabled")
	}

	srv, err := api.RunServer(addr)
	if err != nil {
		return err
	}
	fmt.Printf("✔ ClickUp analyzer is running. Go to %s\n", browseURL)

	if cmd.Bool("open") {
		if err := openURL(browseURL); err != nil {
			log.Warn().Err(err).Msg("Failed to open browser")
		}
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if shutdownTracer != nil {
		shutdownTracer(shutdownCtx)
	}
	return nil
}

// openURL opens the specified URL in the default browser of the user.
func openURL(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", "", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default:
		if isWSL() {
			cmd = "cmd.exe"
			args = []string{"/c", "start", "", url}
		} else {
			cmd = "xdg-open"
			args = []string{url}
		}
	}
	return exec.Command(cmd, args...).Start()
}

// isWSL checks if the Go program is running inside Windows Subsystem for Linux
func isWSL() bool {
	releaseData, err := exec.Command("uname", "-r").Output()
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(releaseData)), "microsoft")
}

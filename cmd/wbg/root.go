package main

import (
	"errors"
	"os"

	wl "deedles.dev/wbg/client"
	"deedles.dev/wbg/internal/config"
	"deedles.dev/wbg/internal/logger"
	"deedles.dev/wbg/internal/sigfd"
	"deedles.dev/wbg/internal/wallpaper"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"
)

// errLogged marks an error that was reported where it happened.
var errLogged = errors.New("failed")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wbg [#RRGGBB]",
		Short: "Wayland background",
		Long: `wbg sets the background of every output to a solid color, or to an
image scaled to each output. The color defaults to black.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		RunE:          run,
	}
	cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	flags := cmd.Flags()
	flags.StringP("image", "i", config.DefaultConfig.Image, "render the image at `path` instead of a solid color")
	flags.StringP("mode", "m", config.DefaultConfig.Mode, "image scaling mode: stretch, fill, fit, center or tile")
	flags.String("log-level", config.DefaultConfig.LogLevel, "log level: debug, info, warn or error")
	flags.String("config", "", "read configuration from `path`")

	return cmd
}

// Execute runs the root command. Errors have already been logged by
// the time it returns.
func Execute() error {
	err := newRootCmd().Execute()
	if (err != nil) && !errors.Is(err, errLogged) {
		logger.Logger.Error(err)
	}
	return err
}

// load resolves the configuration for one invocation. Only flags that
// were actually given override the environment and the config file.
func load(cmd *cobra.Command, args []string) (config.Config, error) {
	v := viper.New()

	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"image":     "image",
		"mode":      "mode",
		"log_level": "log-level",
	} {
		if flags.Changed(flag) {
			val, _ := flags.GetString(flag)
			v.Set(key, val)
		}
	}
	if len(args) > 0 {
		v.Set("color", args[0])
	}

	path, _ := flags.GetString("config")
	return config.Load(v, path)
}

func applyLogLevel(c config.Config) {
	if !logger.SetLevel(c.LogLevel) {
		logger.Logger.Warn("unknown log level", "level", c.LogLevel)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := logger.Logger

	c, err := load(cmd, args)
	if err != nil {
		return err
	}
	applyLogLevel(c)

	log.Infof("%v v%v", os.Args[0], Version)

	source, err := c.Source(func(err error) { log.Error(err) })
	if err != nil {
		return err
	}

	sigs, err := sigfd.New(unix.SIGINT, unix.SIGQUIT)
	if err != nil {
		return err
	}
	defer sigs.Close()

	client, err := wl.Dial()
	if err != nil {
		log.Error("failed to connect to wayland; no compositor running?", "err", err)
		return errLogged
	}

	app := wallpaper.New(client, source, log)
	defer func() {
		if err := app.Close(); err != nil {
			log.Debug("close", "err", err)
		}
	}()

	err = app.Setup()
	if err != nil {
		return err
	}

	return app.Run(sigs)
}

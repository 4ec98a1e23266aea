package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harborline/harborline/internal/server"
	"github.com/harborline/harborline/internal/version"
)

const envPrefix = "HARBORLINE"

var rootCmd = &cobra.Command{
	Use:     "harborline",
	Short:   "Harborline web server",
	Version: version.Short(),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		s, err := server.New(config)
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true
		defer slog.Info("Bye!")
		return s.Start(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("bind", "b", server.DefaultAddr, "Address to bind the server")
	rootCmd.Flags().StringP("db", "d", "data/harborline.db", "Path to the sqlite database")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a config file")
}

func main() {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()

	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:   slog.LevelDebug,
		NoColor: !isatty.IsTerminal(os.Stdout.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*server.Config, error) {
	v := viper.New()

	v.SetDefault("http.addr", server.DefaultAddr)
	v.SetDefault("http.cert_file", "")
	v.SetDefault("http.key_file", "")
	v.SetDefault("http.max_upload_size", server.DefaultMaxUploadSize)
	v.SetDefault("db_path", "data/harborline.db")
	v.SetDefault("contact.rate_limit", server.DefaultContactRate)
	v.SetDefault("media.cleanup_policy", "")
	v.SetDefault("media.cleanup_queue_size", 0)
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.sendgrid_api_key", "")
	v.SetDefault("email.from_name", "")
	v.SetDefault("email.from_email", "")
	v.SetDefault("email.notify_email", "")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.token_issuer", "")
	v.SetDefault("auth.token_secret", "")

	if err := v.BindPFlag("http.addr", cmd.Flags().Lookup("bind")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("db_path", cmd.Flags().Lookup("db")); err != nil {
		return nil, err
	}

	// HARBORLINE_HTTP_ADDR overrides http.addr and so on
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		v.SetConfigFile(configFilePath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("harborline")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// no config file is fine, env and flags carry the config
	}

	var config server.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &config, nil
}

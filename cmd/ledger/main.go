// Command ledger is a terminal client for the ledger API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ledger/internal/client"
	"ledger/internal/logger"
	"ledger/internal/models"
)

// app carries the configuration shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "ledger",
		Short: "Track income and expenses against a ledger API",
		Long: `ledger lists, records, edits and deletes transactions held by a ledger API
server and shows the running balance.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/ledger/config.yaml)")
	flags.String("api-url", "http://localhost:3000", "base URL of the ledger API")
	flags.Duration("timeout", 10*time.Second, "per-request timeout")
	flags.String("vocabulary", models.VocabularyReceita.Name, "type vocabulary ("+strings.Join(models.VocabularyNames(), ", ")+")")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = a.v.BindPFlag("api_timeout", flags.Lookup("timeout"))
	_ = a.v.BindPFlag("type_vocabulary", flags.Lookup("vocabulary"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		a.listCmd(),
		a.showCmd(),
		a.addCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.balanceCmd(),
		a.categoryCmd(),
		a.typeCmd(),
		a.tuiCmd(),
	)
	return root
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "ledger"))
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("LEDGER")
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger.Init("cli")
	if err := logger.SetLevel(a.v.GetString("log_level")); err != nil {
		return err
	}
	logger.Get().Debugw("configuration loaded",
		"config_file", a.v.ConfigFileUsed(),
		"api_url", a.v.GetString("api_url"),
	)
	return nil
}

func (a *app) client() *client.Client {
	return client.New(a.v.GetString("api_url"), &http.Client{Timeout: a.v.GetDuration("api_timeout")})
}

func (a *app) vocabulary() (models.TypeVocabulary, error) {
	return models.LookupVocabulary(a.v.GetString("type_vocabulary"))
}

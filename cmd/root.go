package cmd

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/byxorna/shelf/pkg/model"
	"github.com/byxorna/shelf/pkg/page"
	"github.com/byxorna/shelf/pkg/types/v1"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	ConfigFile string
	Page       string
	Debug      bool
	Ephemeral  bool
	PprofPort  int
}

// NewRootCommand builds the shelf command tree. Each call returns an
// independent tree with its own flag values.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "shelf",
		Short:        "Shelf is a terminal book catalog with favorites",
		Args:         cobra.MaximumNArgs(0),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := page.ParseTarget(opts.Page)
			if opts.Page == "" {
				target = page.Target(-1)
			}
			return runUI(cmd.Context(), opts, target, "")
		},
	}

	root.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "~/.shelf.yaml", "configuration file")
	root.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "write a debug log to the cache directory")
	root.PersistentFlags().BoolVar(&opts.Ephemeral, "ephemeral", false, "keep favorites in memory only")
	root.PersistentFlags().IntVar(&opts.PprofPort, "pprof", 0, "serve pprof on this localhost port")
	root.Flags().StringVar(&opts.Page, "page", "", "start page: catalog or favorites (default from config)")

	root.AddCommand(newDetailCommand(opts))
	root.AddCommand(newFavoritesCommand(opts))
	return root
}

func newDetailCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "detail <isbn>",
		Short: "Open the detail page of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), opts, page.DetailTarget, v1.ID(args[0]))
		},
	}
}

// runUI starts the program on target. A negative target means the start page
// from the config file.
func runUI(ctx context.Context, opts *options, target page.Target, id v1.ID) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	env, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	if opts.PprofPort > 0 {
		addr := fmt.Sprintf("localhost:%d", opts.PprofPort)
		env.logger.Info("listening for pprof", zap.String("addr", addr))
		go func() {
			if err := http.ListenAndServe(addr, nil); err != nil {
				env.logger.Warn("pprof listener stopped", zap.Error(err))
			}
		}()
	}

	if target < 0 {
		target = page.ParseTarget(env.config.StartPage)
	}
	uiOpts := model.Options{
		Deps:      env.deps(ctx),
		StartPage: target,
		StartID:   id,
	}
	if env.config.Storage.Watch {
		// one pending change is enough: the page rereads the whole set
		changes := make(chan struct{}, 1)
		stop, err := env.watch(ctx, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
		if err != nil {
			env.logger.Warn("not watching favorites", zap.Error(err))
		}
		defer func() {
			stop()
			close(changes)
		}()
		uiOpts.Changes = changes
	}
	p := tea.NewProgram(model.New(uiOpts), tea.WithAltScreen())

	env.logger.Info("starting", zap.Stringer("page", target), zap.String("catalog", env.config.Catalog.URL))
	return p.Start()
}

func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

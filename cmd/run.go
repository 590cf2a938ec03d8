package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/shiroyk/domevent/api"
	"github.com/shiroyk/domevent/config"
	"github.com/shiroyk/domevent/dom"
	"github.com/spf13/cobra"
)

// ErrInvalidFire invalid --fire value error
var ErrInvalidFire = errors.New(`fire must be formatted as "selector:type"`)

var (
	htmlPath   string
	outputPath string
	fireArgs   []string
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "run a script against a document and print the registered events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		timeout := cfg.API.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTimeout
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return run(ctx, runOptions{
			Script: args[0],
			HTML:   htmlPath,
			Fire:   fireArgs,
			Output: outputPath,
			Logger: slog.Default(),
		}, cmd.OutOrStdout())
	},
}

type runOptions struct {
	Script string
	HTML   string
	Fire   []string
	Output string
	Logger *slog.Logger
}

// fire a native event to the elements matching the selector
type fire struct {
	selector, typ string
}

func parseFire(str string) (fire, error) {
	i := strings.LastIndexByte(str, ':')
	if i <= 0 || i == len(str)-1 {
		return fire{}, fmt.Errorf("%w: %q", ErrInvalidFire, str)
	}
	return fire{selector: str[:i], typ: str[i+1:]}, nil
}

func run(ctx context.Context, opt runOptions, stdout io.Writer) error {
	fires := make([]fire, 0, len(opt.Fire))
	for _, str := range opt.Fire {
		f, err := parseFire(str)
		if err != nil {
			return err
		}
		fires = append(fires, f)
	}

	script, err := os.ReadFile(opt.Script)
	if err != nil {
		return err
	}

	session, err := newSession(ctx, opt.HTML, opt.Logger)
	if err != nil {
		return err
	}
	if _, err = session.VM.RunString(ctx, string(script)); err != nil {
		return err
	}
	if err = dispatch(ctx, session, fires, opt.Logger); err != nil {
		return err
	}

	snapshot := session.Registry.Snapshot()
	data := make([]any, len(snapshot))
	for i, entry := range snapshot {
		data[i] = entry.Map()
	}
	output := oj.JSON(data, &ojg.Options{Indent: 2, Sort: true})

	if opt.Output == "" {
		_, err = fmt.Fprintln(stdout, output)
		return err
	}
	if filepath.Ext(opt.Output) == "" {
		opt.Output += ".json"
	}
	return os.WriteFile(opt.Output, []byte(output), 0o644)
}

func dispatch(ctx context.Context, session *api.Session, fires []fire, logger *slog.Logger) error {
	start := time.Now()
	return session.VM.Run(ctx, func() error {
		for _, f := range fires {
			elements := session.Document.Select(dom.Selector(f.selector))
			if len(elements) == 0 {
				logger.Warn("no element matched", "selector", f.selector)
				continue
			}
			for _, el := range elements {
				ok := session.Document.Dispatch(el, dom.NewEvent(f.typ, dom.EventInit{Bubbles: true, Cancelable: true}))
				logger.Debug("dispatched", "element", el.String(), "type", f.typ,
					"defaultPrevented", !ok, "elapsed", time.Since(start))
			}
		}
		return nil
	})
}

func init() {
	runCmd.Flags().StringVar(&htmlPath, "html", "", "html file path, a blank page if empty")
	runCmd.Flags().StringArrayVarP(&fireArgs, "fire", "f", nil, `dispatch a native event after the script, "selector:type"`)
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(runCmd)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-go/reactor/pkg/host"
	"github.com/vango-go/reactor/pkg/reactor"
	"github.com/vango-go/reactor/pkg/render"
	"github.com/vango-go/reactor/pkg/vdom"
)

type runOptions struct {
	steps    []string
	jsonOut  bool
	showHIDs bool
	stats    bool
}

func runCmd(flags *globalFlags) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <lesson>",
		Short: "Mount a lesson, apply scripted steps and print the result",
		Long: `Mount a lesson, apply the --do steps in order and print the final tree.

Steps:
  click:<key>          click the element carrying key
  input:<key>=<value>  send an input event with value
  wait:<duration>      process dispatched work for the duration

With --json every commit is written to stdout as one JSON line instead.`,
		Example: `  reactor run counter --do click:inc3
  reactor run todo-keyed --do click:toggle-a --do click:remove-a
  reactor run user --do wait:500ms --do click:user-2 --do wait:500ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLesson(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, args[0], opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.steps, "do", nil, "Step to apply (repeatable)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Write each commit as a JSON line")
	cmd.Flags().BoolVar(&opts.showHIDs, "hids", false, "Print data-hid attributes")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print runtime counters after the run")
	return cmd
}

func runLesson(ctx context.Context, stdout, stderr io.Writer, flags *globalFlags, name string, opts *runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger, err := newLogger(stderr, cfg.Log)
	if err != nil {
		return err
	}
	lesson, err := lookupLesson(name)
	if err != nil {
		return err
	}
	steps, err := parseSteps(opts.steps)
	if err != nil {
		return err
	}

	rec := host.NewRingRecorder(1)
	commits, unsubscribe := rec.Subscribe(16)
	logged := make(chan struct{})
	go func() {
		defer close(logged)
		for c := range commits {
			logger.Debug("commit", "seq", c.Seq, "rendered", c.Rendered)
		}
	}()
	defer func() {
		unsubscribe()
		<-logged
	}()

	var sink reactor.Host = rec
	if opts.jsonOut {
		sink = host.Multi(host.NewJSONLines(stdout), rec)
	}
	root := reactor.NewRoot(sink,
		reactor.WithConfig(cfg.ReactorConfig()),
		reactor.WithLogger(logger),
		reactor.WithContext(ctx),
	)
	defer root.Close()

	if err := root.Mount(lesson.New()); err != nil {
		return fmt.Errorf("mount %s: %w", name, err)
	}
	for _, s := range steps {
		if err := s.apply(ctx, root); err != nil {
			return fmt.Errorf("step %s: %w", s, err)
		}
	}

	if !opts.jsonOut {
		r := render.NewRenderer(render.RendererConfig{Pretty: true, ShowHIDs: opts.showHIDs})
		out, err := r.RenderToString(root.Tree())
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, out)
		if !strings.HasSuffix(out, "\n") {
			fmt.Fprintln(stdout)
		}
	}
	if opts.stats {
		st := root.Stats()
		fmt.Fprintf(stderr, "commits=%d renders=%d effects=%d cleanups=%d mounted=%d\n",
			st.Commits, st.Renders, st.EffectRuns, st.Cleanups, st.Mounted)
	}
	return root.Err()
}

// step is one scripted action of the run command.
type step struct {
	kind  string
	key   string
	value string
	wait  time.Duration
}

func (s step) String() string {
	switch s.kind {
	case "input":
		return fmt.Sprintf("input:%s=%s", s.key, s.value)
	case "wait":
		return "wait:" + s.wait.String()
	}
	return s.kind + ":" + s.key
}

func parseSteps(raw []string) ([]step, error) {
	steps := make([]step, 0, len(raw))
	for _, r := range raw {
		kind, arg, ok := strings.Cut(r, ":")
		if !ok || arg == "" {
			return nil, fmt.Errorf("invalid step %q: want kind:argument", r)
		}
		s := step{kind: kind}
		switch kind {
		case "click":
			s.key = arg
		case "input":
			key, value, ok := strings.Cut(arg, "=")
			if !ok || key == "" {
				return nil, fmt.Errorf("invalid step %q: want input:key=value", r)
			}
			s.key, s.value = key, value
		case "wait":
			d, err := time.ParseDuration(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid step %q: %w", r, err)
			}
			s.wait = d
		default:
			return nil, fmt.Errorf("invalid step %q: unknown kind %q", r, kind)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func (s step) apply(ctx context.Context, root *reactor.Root) error {
	switch s.kind {
	case "wait":
		waitCtx, cancel := context.WithTimeout(ctx, s.wait)
		defer cancel()
		err := root.Run(waitCtx)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	case "input":
		return fire(root, s.key, vdom.Event{Type: "input", Value: s.value})
	default:
		return fire(root, s.key, vdom.Event{Type: "click"})
	}
}

func fire(root *reactor.Root, key string, evt vdom.Event) error {
	node := vdom.FindByKey(root.Tree(), key)
	if node == nil {
		return fmt.Errorf("no element with key %q", key)
	}
	if node.HID == "" {
		return fmt.Errorf("element with key %q has no handlers", key)
	}
	return root.Trigger(node.HID, evt)
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/oil/foundation/core/error"
	"github.com/msto63/oil/foundation/oil"
	"github.com/msto63/oil/internal/oild/service"
	"github.com/msto63/oil/internal/render"
	coregrpc "github.com/msto63/oil/pkg/core/grpc"
)

type parseOptions struct {
	start    int
	end      int
	stop     string
	one      bool
	detailed bool
	format   string
	indent   int
	remote   string
	timeout  time.Duration
}

func newParseCmd(a *app) *cobra.Command {
	opts := &parseOptions{}

	c := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse oil notation into the interchange form",
		Long: `Parses each file, or stdin when no file is given, and prints the
result as JSON, YAML or normalized oil.

--start and --end select a byte range; --stop ends scanning at the first
top-level token starting with one of the given characters. --detailed prints
the full response including the end offset and any error, the same shape the
parse service answers with. --remote sends the request to a running service.

Examples:
  oil parse query.oil
  echo 'a + b * c' | oil parse --format oil
  oil parse --one --start 4 --stop ')' --detailed file.oil`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("stop") {
				opts.stop = a.config.Parser.Stop
			}
			if !cmd.Flags().Changed("format") {
				opts.format = a.config.Output.Format
			}
			if !cmd.Flags().Changed("indent") {
				opts.indent = a.config.Output.Indent
			}
			return a.runParse(cmd, args, opts)
		},
	}

	f := c.Flags()
	f.IntVar(&opts.start, "start", 0, "byte offset to start parsing at")
	f.IntVar(&opts.end, "end", 0, "byte offset to stop parsing at (0: end of text)")
	f.StringVar(&opts.stop, "stop", "", "stop characters ending the parse at top level")
	f.BoolVar(&opts.one, "one", false, "parse a single expression")
	f.BoolVar(&opts.detailed, "detailed", false, "print end offset and errors with the result")
	f.StringVarP(&opts.format, "format", "f", render.FormatJSON, "output format: json, yaml, oil")
	f.IntVar(&opts.indent, "indent", 2, "JSON indentation (0: compact)")
	f.StringVar(&opts.remote, "remote", "", "address of a running oil service")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "timeout for remote requests")
	return c
}

func (a *app) runParse(cmd *cobra.Command, args []string, opts *parseOptions) error {
	switch opts.format {
	case render.FormatJSON, render.FormatYAML:
	case render.FormatOil:
		if opts.detailed || opts.remote != "" {
			return mdwerror.New("detailed and remote output need json or yaml").
				WithCode(mdwerror.CodeInvalidInput)
		}
	default:
		return mdwerror.Newf("unsupported format %q", opts.format).WithCode(mdwerror.CodeInvalidInput)
	}

	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}

	var respond func(ctx context.Context, req service.Request) (map[string]interface{}, error)
	switch {
	case opts.remote != "":
		cfg := coregrpc.DefaultClientConfig(opts.remote)
		cfg.Logger = a.logger
		client, err := service.Dial(cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		respond = func(ctx context.Context, req service.Request) (map[string]interface{}, error) {
			return client.Parse(ctx, req)
		}

	case opts.detailed:
		svc, err := service.New(service.Config{Engine: a.engine, Logger: a.logger})
		if err != nil {
			return err
		}
		respond = svc.Parse
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	failed := false

	for _, in := range inputs {
		req := service.Request{
			Text:  in.text,
			Start: opts.start,
			End:   opts.end,
			Stop:  opts.stop,
			One:   opts.one,
		}

		var ok bool
		if respond != nil {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			ok, err = writeResponse(ctx, out, errOut, in, req, respond, opts)
			cancel()
		} else {
			ok, err = a.writeParse(out, errOut, in, req, opts)
		}
		if err != nil {
			return err
		}
		if !ok {
			failed = true
		}
	}

	if failed {
		return ErrReported
	}
	return nil
}

// writeParse parses locally and prints the bare result, or the diagnostic
func (a *app) writeParse(out, errOut io.Writer, in input, req service.Request, opts *parseOptions) (bool, error) {
	r := oil.Range{Start: req.Start, End: req.End, Stop: req.Stop}

	var (
		text string
		err  error
	)
	if req.One {
		res := a.engine.ParseOneDetailed(in.text, r)
		if res.Err != nil {
			fmt.Fprint(errOut, render.Diagnostic(in.name, in.text, res.Err))
			return false, nil
		}
		text, err = render.Expression(res.Expression, opts.format, opts.indent)
	} else {
		res := a.engine.ParseDetailed(in.text, r)
		if res.Err != nil {
			fmt.Fprint(errOut, render.Diagnostic(in.name, in.text, res.Err))
			return false, nil
		}
		text, err = render.Document(res.Expressions, opts.format, opts.indent)
	}
	if err != nil {
		return false, err
	}

	_, err = io.WriteString(out, text)
	return true, err
}

// writeResponse prints a service response; an error inside the response is
// also reported on errOut
func writeResponse(
	ctx context.Context,
	out, errOut io.Writer,
	in input,
	req service.Request,
	respond func(ctx context.Context, req service.Request) (map[string]interface{}, error),
	opts *parseOptions,
) (bool, error) {
	resp, err := respond(ctx, req)
	if err != nil {
		return false, fmt.Errorf("%s: %w", in.name, err)
	}

	text, err := render.Value(resp, opts.format, opts.indent)
	if err != nil {
		return false, err
	}
	if _, err := io.WriteString(out, text); err != nil {
		return false, err
	}

	ev, failed := resp["error"].(map[string]interface{})
	if !failed {
		return true, nil
	}
	fmt.Fprint(errOut, render.Diagnostic(in.name, in.text, responseError(ev)))
	return false, nil
}

// responseError rebuilds a coded error from a response error value
func responseError(ev map[string]interface{}) error {
	message, _ := ev["message"].(string)
	code, _ := ev["code"].(string)
	err := mdwerror.New(message).WithCode(mdwerror.Code(code))
	for _, key := range []string{"line", "column", "offset"} {
		if v, ok := ev[key].(float64); ok {
			err.WithDetail(key, int(v))
		}
	}
	return err
}

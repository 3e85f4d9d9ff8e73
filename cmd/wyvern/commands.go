package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/FEAWServices/wyverncss-sub000/color"
	"github.com/FEAWServices/wyverncss-sub000/css"
	"github.com/FEAWServices/wyverncss-sub000/state"
	"github.com/FEAWServices/wyverncss-sub000/validate"
	"github.com/FEAWServices/wyverncss-sub000/wcag"
)

// readInput reads the SOURCE argument ("-" means STDIN) and enforces the
// configured size cap before anything reaches the core.
func readInput(cmd *cli.Command, maxBytes int) ([]byte, error) {
	fname := cmd.Args().Get(0)
	if fname == "" {
		return nil, errors.New("no input specified")
	}
	if cmd.Args().Len() > 1 {
		return nil, fmt.Errorf("too many arguments: %v", cmd.Args().Slice()[1:])
	}

	in := os.Stdin
	if fname != "-" {
		f, err := os.Open(fname)
		if err != nil {
			return nil, fmt.Errorf("unable to read input '%s': %w", fname, err)
		}
		defer f.Close()
		in = f
	}

	data, err := readCapped(in, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("unable to read input '%s': %w", fname, err)
	}
	return data, nil
}

// readCapped reads at most maxBytes from r, failing on oversized input
// without buffering past the cap.
func readCapped(r io.Reader, maxBytes int) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(maxBytes)+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxBytes {
		return nil, fmt.Errorf("input exceeds the %d byte limit", maxBytes)
	}
	return data, nil
}

// decodeDeclarations interprets input as a JSON property map when it looks
// like one; otherwise returns nil and the caller parses it as CSS text.
func decodeDeclarations(data []byte) (map[string]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil
	}
	var decls map[string]string
	if err := json.Unmarshal(trimmed, &decls); err != nil {
		return nil, fmt.Errorf("input looks like JSON but cannot be decoded: %w", err)
	}
	return decls, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ruleResult pairs a stylesheet selector with its validation outcome.
type ruleResult struct {
	Selector string `json:"selector"`
	validate.Result
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	data, err := readInput(cmd, env.Cfg.MaxInputBytes)
	if err != nil {
		return err
	}

	v := validate.NewValidator(env.Log)
	strict := cmd.Bool("strict")

	decls, err := decodeDeclarations(data)
	if err != nil {
		return err
	}

	if decls != nil {
		res := v.Validate(decls, strict)
		if cmd.Bool("inline") {
			fmt.Println(v.InlineStyle(decls))
		} else if err := printJSON(res); err != nil {
			return err
		}
		if res.Failed() {
			return fmt.Errorf("validation failed with %d error(s)", len(res.Errors))
		}
		return nil
	}

	sheet := css.NewParser(env.Log).Parse(data)
	env.Log.Debug("Parsed stylesheet", zap.Int("rules", len(sheet.Rules)), zap.Strings("warnings", sheet.Warnings))

	var (
		results []ruleResult
		failed  int
	)
	for _, rule := range sheet.Rules {
		res := v.Validate(rule.Declarations, strict)
		if res.Failed() {
			failed++
		}
		results = append(results, ruleResult{Selector: rule.Selector, Result: res})
	}
	if err := printJSON(results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d rules", failed, len(sheet.Rules))
	}
	return nil
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	data, err := readInput(cmd, env.Cfg.MaxInputBytes)
	if err != nil {
		return err
	}

	rctx := wcag.Context{
		IsInteractive: cmd.Bool("interactive"),
		Tag:           cmd.String("tag"),
	}
	if s := cmd.String("background"); s != "" {
		c, ok := color.Parse(s)
		if !ok {
			return fmt.Errorf("unable to parse background color %q", s)
		}
		rctx.DefaultBackground = &c
	}
	if s := cmd.String("foreground"); s != "" {
		c, ok := color.Parse(s)
		if !ok {
			return fmt.Errorf("unable to parse foreground color %q", s)
		}
		rctx.DefaultForeground = &c
	}

	v := validate.NewValidator(env.Log)
	engine := wcag.NewEngine(env.Log)

	decls, err := decodeDeclarations(data)
	if err != nil {
		return err
	}

	if decls != nil {
		res := v.Validate(decls, false)
		if res.Failed() {
			if err := printJSON(res); err != nil {
				return err
			}
			return fmt.Errorf("validation failed with %d error(s)", len(res.Errors))
		}
		return printJSON(engine.Check(res.Validated, rctx))
	}

	// security gate first: every rule's declarations pass through the
	// validator before the compliance engine sees them
	sheet := css.NewParser(env.Log).Parse(data)

	// schema rejections just drop the offending property; only a
	// security rejection aborts the check
	var verr error
	for i := range sheet.Rules {
		res := v.Validate(sheet.Rules[i].Declarations, false)
		if res.SecurityRejected() {
			verr = multierr.Append(verr, fmt.Errorf("%s: %v", sheet.Rules[i].Selector, res.Errors))
		}
		sheet.Rules[i].Declarations = res.Validated
	}
	if verr != nil {
		return fmt.Errorf("validation failed: %w", verr)
	}

	return printJSON(engine.CheckStylesheet(sheet, rctx))
}

func runSuggest(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	data, err := readInput(cmd, env.Cfg.MaxInputBytes)
	if err != nil {
		return err
	}

	return printJSON(wcag.Suggest(string(data)))
}

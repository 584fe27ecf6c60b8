// Package build implements "build" command: assembles selectors from selector
// documents and writes either selector lines or complete stylesheet.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssb/config"
	"cssb/css"
	"cssb/sheet"
	"cssb/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")

	if cmd.Args().Len() == 0 {
		return errors.New("no selector documents have been specified")
	}

	out := env.Cfg.Output
	if f := cmd.String("format"); len(f) > 0 {
		format, err := config.ParseOutputFormat(f)
		if err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Error(err), zap.Stringer("format", out.Format))
		} else {
			out.Format = format
		}
	}
	env.Overwrite = cmd.Bool("overwrite")

	docs := make([]*sheet.Document, 0, cmd.Args().Len())
	for _, src := range cmd.Args().Slice() {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := sheet.LoadFile(src)
		if err != nil {
			return err
		}
		if env.Rpt != nil {
			env.Rpt.Store(filepath.ToSlash(filepath.Join("input", filepath.Base(src))), src)
			env.Rpt.StoreData(filepath.ToSlash(filepath.Join("debug", filepath.Base(src)+".tree")), []byte(doc.Dump()))
		}
		docs = append(docs, doc)
		log.Debug("Selector document loaded", zap.String("source", src), zap.Int("rules", len(doc.Rules)))
	}

	dst := cmd.String("out")
	w, closer, err := openDestination(dst, env.Out, env.Overwrite)
	if err != nil {
		return err
	}
	defer func() {
		if er := closer(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close destination '%s': %w", dst, er))
		}
	}()

	log.Info("Processing starting", zap.Int("documents", len(docs)), zap.Stringer("format", out.Format), zap.String("destination", destinationName(dst)))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	var buf strings.Builder
	genErr := Generate(ctx, docs, &out, io.MultiWriter(w, &buf), log)
	if env.Rpt != nil {
		env.Rpt.StoreData("output/"+out.Format.String(), []byte(buf.String()))
	}
	return genErr
}

// Generate writes results for all documents to w. Rules with broken
// selectors are skipped, all such problems are returned together after
// everything else has been written.
func Generate(ctx context.Context, docs []*sheet.Document, out *config.OutputConfig, w io.Writer, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	switch out.Format {
	case config.OutputFormatSelectors:
		tmpl, err := out.LineTemplate()
		if err != nil {
			return err
		}
		return writeSelectors(ctx, docs, tmpl, w)
	case config.OutputFormatStylesheet:
		return writeStylesheet(ctx, docs, w, log)
	default:
		return fmt.Errorf("unsupported output format %s", out.Format)
	}
}

// line is data available to output template.
type line struct {
	Index    int
	Selector string
	Media    string
}

func writeSelectors(ctx context.Context, docs []*sheet.Document, tmpl *template.Template, w io.Writer) error {
	var errs error
	index := 0
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j := range doc.Rules {
			rule := &doc.Rules[j]
			b, err := rule.Selector.Builder()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("document %d: rule %d: %w", i, j, err))
				continue
			}
			if err := tmpl.Execute(w, line{Index: index, Selector: b.Stringify(), Media: rule.Media}); err != nil {
				return fmt.Errorf("unable to execute output template: %w", err)
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
			index++
		}
	}
	return errs
}

func writeStylesheet(ctx context.Context, docs []*sheet.Document, w io.Writer, log *zap.Logger) error {
	var (
		errs error
		all  = &css.Stylesheet{}
	)
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		st, err := doc.Build(log)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("document %d: %w", i, err))
		}
		for _, warn := range st.Warnings {
			log.Warn("Declaration problem", zap.Int("document", i), zap.String("warning", warn))
		}
		for _, item := range st.Items {
			if item.Rule != nil {
				all.AddRule("", *item.Rule)
				continue
			}
			for _, r := range item.MediaBlock.Rules {
				all.AddRule(item.MediaBlock.Query, r)
			}
		}
		all.Warnings = append(all.Warnings, st.Warnings...)
	}
	if _, err := all.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return errs
}

// openDestination returns writer for results: def when name is empty, new
// file otherwise. Returned function closes the file.
func openDestination(name string, def io.Writer, overwrite bool) (io.Writer, func() error, error) {
	if len(name) == 0 {
		return def, func() error { return nil }, nil
	}
	if _, err := os.Stat(name); err == nil && !overwrite {
		return nil, nil, fmt.Errorf("output file already exists: %s", name)
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return nil, nil, fmt.Errorf("unable to create output directory: %w", err)
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create destination file '%s': %w", name, err)
	}
	return f, f.Close, nil
}

func destinationName(name string) string {
	if len(name) == 0 {
		return "STDOUT"
	}
	return name
}

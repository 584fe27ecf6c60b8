// Package shapes implements "shape" command: decodes shape description and
// prints it back in canonical form together with its area.
package shapes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssb/shape"
	"cssb/state"
)

func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("shape")

	if cmd.Args().Len() != 2 {
		return fmt.Errorf("shape kind (one of %s) and description file must be specified", strings.Join(shape.Names(), ", "))
	}
	kind, src := cmd.Args().Get(0), cmd.Args().Get(1)

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read shape description: %w", err)
	}
	env.Rpt.Store(filepath.ToSlash(filepath.Join("input", filepath.Base(src))), src)

	useIon := cmd.Bool("ion")
	s, err := Decode(kind, data, useIon)
	if err != nil {
		return err
	}
	log.Debug("Shape decoded", zap.String("kind", kind), zap.String("source", src), zap.Bool("ion", useIon))

	return Describe(env.Out, s, useIon)
}

// Decode reads shape of requested kind either from JSON or from Ion.
func Decode(kind string, data []byte, useIon bool) (shape.Shape, error) {
	if useIon {
		return shape.FromIon(kind, data)
	}
	return shape.FromJSON(kind, data)
}

// Describe writes canonical encoding of s followed by its area.
func Describe(w io.Writer, s shape.Shape, useIon bool) error {
	if s == nil {
		return errors.New("nothing to describe")
	}

	var (
		text string
		err  error
	)
	if useIon {
		text, err = shape.ToIon(s)
	} else {
		text, err = shape.ToJSON(s)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\narea: %g\n", text, s.Area())
	return err
}

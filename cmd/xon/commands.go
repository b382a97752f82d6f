package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/isaacmuliro/Xerxis-Object-Notation"
	"github.com/isaacmuliro/Xerxis-Object-Notation/ast"
	"github.com/isaacmuliro/Xerxis-Object-Notation/internal/errors"
	"github.com/isaacmuliro/Xerxis-Object-Notation/keypath"
	"gopkg.in/yaml.v3"
)

const stdinName = "-"

// readDoc parses the document named by name, or standard input if name is
// "-". The caller should release the result with done when finished.
func (c *Context) readDoc(name string) (v ast.Value, done func(), err error) {
	var r io.Reader = c.Stdin
	if name != stdinName {
		f, err := os.Open(name)
		if err != nil {
			return nil, nil, errors.NewInputError("cannot read input", err)
		}
		defer f.Close()
		r = f
	}

	st := xon.NewStream(bufio.NewReader(r))
	st.AllowTrailingCommas(c.Config.Parse.TrailingCommas)
	st.SetMaxDepth(c.Config.Parse.MaxDepth)
	v, err = ast.ParseStream(st)
	if err != nil {
		return nil, nil, errors.NewParsingError(displayName(name), err)
	}
	c.Log.Debug("parsed document", "input", displayName(name), "kind", v.Kind(), "size", ast.Size(v))
	return v, func() {
		n := ast.Release(v)
		c.Log.Debug("released document", "input", displayName(name), "values", n)
	}, nil
}

func (c *Context) write(s string) error {
	if _, err := io.WriteString(c.Stdout, s); err != nil {
		return errors.NewOutputError("cannot write output", err)
	}
	return nil
}

func displayName(name string) string {
	if name == stdinName {
		return "<stdin>"
	}
	return name
}

type printCmd struct {
	File string `arg:"" default:"-" help:"Input file (- for standard input)."`
	Keys bool   `help:"Also list the top-level members of an object document." short:"k"`
}

func (p *printCmd) Run(ctx *Context) error {
	v, done, err := ctx.readDoc(p.File)
	if err != nil {
		return err
	}
	defer done()

	w := bufio.NewWriter(ctx.Stdout)
	fmt.Fprintln(w, "Parsing Successful! AST Structure:")
	if err := ast.Print(w, v); err != nil {
		return errors.NewOutputError("cannot print tree", err)
	}
	if p.Keys {
		fmt.Fprintln(w, "\n--- Top-level keys ---")
		obj, ok := v.(ast.Object)
		if !ok {
			w.Flush()
			return errors.NewPathError("cannot list keys", errors.ErrNotAnObject)
		}
		for _, m := range obj {
			fmt.Fprintf(w, "Found Key: %-15s -> %s\n", m.Key, describeValue(m.Value))
		}
	}
	if err := w.Flush(); err != nil {
		return errors.NewOutputError("cannot write output", err)
	}
	return nil
}

func describeValue(v ast.Value) string {
	switch t := v.(type) {
	case ast.String:
		return fmt.Sprintf("String: %q", string(t))
	case ast.Number:
		return "Number: " + strconv.FormatFloat(float64(t), 'g', -1, 64)
	case ast.Bool:
		return "Bool: " + strconv.FormatBool(bool(t))
	case ast.List:
		return "[List]"
	case ast.Object:
		return "{Object}"
	}
	return "Null"
}

type getCmd struct {
	File string `arg:"" help:"Input file (- for standard input)."`
	Path string `arg:"" help:"Key path to select."`
	Raw  bool   `help:"Print string values without quotation marks." short:"r"`
}

func (g *getCmd) Run(ctx *Context) error {
	v, done, err := ctx.readDoc(g.File)
	if err != nil {
		return err
	}
	defer done()

	got, err := keypath.Lookup(v, g.Path)
	if err != nil {
		return errors.NewPathError(g.Path, err)
	}
	if s, ok := got.(ast.String); ok && g.Raw {
		return ctx.write(string(s) + "\n")
	}
	out, err := formatValue(ctx, got)
	if err != nil {
		return err
	}
	return ctx.write(out)
}

func formatValue(ctx *Context, v ast.Value) (string, error) {
	var buf strings.Builder
	if err := ctx.Config.Formatter().Format(&buf, v); err != nil {
		return "", errors.NewOutputError("cannot format value", err)
	}
	return buf.String(), nil
}

type keysCmd struct {
	File string `arg:"" help:"Input file (- for standard input)."`
	Path string `arg:"" optional:"" help:"Key path of the object (default: the root)."`
}

func (k *keysCmd) Run(ctx *Context) error {
	v, done, err := ctx.readDoc(k.File)
	if err != nil {
		return err
	}
	defer done()

	if k.Path != "" {
		v, err = keypath.Lookup(v, k.Path)
		if err != nil {
			return errors.NewPathError(k.Path, err)
		}
	}
	if !ast.IsObject(v) {
		return errors.NewPathError("cannot list keys of "+ast.KindOf(v).String(), errors.ErrNotAnObject)
	}
	var buf strings.Builder
	for _, key := range ast.Keys(v) {
		buf.WriteString(key)
		buf.WriteByte('\n')
	}
	return ctx.write(buf.String())
}

type jsonCmd struct {
	File    string `arg:"" default:"-" help:"Input file (- for standard input)."`
	Compact bool   `help:"Write compact JSON on a single line." short:"C"`
}

func (j *jsonCmd) Run(ctx *Context) error {
	v, done, err := ctx.readDoc(j.File)
	if err != nil {
		return err
	}
	defer done()

	if j.Compact || !ctx.Config.JSON.Pretty {
		return ctx.write(v.JSON() + "\n")
	}
	out, err := ast.FormatJSON(v)
	if err != nil {
		return errors.NewOutputError("cannot format JSON", err)
	}
	return ctx.write(string(out) + "\n")
}

type yamlCmd struct {
	File string `arg:"" default:"-" help:"Input file (- for standard input)."`
}

func (y *yamlCmd) Run(ctx *Context) error {
	v, done, err := ctx.readDoc(y.File)
	if err != nil {
		return err
	}
	defer done()

	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(v)); err != nil {
		return errors.NewOutputError("cannot encode YAML", err)
	}
	if err := enc.Close(); err != nil {
		return errors.NewOutputError("cannot encode YAML", err)
	}
	return ctx.write(buf.String())
}

type fmtCmd struct {
	File  string `arg:"" default:"-" help:"Input file (- for standard input)."`
	Write bool   `help:"Write the result back to the input file instead of standard output." short:"w"`
}

func (f *fmtCmd) Run(ctx *Context) error {
	if f.Write && f.File == stdinName {
		return errors.NewInputError("cannot rewrite standard input", errors.ErrNoInput)
	}
	v, done, err := ctx.readDoc(f.File)
	if err != nil {
		return err
	}
	defer done()

	out, err := formatValue(ctx, v)
	if err != nil {
		return err
	}
	if !f.Write {
		return ctx.write(out)
	}
	fi, err := os.Stat(f.File)
	if err != nil {
		return errors.NewOutputError("cannot rewrite "+f.File, err)
	}
	if err := os.WriteFile(f.File, []byte(out), fi.Mode().Perm()); err != nil {
		return errors.NewOutputError("cannot rewrite "+f.File, err)
	}
	ctx.Log.Info("formatted file", "file", f.File, "bytes", len(out))
	return nil
}

type checkCmd struct {
	Files []string `arg:"" help:"Input files to check (- for standard input)."`
	Quiet bool     `help:"Do not report files that are valid." short:"q"`
}

func (c *checkCmd) Run(ctx *Context) error {
	var nbad int
	for _, name := range c.Files {
		_, done, err := ctx.readDoc(name)
		if err != nil {
			nbad++
			fmt.Fprintln(ctx.Stderr, errors.UserFriendlyError(err))
			continue
		}
		done()
		if !c.Quiet {
			if err := ctx.write("ok " + displayName(name) + "\n"); err != nil {
				return err
			}
		}
	}
	if nbad != 0 {
		return errors.NewInputError(fmt.Sprintf("%d of %d files failed", nbad, len(c.Files)), errors.ErrInvalid)
	}
	return nil
}

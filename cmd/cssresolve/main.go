/*
Command cssresolve prints computed CSS values for the elements of an HTML
document.

	cssresolve --html page.html --css extra.css --select "p.note" font-size color

Without properties, 'display', 'font-size' and 'color' are printed. Without
a selector, the whole document tree is dumped. With --layout, selected
elements list their box modes and positions as well. Problems found while
resolving are listed on stderr; with --strict, resolution errors make
the command fail.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/npillmayer/cssengine/dom"
	"github.com/npillmayer/cssengine/dom/domdbg"
	"github.com/npillmayer/cssengine/dom/style/css"
	"github.com/npillmayer/cssengine/dom/style/cssom"
	"github.com/npillmayer/cssengine/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/cssengine/styledb"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
)

var defaultProperties = []string{"display", "font-size", "color"}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            "cssresolve",
		Usage:           "prints computed CSS values for HTML elements",
		ArgsUsage:       "[PROPERTY...]",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "html", Usage: "read the HTML document from `FILE`", Required: true},
			&cli.StringSliceFlag{Name: "css", Usage: "add author stylesheet `FILE` (may be repeated)"},
			&cli.StringFlag{Name: "select", Aliases: []string{"s"}, Usage: "print elements matching the CSS `SELECTOR` only"},
			&cli.StringFlag{Name: "db", Usage: "load the style database from `FILE` (YAML)"},
			&cli.StringFlag{Name: "medium", Aliases: []string{"m"}, Usage: "target `MEDIUM`, e.g. screen or print"},
			&cli.FloatFlag{Name: "width", Usage: "viewport width in points"},
			&cli.FloatFlag{Name: "height", Usage: "viewport height in points"},
			&cli.BoolFlag{Name: "nodefaults", Usage: "do not apply the built-in user-agent stylesheet"},
			&cli.StringFlag{Name: "graphviz", Usage: "write the styled tree as a GraphViz DOT graph to `FILE`"},
			&cli.BoolFlag{Name: "layout", Usage: "print box modes and positions of selected elements"},
			&cli.BoolFlag{Name: "strict", Usage: "fail if a value had to fall back because of an error"},
		},
		Action: resolve,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cssresolve: %v\n", err)
		os.Exit(1)
	}
}

func resolve(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := loadDocument(cmd)
	if doc == nil {
		return err
	}
	out, errout := writers(cmd)
	if err != nil {
		fmt.Fprintf(errout, "stylesheet problems: %v\n", err)
	}
	properties := cmd.Args().Slice()
	if len(properties) == 0 {
		properties = defaultProperties
	}
	if sel := cmd.String("select"); sel != "" {
		elems, err := doc.Select(sel)
		if err != nil {
			return err
		}
		if len(elems) == 0 {
			return fmt.Errorf("no element matches %q", sel)
		}
		for _, el := range elems {
			printElement(out, doc, el, properties)
			if cmd.Bool("layout") {
				if err := printLayout(out, doc, el); err != nil {
					fmt.Fprintf(errout, "%s: %v\n", el, err)
				}
			}
		}
	} else {
		fmt.Fprint(out, dom.Dump(doc, properties...))
	}
	if path := cmd.String("graphviz"); path != "" {
		if err := writeGraph(doc, path); err != nil {
			return err
		}
	}
	for _, d := range doc.Diagnostics() {
		fmt.Fprintln(errout, d.String())
	}
	if cmd.Bool("strict") {
		return doc.Err()
	}
	return nil
}

// loadDocument parses the HTML document and adds the stylesheets given on the
// command line. Problems with stylesheets are returned as an error together
// with the document.
func loadDocument(cmd *cli.Command) (*dom.Document, error) {
	var opts []dom.Option
	if path := cmd.String("db"); path != "" {
		db, err := styledb.LoadFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dom.WithDatabase(db))
	}
	if medium := cmd.String("medium"); medium != "" {
		opts = append(opts, dom.WithMedium(medium))
	}
	if w, h := cmd.Float("width"), cmd.Float("height"); w > 0 || h > 0 {
		vp := styledb.DefaultViewport(cmd.String("medium"))
		if w > 0 {
			vp.Width = w
		}
		if h > 0 {
			vp.Height = h
		}
		opts = append(opts, dom.WithViewport(vp))
	}
	if cmd.Bool("nodefaults") {
		opts = append(opts, dom.WithoutUserAgentStyles())
	}
	f, err := os.Open(cmd.String("html"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := dom.Parse(f, opts...)
	if doc == nil {
		return nil, err
	}
	for _, path := range cmd.StringSlice("css") {
		text, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, rerr
		}
		sheet, perr := douceuradapter.Parse(string(text))
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", path, perr))
			continue
		}
		if aerr := doc.AddStyleSheet(sheet, cssom.Author); aerr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", path, aerr))
		}
	}
	return doc, err
}

func printElement(w io.Writer, doc *dom.Document, el *dom.Element, properties []string) {
	fmt.Fprintln(w, el.String())
	s := doc.ComputedStyle(el)
	for _, p := range properties {
		if v := s.CSSValue(p); v != nil {
			fmt.Fprintf(w, "    %s: %s\n", p, v)
		} else {
			fmt.Fprintf(w, "    %s: -\n", p)
		}
	}
}

// printLayout prints the box mode and the position of an element, as layout
// would see them.
func printLayout(w io.Writer, doc *dom.Document, el *dom.Element) error {
	s := doc.ComputedStyle(el)
	mode, err := css.DisplayModeOf(s.CSSValue("display"))
	fmt.Fprintf(w, "    [box] %s %s\n", mode.Symbol(), mode.FullString())
	pos, perr := css.PositionOf(s)
	fmt.Fprintf(w, "    [position] %s\n", pos)
	return multierr.Append(err, perr)
}

func writeGraph(doc *dom.Document, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return domdbg.ToGraphViz(doc, f, nil)
}

func writers(cmd *cli.Command) (io.Writer, io.Writer) {
	out, errout := io.Writer(os.Stdout), io.Writer(os.Stderr)
	if root := cmd.Root(); root != nil {
		if root.Writer != nil {
			out = root.Writer
		}
		if root.ErrWriter != nil {
			errout = root.ErrWriter
		}
	}
	return out, errout
}

// Package specdoc builds specification documents from Markdown through a
// chain of preprocessor hooks.
//
// # Preprocessor Hooks
//
// A hook implements Preprocessor: it reads the whole document and returns the
// replacement text as an ordered sequence of lines. ScriptFilter adapts any
// external program into a hook. The program reads the document on stdin and
// writes the replacement on stdout:
//
//	f, err := specdoc.NewScriptFilter("tools/check.py",
//	    specdoc.WithInterpreter("python3"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reg := specdoc.NewRegistry()
//	if err := reg.Register(f); err != nil {
//	    log.Fatal(err)
//	}
//
//	lines, err := reg.Run(ctx, markdown)
//
// A filter that exits non-zero produces a *FilterError carrying its standard
// error verbatim. The error matches ErrFilterFailed:
//
//	var fe *specdoc.FilterError
//	if errors.As(err, &fe) {
//	    os.Stderr.WriteString(fe.Stderr)
//	    os.Exit(5)
//	}
//
// Hooks run in registration order. The first hook reads the raw document;
// every later hook reads the previous hook's lines, each terminated by a
// newline. A Registry with no hooks leaves the document unchanged.
//
// # Building Documents
//
// Builder runs the registry, converts the result to HTML via Goldmark and,
// unless Input.HTMLOnly is set, renders a PDF in headless Chrome (go-rod):
//
//	b, err := specdoc.NewBuilder(
//	    specdoc.WithRegistry(reg),
//	    specdoc.WithTimeout(2 * time.Minute),
//	    specdoc.WithPageSetup(specdoc.PageSetup{Paper: specdoc.PaperA4, PageNumbers: true}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	res, err := b.Build(ctx, specdoc.Input{Markdown: markdown})
//
// A Builder owns one browser and is not safe for concurrent use. Use one
// Builder per goroutine for parallel builds.
//
// # Environment Variables
//
//	ROD_BROWSER_BIN   path to a pre-installed Chrome/Chromium
//	ROD_NO_SANDBOX=1  disable the Chrome sandbox (Docker, CI)
package specdoc
